package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every environment-driven setting. It is loaded once in main
// and passed down explicitly; nothing else reads the environment at runtime.
type Config struct {
	Port           string
	DatabaseURL    string
	SQLitePath     string
	JWTSecret      string
	JWTExpiryHours int
	AllowedOrigins []string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	// ReminderLead is how long before an appointment its reminder fires.
	ReminderLead time.Duration
}

func Load() Config {
	expiry, err := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "24"))
	if err != nil || expiry < 1 {
		expiry = 24
	}

	leadMinutes, err := strconv.Atoi(getEnv("REMINDER_LEAD_MINUTES", "60"))
	if err != nil || leadMinutes < 1 {
		leadMinutes = 60
	}

	origins := strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DB_URL"),
		SQLitePath:     getEnv("SQLITE_PATH", "carwash.db"),
		JWTSecret:      strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTExpiryHours: expiry,
		AllowedOrigins: origins,

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber: os.Getenv("TWILIO_PHONE_NUMBER"),

		ReminderLead: time.Duration(leadMinutes) * time.Minute,
	}
}

// TwilioConfigured reports whether SMS delivery can be attempted at all.
func (c Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFromNumber != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
