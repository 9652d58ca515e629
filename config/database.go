package config

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens the storage backend selected by configuration: Postgres when
// DB_URL is set, otherwise a local SQLite file. The choice is made exactly
// once here; everything downstream receives the *gorm.DB and never asks
// which backend it is talking to.
func Connect(cfg Config) (*gorm.DB, error) {
	if cfg.DatabaseURL != "" {
		return gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	}

	log.Printf("DB_URL not set, falling back to local database at %s", cfg.SQLitePath)
	return gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
}
