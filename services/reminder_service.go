// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"time"

	"carwash-backend/config"
	"carwash-backend/models"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

type ReminderService struct {
	db     *gorm.DB
	cfg    config.Config
	client *twilio.RestClient
}

func NewReminderService(db *gorm.DB, cfg config.Config) *ReminderService {
	s := &ReminderService{db: db, cfg: cfg}
	if cfg.TwilioConfigured() {
		s.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	} else {
		log.Println("Twilio not configured, reminders will be in-app only")
	}
	return s
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Sweep once a minute so reminders fire within a minute of their window.
	if _, err := c.AddFunc("* * * * *", s.Sweep); err != nil {
		log.Printf("Failed to schedule reminder sweep: %v", err)
		return
	}

	c.Start()
	log.Println("Reminder scheduler started")
}

// Sweep finds appointments entering the reminder window that have not been
// reminded yet, creates the in-app reminder and attempts SMS delivery.
func (s *ReminderService) Sweep() {
	cutoff := time.Now().Add(s.cfg.ReminderLead)

	var appointments []models.Appointment
	if err := s.db.
		Where("reminder_sent = ? AND status IN ? AND appointment_date <= ?",
			false,
			[]models.AppointmentStatus{models.AppointmentScheduled, models.AppointmentConfirmed},
			cutoff).
		Find(&appointments).Error; err != nil {
		log.Printf("Reminder sweep query failed: %v", err)
		return
	}

	for _, appointment := range appointments {
		s.processAppointment(appointment)
	}
}

func (s *ReminderService) processAppointment(appointment models.Appointment) {
	reminder := models.AppointmentReminder{
		UserID:          appointment.UserID,
		AppointmentID:   appointment.ID,
		CustomerName:    appointment.CustomerName,
		CustomerPhone:   appointment.CustomerPhone,
		LicensePlate:    appointment.LicensePlate,
		AppointmentDate: appointment.AppointmentDate,
		AppointmentTime: appointment.AppointmentTime,
		ReminderTime:    appointment.AppointmentDate.Add(-s.cfg.ReminderLead),
		IsRead:          false,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&reminder).Error; err != nil {
			return err
		}
		return tx.Model(&models.Appointment{}).
			Where("id = ?", appointment.ID).
			Update("reminder_sent", true).Error
	})
	if err != nil {
		log.Printf("Failed to create reminder for appointment %s: %v", appointment.ID, err)
		return
	}

	if s.client != nil {
		s.sendSMS(appointment)
	}
}

func (s *ReminderService) sendSMS(appointment models.Appointment) {
	message := fmt.Sprintf(
		"Hi %s, reminder: your car wash for %s is scheduled today at %s. See you soon!",
		appointment.CustomerName, appointment.LicensePlate, appointment.AppointmentTime)

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(appointment.CustomerPhone)
	params.SetFrom(s.cfg.TwilioFromNumber)
	params.SetBody(message)

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		log.Printf("Failed to send reminder to %s: %v", appointment.CustomerPhone, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		log.Printf("Reminder sent to %s, SID: %s", appointment.CustomerPhone, *resp.Sid)
	} else {
		log.Printf("Reminder sent to %s, but no SID returned", appointment.CustomerPhone)
	}

	reminderLog := models.ReminderLog{
		UserID:        appointment.UserID,
		AppointmentID: appointment.ID,
		Message:       message,
		Status:        status,
		ErrorMessage:  errorMsg,
		Channel:       "sms",
		SentAt:        time.Now(),
	}

	if err := s.db.Create(&reminderLog).Error; err != nil {
		log.Printf("Failed to log reminder for appointment %s: %v", appointment.ID, err)
	}
}
