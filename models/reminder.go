package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentReminder is derived from an appointment: one row per
// appointment, firing at the appointment time minus the configured lead.
// Deleted in cascade when its appointment is deleted.
type AppointmentReminder struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID        uuid.UUID `gorm:"type:uuid;index;not null"`
	AppointmentID uuid.UUID `gorm:"type:uuid;index;not null"`

	CustomerName    string
	CustomerPhone   string
	LicensePlate    string
	AppointmentDate time.Time
	AppointmentTime string    `gorm:"size:8"`
	ReminderTime    time.Time `gorm:"index;not null"`
	IsRead          bool      `gorm:"default:false"`

	CreatedAt time.Time
}

func (r *AppointmentReminder) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

// ReminderLog records each SMS delivery attempt.
type ReminderLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID        uuid.UUID `gorm:"type:uuid;index;not null"`
	AppointmentID uuid.UUID `gorm:"type:uuid;index;not null"`

	Message      string `gorm:"type:text"`
	Status       string `gorm:"size:16"` // sent, failed
	ErrorMessage string `gorm:"type:text"`
	Channel      string `gorm:"size:16"` // sms
	SentAt       time.Time

	gorm.Model
}

func (l *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
