package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment is a scheduled wash. AppointmentDate carries the full start
// timestamp; AppointmentTime keeps the operator-entered HH:MM for display.
// Completing an appointment creates a Transaction and marks the appointment
// completed rather than deleting it.
type Appointment struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	LicensePlate  string `gorm:"index;not null"`
	CustomerName  string `gorm:"not null"`
	CustomerPhone string `gorm:"not null"`

	Items       []LineItem   `gorm:"polymorphic:Owner"`
	Employees   []Employee   `gorm:"many2many:appointment_employees"`
	Commissions []Commission `gorm:"polymorphic:Owner"`

	TotalAmount     float64           `gorm:"type:decimal(10,2);not null"`
	AppointmentDate time.Time         `gorm:"index;not null"`
	AppointmentTime string            `gorm:"size:8"`
	Status          AppointmentStatus `gorm:"size:16;default:'scheduled'"`
	Notes           string
	ReminderSent    bool `gorm:"default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = AppointmentScheduled
	}
	return
}
