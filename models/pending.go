package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PendingService is a car currently in the wash bay: same shape as a
// transaction but unpaid. It either becomes a Transaction (and is deleted)
// or is deleted outright.
type PendingService struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	LicensePlate string `gorm:"index;not null"`

	Items       []LineItem   `gorm:"polymorphic:Owner"`
	Employees   []Employee   `gorm:"many2many:pending_service_employees"`
	Commissions []Commission `gorm:"polymorphic:Owner"`

	TotalAmount         float64   `gorm:"type:decimal(10,2);not null"`
	Date                time.Time `gorm:"index;not null"`
	EstimatedCompletion *time.Time
	Notes               string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *PendingService) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
