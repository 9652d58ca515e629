package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LineItem is one sold service inside a work item (transaction, pending
// service or appointment). Price already includes quantity multiplication.
// ServiceName, Price and CommissionRate are copies of the catalog values at
// creation time.
type LineItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	OwnerID   uuid.UUID `gorm:"type:uuid;index;not null"`
	OwnerType string    `gorm:"size:32;index;not null"`

	ServiceID      uuid.UUID `gorm:"type:uuid;index;not null"`
	ServiceName    string    `gorm:"not null"`
	Price          float64   `gorm:"type:decimal(10,2);not null"`
	CommissionRate float64   `gorm:"type:decimal(5,2);default:0"`
}

func (i *LineItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// Commission is one employee's allocated share of a work item's commission
// pool. CommissionRate is the employee's default rate frozen at allocation
// time; it never follows later edits to the employee record.
type Commission struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	OwnerID   uuid.UUID `gorm:"type:uuid;index;not null"`
	OwnerType string    `gorm:"size:32;index;not null"`

	EmployeeID     uuid.UUID `gorm:"type:uuid;index;not null"`
	EmployeeName   string    `gorm:"not null"`
	Amount         float64   `gorm:"type:decimal(10,2);not null"`
	CommissionRate float64   `gorm:"type:decimal(5,2);default:0"`
	IsPaid         bool      `gorm:"default:false"`
	Notes          string
}

func (cm *Commission) BeforeCreate(tx *gorm.DB) (err error) {
	if cm.ID == uuid.Nil {
		cm.ID = uuid.New()
	}
	return
}
