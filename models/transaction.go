package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction is a finalized, paid wash. Items, employees and commissions
// are fixed at creation; an explicit edit replaces the children and
// recomputes the allocation.
type Transaction struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	LicensePlate string `gorm:"index;not null"`

	Items       []LineItem   `gorm:"polymorphic:Owner"`
	Employees   []Employee   `gorm:"many2many:transaction_employees"`
	Commissions []Commission `gorm:"polymorphic:Owner"`

	PaymentMethod PaymentMethod `gorm:"size:16;not null"`
	TotalAmount   float64       `gorm:"type:decimal(10,2);not null"`
	Date          time.Time     `gorm:"index;not null"`
	Status        string        `gorm:"size:16;default:'completed'"`
	Notes         string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = TransactionCompleted
	}
	return
}
