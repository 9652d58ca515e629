package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is a wash-bay worker. DefaultCommissionRate is the weight used
// when splitting a work item's commission pool among assigned employees.
type Employee struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name                  string `gorm:"not null"`
	Phone                 string
	Address               string
	DefaultCommissionRate float64 `gorm:"type:decimal(5,2);default:0"` // percent

	gorm.Model
}

func (e *Employee) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
