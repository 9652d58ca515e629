package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is a catalog entry. Its name, price and commission rate are
// snapshotted into line items at the time of sale, so editing the catalog
// never rewrites history.
type Service struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name           string  `gorm:"not null"`
	Category       string  `gorm:"default:'General'"`
	Price          float64 `gorm:"type:decimal(10,2);not null"`
	CommissionRate float64 `gorm:"type:decimal(5,2);default:0"` // percent
	IsActive       bool    `gorm:"default:true"`

	gorm.Model
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Category == "" {
		s.Category = "General"
	}
	return
}
