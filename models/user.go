package models

import (
	"time"

	"carwash-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the shop proprietor. A single account owns its entire catalog,
// staff and work records; there is no multi-user tenancy.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Email    string    `gorm:"uniqueIndex;not null"`
	Password string    `gorm:"not null"`

	BusinessName string `gorm:"not null"`
	Phone        string
	Address      string

	LastLogin *time.Time
	IsActive  bool `gorm:"default:true"`

	gorm.Model
}

// Hash the password and assign an ID before the row is created.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}
