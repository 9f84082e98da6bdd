package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User describes an account owning sensors, clothing, and at most one live session.
type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Location string `gorm:"not null" json:"location"`

	Sessions []Session      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Sensors  []Sensor       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Clothing []ClothingItem `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate ensures a UUID is present before persisting.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
