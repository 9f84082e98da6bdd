package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sensor is a registered device owned by exactly one user. Address is the
// stable device identifier readings are correlated against.
type Sensor struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID  string `gorm:"type:uuid;not null;index" json:"user_id"`
	User    *User  `gorm:"foreignKey:UserID" json:"-"`
	Type    string `gorm:"not null" json:"type"`
	Units   string `gorm:"not null" json:"units"`
	Address string `gorm:"not null;index" json:"address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Sensor) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
