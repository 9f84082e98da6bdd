package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClothingItem is a wardrobe entry owned by one user.
type ClothingItem struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User  `gorm:"foreignKey:UserID" json:"-"`
	Name         string `gorm:"not null" json:"name"`
	Type         string `gorm:"not null" json:"type"`
	ImageAddress string `json:"image_address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *ClothingItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
