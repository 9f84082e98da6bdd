package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reading is an append-only sensor measurement. Readings are not owned by a
// user; ownership is derived by matching Address and Type against a Sensor.
type Reading struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Address   string    `gorm:"not null;index:idx_readings_addr_type" json:"address"`
	Type      string    `gorm:"not null;index:idx_readings_addr_type" json:"type"`
	Value     float64   `gorm:"not null" json:"value"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}

func (r *Reading) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	return nil
}
