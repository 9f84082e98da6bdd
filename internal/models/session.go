package models

import "time"

// Session maps an opaque cookie token to its owning user. The token itself is
// the primary key; expiry is decided at read time from LastAccess, so a row
// may outlive its logical lifetime until overwritten or swept.
type Session struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"-"`
	LastAccess time.Time `gorm:"not null;index" json:"last_access"`
	CreatedAt  time.Time `json:"created_at"`
}
