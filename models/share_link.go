package models

import (
	"time"

	"gorm.io/gorm"
)

// ShareLink is a read-only share of the family calendar, addressed by token.
// Expiry is checked at read time; there is no revocation mechanism.
type ShareLink struct {
	gorm.Model
	Token     string    `gorm:"uniqueIndex;not null" json:"token"`
	CreatedBy uint      `gorm:"not null" json:"created_by"`
	Message   string    `gorm:"size:500" json:"message"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}

// Expired reports whether the link is past its expiry at the given time.
func (s *ShareLink) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
