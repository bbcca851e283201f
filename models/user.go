package models

import (
	"time"

	"gorm.io/gorm"
)

// Role separates the two parents from teen accounts. Parents approve changes
// and manage teen permissions; teens are gated by their TeenPermissions row.
type Role string

const (
	RoleParent Role = "parent"
	RoleTeen   Role = "teen"
)

// User represents a family member account.
type User struct {
	gorm.Model

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Role         Role   `gorm:"size:16;not null;default:'parent'" json:"role"`
	FamilyID     uint   `gorm:"index" json:"family_id"`

	IsActive     bool `gorm:"default:true" json:"is_active"`
	TokenVersion int  `gorm:"default:0" json:"-"`
}

// IsParent reports whether the user may approve changes and manage teens.
func (u *User) IsParent() bool { return u.Role == RoleParent }

// Family groups the member accounts. Single-family scale: one row in
// practice, but invitations can attach additional members.
type Family struct {
	gorm.Model
	Name    string `gorm:"size:100;not null" json:"name"`
	OwnerID uint   `json:"owner_id"`
}

// FamilyInvitation is a server-issued invite code. Redeemable once, until
// ExpiresAt; there is no revocation beyond expiry.
type FamilyInvitation struct {
	gorm.Model
	FamilyID  uint      `gorm:"not null;index" json:"family_id"`
	Email     string    `gorm:"not null" json:"email"`
	Token     string    `gorm:"uniqueIndex;not null" json:"token"`
	CreatedBy uint      `gorm:"not null" json:"created_by"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"default:false" json:"used"`
}
