package models

import (
	"time"
)

const (
	DefaultProfileColor = "#3b82f6"
	DefaultAvatar       = "default"
)

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"uniqueIndex;size:64;not null" json:"username"` // immutable after registration
	Email        string     `gorm:"uniqueIndex;size:254;not null" json:"email"`
	DisplayName  string     `gorm:"size:30;not null" json:"display_name"`
	PasswordHash string     `gorm:"not null" json:"-"`
	ProfileColor string     `gorm:"size:7;not null;default:'#3b82f6'" json:"profile_color"`
	Avatar       string     `gorm:"size:40;not null;default:'default'" json:"avatar"`
	LockedUntil  *time.Time `json:"-"` // nil when the account is not locked
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsLocked reports whether the account is locked at the given instant.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}
