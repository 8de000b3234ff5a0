package models

import "time"

// LoginAttempt is one row of the append-only login ledger.
// Username is nil only when the submitted username was empty.
type LoginAttempt struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  *string   `gorm:"index:idx_login_attempt_user_time" json:"username"`
	IP        string    `gorm:"size:64;not null" json:"ip"`
	Success   bool      `gorm:"not null;index:idx_login_attempt_user_time" json:"success"`
	CreatedAt time.Time `gorm:"not null;index:idx_login_attempt_user_time" json:"created_at"`
}
