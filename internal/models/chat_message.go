package models

import "time"

type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// ChatEvent is what clients see for a chat message: the body plus the
// author's profile as it is now, not as it was when the message was sent.
type ChatEvent struct {
	ID           uint      `json:"id"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
	DisplayName  string    `json:"display_name"`
	ProfileColor string    `json:"profile_color"`
	Avatar       string    `json:"avatar"`
}
