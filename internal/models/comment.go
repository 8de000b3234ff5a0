package models

import (
	"time"
)

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	IsDeleted bool      `gorm:"not null;default:false;index" json:"is_deleted"`
	EditCount int       `gorm:"not null;default:0" json:"edit_count"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentView is a listed comment joined with its author's current profile
// and the live sum of its reactions.
type CommentView struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	Body         string    `json:"body"`
	EditCount    int       `json:"edit_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	DisplayName  string    `json:"display_name"`
	ProfileColor string    `json:"profile_color"`
	Avatar       string    `json:"avatar"`
	Score        int64     `json:"score"`
}

// CommentPage is one page of non-deleted comments, newest first.
type CommentPage struct {
	Comments   []CommentView `json:"comments"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"total_pages"`
}
