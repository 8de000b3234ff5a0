package models

import (
	"time"
)

// CommentReaction is a single user's vote on a comment. The composite unique
// index makes (comment_id, user_id) the upsert key, so a user holds at most one
// live vote per comment.
type CommentReaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_reaction_comment_user" json:"comment_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reaction_comment_user;index" json:"user_id"`
	Value     int       `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt time.Time `json:"created_at"`
}
