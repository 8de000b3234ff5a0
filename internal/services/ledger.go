package services

import (
	"context"
	"fmt"
	"time"

	"commons/internal/models"

	"gorm.io/gorm"
)

// AttemptLedger is the append-only record of login attempts.
type AttemptLedger struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAttemptLedger(db *gorm.DB) *AttemptLedger {
	return &AttemptLedger{db: db, now: time.Now}
}

// Record appends one attempt. An empty username is stored as NULL.
func (l *AttemptLedger) Record(ctx context.Context, username, ip string, success bool) error {
	attempt := models.LoginAttempt{
		IP:        ip,
		Success:   success,
		CreatedAt: l.now(),
	}
	if username != "" {
		attempt.Username = &username
	}
	if err := l.db.WithContext(ctx).Create(&attempt).Error; err != nil {
		return fmt.Errorf("recording login attempt: %w", err)
	}
	return nil
}

// CountRecentFailures counts failed attempts for username at or after since.
func (l *AttemptLedger) CountRecentFailures(ctx context.Context, username string, since time.Time) (int64, error) {
	var count int64
	err := l.db.WithContext(ctx).
		Model(&models.LoginAttempt{}).
		Where("username = ? AND success = ? AND created_at >= ?", username, false, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting login failures: %w", err)
	}
	return count, nil
}
