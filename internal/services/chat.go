package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"commons/internal/models"
	"commons/internal/utils"

	"gorm.io/gorm"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)

// ChatService persists chat messages and relays them to live clients.
type ChatService struct {
	db  *gorm.DB
	hub *Hub
	now func() time.Time
}

func NewChatService(db *gorm.DB, hub *Hub) *ChatService {
	return &ChatService{db: db, hub: hub, now: time.Now}
}

// Post stores the message and then broadcasts it with the author's current
// profile. The message is durable before anyone sees it.
func (s *ChatService) Post(ctx context.Context, userID uint, body string) (*models.ChatEvent, error) {
	if err := utils.ValidateBody(body, utils.MaxChatLength); err != nil {
		return nil, err
	}

	msg := models.ChatMessage{UserID: userID, Body: body, CreatedAt: s.now()}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("creating chat message: %w", err)
	}

	var author models.User
	if err := s.db.WithContext(ctx).
		Select("display_name", "profile_color", "avatar").
		First(&author, userID).Error; err != nil {
		return nil, fmt.Errorf("loading chat author: %w", err)
	}

	ev := &models.ChatEvent{
		ID:           msg.ID,
		Body:         msg.Body,
		CreatedAt:    msg.CreatedAt,
		DisplayName:  author.DisplayName,
		ProfileColor: author.ProfileColor,
		Avatar:       author.Avatar,
	}
	s.hub.Broadcast(*ev)
	return ev, nil
}

// NormalizeHistoryLimit maps 0 to the default and clamps to [1, MaxHistoryLimit].
func NormalizeHistoryLimit(limit int) int {
	if limit == 0 {
		return DefaultHistoryLimit
	}
	return max(1, min(MaxHistoryLimit, limit))
}

// RecentHistory returns the newest messages in chronological order.
func (s *ChatService) RecentHistory(ctx context.Context, limit int) ([]models.ChatEvent, error) {
	limit = NormalizeHistoryLimit(limit)

	events := make([]models.ChatEvent, 0, limit)
	err := s.db.WithContext(ctx).
		Table("chat_messages AS m").
		Select("m.id, m.body, m.created_at, u.display_name, u.profile_color, u.avatar").
		Joins("JOIN users u ON u.id = m.user_id").
		Order("m.created_at DESC, m.id DESC").
		Limit(limit).
		Scan(&events).Error
	if err != nil {
		return nil, fmt.Errorf("loading chat history: %w", err)
	}

	slices.Reverse(events)
	return events, nil
}
