package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"commons/internal/models"
	"commons/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPageSize = 20
	MinPageSize     = 5
	MaxPageSize     = 50
)

// CommentService stores the global comment thread and its votes.
type CommentService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db, now: time.Now}
}

// Create stores a new comment. The raw markdown is kept; HTML is derived on read.
func (s *CommentService) Create(ctx context.Context, userID uint, body string) (uint, error) {
	if err := utils.ValidateBody(body, utils.MaxCommentLength); err != nil {
		return 0, err
	}
	now := s.now()
	comment := models.Comment{
		UserID:    userID,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return 0, fmt.Errorf("creating comment: %w", err)
	}
	return comment.ID, nil
}

// NormalizePaging applies the default page size and clamps both values.
// The page is only clamped from below here; ListPage clamps it to the last page.
func NormalizePaging(page, pageSize int) (int, int) {
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	pageSize = max(MinPageSize, min(MaxPageSize, pageSize))
	page = max(1, page)
	return page, pageSize
}

// ListPage returns one page of non-deleted comments, newest first. Asking for
// a page past the end returns the last page.
func (s *CommentService) ListPage(ctx context.Context, page, pageSize int) (*models.CommentPage, error) {
	page, pageSize = NormalizePaging(page, pageSize)

	var total int64
	if err := s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("is_deleted = ?", false).
		Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting comments: %w", err)
	}

	totalPages := max(1, int((total+int64(pageSize)-1)/int64(pageSize)))
	page = min(page, totalPages)

	rows := make([]models.CommentView, 0, pageSize)
	err := s.db.WithContext(ctx).
		Table("comments AS c").
		Select(`c.id, c.user_id, c.body, c.edit_count, c.created_at, c.updated_at,
			u.display_name, u.profile_color, u.avatar,
			COALESCE(SUM(cr.value), 0) AS score`).
		Joins("JOIN users u ON u.id = c.user_id").
		Joins("LEFT JOIN comment_reactions cr ON cr.comment_id = c.id").
		Where("c.is_deleted = ?", false).
		Group("c.id, c.user_id, c.body, c.edit_count, c.created_at, c.updated_at, u.display_name, u.profile_color, u.avatar").
		Order("c.created_at DESC, c.id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}

	return &models.CommentPage{
		Comments:   rows,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// Get loads a comment by id, deleted or not.
func (s *CommentService) Get(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.WithContext(ctx).First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading comment: %w", err)
	}
	return &comment, nil
}

// Update replaces the body of a live comment owned by userID. It reports
// false when no row matched: missing, deleted, or someone else's comment.
func (s *CommentService) Update(ctx context.Context, id, userID uint, body string) (bool, error) {
	if err := utils.ValidateBody(body, utils.MaxCommentLength); err != nil {
		return false, err
	}
	res := s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ? AND user_id = ? AND is_deleted = ?", id, userID, false).
		Updates(map[string]any{
			"body":       body,
			"updated_at": s.now(),
			"edit_count": gorm.Expr("edit_count + 1"),
		})
	if res.Error != nil {
		return false, fmt.Errorf("updating comment: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SoftDelete hides a live comment owned by userID. The row and its reactions stay.
func (s *CommentService) SoftDelete(ctx context.Context, id, userID uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ? AND user_id = ? AND is_deleted = ?", id, userID, false).
		Updates(map[string]any{
			"is_deleted": true,
			"updated_at": s.now(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("deleting comment: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SetReaction records userID's vote on a live comment and returns the new
// score. Any value other than -1 counts as an upvote. Voting again replaces
// the previous vote.
func (s *CommentService) SetReaction(ctx context.Context, commentID, userID uint, value int) (int64, error) {
	comment, err := s.Get(ctx, commentID)
	if err != nil {
		return 0, err
	}
	if comment.IsDeleted {
		return 0, models.ErrNotFound
	}

	if value != -1 {
		value = 1
	}

	reaction := models.CommentReaction{
		CommentID: commentID,
		UserID:    userID,
		Value:     value,
		CreatedAt: s.now(),
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "comment_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&reaction).Error
	if err != nil {
		return 0, fmt.Errorf("saving reaction: %w", err)
	}

	return s.Score(ctx, commentID)
}

// Score sums every reaction on a comment.
func (s *CommentService) Score(ctx context.Context, commentID uint) (int64, error) {
	var score int64
	err := s.db.WithContext(ctx).
		Model(&models.CommentReaction{}).
		Select("COALESCE(SUM(value), 0)").
		Where("comment_id = ?", commentID).
		Scan(&score).Error
	if err != nil {
		return 0, fmt.Errorf("summing reactions: %w", err)
	}
	return score, nil
}
