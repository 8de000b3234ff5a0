package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"commons/internal/models"
	"commons/internal/utils"

	"gorm.io/gorm"
)

type RegisterInput struct {
	Username    string
	Email       string
	DisplayName string
	Password    string
}

// UserService is the credential store: accounts, their password hashes,
// lock state and profile fields.
type UserService struct {
	db     *gorm.DB
	hasher PasswordHasher
	now    func() time.Time
}

func NewUserService(db *gorm.DB, hasher PasswordHasher) *UserService {
	return &UserService{db: db, hasher: hasher, now: time.Now}
}

// Register validates the input, hashes the password and creates the account.
// Uniqueness is checked before format so the caller learns about a taken
// username or email first.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	displayName := strings.TrimSpace(in.DisplayName)
	password := in.Password

	if username == "" || email == "" || displayName == "" || password == "" {
		return nil, models.NewValidationError("All fields are required.")
	}

	if _, err := s.GetByUsername(ctx, username); err == nil {
		return nil, &models.ConflictError{Reason: "Username already exists."}
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if _, err := s.GetByEmail(ctx, email); err == nil {
		return nil, &models.ConflictError{Reason: "Email already exists."}
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	if err := utils.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := utils.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := utils.ValidateDisplayName(displayName, username); err != nil {
		return nil, err
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		ProfileColor: models.DefaultProfileColor,
		Avatar:       models.DefaultAvatar,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if _, lookupErr := s.GetByUsername(ctx, username); lookupErr == nil {
				return nil, &models.ConflictError{Reason: "Username already exists."}
			}
			return nil, &models.ConflictError{Reason: "Email already exists."}
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.first(ctx, "username = ?", username)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *UserService) first(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return &user, nil
}

// SetLockedUntil sets or, with nil, clears the account lock.
func (s *UserService) SetLockedUntil(ctx context.Context, userID uint, until *time.Time) error {
	return s.update(ctx, userID, map[string]any{"locked_until": until})
}

func (s *UserService) UpdateDisplayName(ctx context.Context, userID uint, displayName string) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	displayName = strings.TrimSpace(displayName)
	if err := utils.ValidateDisplayName(displayName, user.Username); err != nil {
		return err
	}
	return s.update(ctx, userID, map[string]any{"display_name": displayName})
}

// UpdateEmail changes the login email after re-checking the current password.
func (s *UserService) UpdateEmail(ctx context.Context, userID uint, email, currentPassword string) error {
	email = strings.TrimSpace(email)
	if err := utils.ValidateEmail(email); err != nil {
		return err
	}

	existing, err := s.GetByEmail(ctx, email)
	if err == nil && existing.ID != userID {
		return &models.ConflictError{Reason: "Email already in use."}
	}
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.checkPassword(ctx, user, currentPassword); err != nil {
		return err
	}

	err = s.update(ctx, userID, map[string]any{"email": email})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &models.ConflictError{Reason: "Email already in use."}
	}
	return err
}

// ChangePassword replaces the password hash. Callers must end the session
// afterwards so the user logs in again with the new password.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.checkPassword(ctx, user, currentPassword); err != nil {
		return err
	}
	if err := utils.ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return err
	}
	return s.update(ctx, userID, map[string]any{"password_hash": hash})
}

// UpdateCustomization sets profile color and avatar. Blank values reset to defaults.
func (s *UserService) UpdateCustomization(ctx context.Context, userID uint, color, avatar string) error {
	color = strings.TrimSpace(color)
	avatar = strings.TrimSpace(avatar)
	if color == "" {
		color = models.DefaultProfileColor
	}
	if avatar == "" {
		avatar = models.DefaultAvatar
	}
	if err := utils.ValidateProfileColor(color); err != nil {
		return err
	}
	if err := utils.ValidateAvatar(avatar); err != nil {
		return err
	}
	return s.update(ctx, userID, map[string]any{"profile_color": color, "avatar": avatar})
}

func (s *UserService) checkPassword(ctx context.Context, user *models.User, password string) error {
	ok, err := s.hasher.Verify(ctx, user.PasswordHash, password)
	if err != nil {
		return err
	}
	if !ok {
		return &models.UnauthorizedError{Reason: "Current password incorrect."}
	}
	return nil
}

func (s *UserService) update(ctx context.Context, userID uint, fields map[string]any) error {
	fields["updated_at"] = s.now()
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(fields)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return res.Error
		}
		return fmt.Errorf("updating user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
