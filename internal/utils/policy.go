package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"commons/internal/models"

	"github.com/go-playground/validator/v10"
)

const (
	MaxUsernameLength = 64
	MaxEmailLength    = 254
	// bcrypt ignores input past this many bytes and the library rejects it.
	MaxPasswordBytes = 72

	MaxCommentLength = 5000
	MaxChatLength    = 2000
	MaxAvatarLength  = 40
)

var (
	emailRe        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	displayNameRe  = regexp.MustCompile(`^[A-Za-z0-9 _.-]+$`)
	profileColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	symbolRe       = regexp.MustCompile(`[^A-Za-z0-9]`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, "loose_email", emailRe)
	mustRegister(v, "display_name_chars", displayNameRe)
	mustRegister(v, "profile_color", profileColorRe)
	mustRegister(v, "has_symbol", symbolRe)
	if err := v.RegisterValidation("bcrypt_len", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	}); err != nil {
		panic(err)
	}
	return v
}

func mustRegister(v *validator.Validate, tag string, re *regexp.Regexp) {
	if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
}

var passwordRules = []struct {
	tag    string
	reason string
}{
	{"min=10", "Password must be at least 10 characters."},
	{"containsany=abcdefghijklmnopqrstuvwxyz", "Password must include a lowercase letter."},
	{"containsany=ABCDEFGHIJKLMNOPQRSTUVWXYZ", "Password must include an uppercase letter."},
	{"containsany=0123456789", "Password must include a number."},
	{"has_symbol", "Password must include a symbol."},
	{"bcrypt_len", "Password must be at most 72 bytes."},
}

// ValidatePassword checks every password rule and reports all violations at once.
func ValidatePassword(pw string) error {
	var reasons []string
	for _, rule := range passwordRules {
		if err := validate.Var(pw, rule.tag); err != nil {
			reasons = append(reasons, rule.reason)
		}
	}
	if len(reasons) > 0 {
		return models.NewValidationError(strings.Join(reasons, " "))
	}
	return nil
}

func ValidateUsername(username string) error {
	if err := validate.Var(strings.TrimSpace(username), "max=64"); err != nil {
		return models.NewValidationError("Username must be at most 64 characters.")
	}
	return nil
}

func ValidateEmail(email string) error {
	if err := validate.Var(strings.TrimSpace(email), "max=254,loose_email"); err != nil {
		return models.NewValidationError("Invalid email format.")
	}
	return nil
}

// ValidateDisplayName enforces length, charset and that the name differs from
// the account's username ignoring case.
func ValidateDisplayName(displayName, username string) error {
	dn := strings.TrimSpace(displayName)
	if err := validate.Var(dn, "min=3,max=30"); err != nil {
		return models.NewValidationError("Display name must be 3–30 characters.")
	}
	if err := validate.Var(dn, "display_name_chars"); err != nil {
		return models.NewValidationError("Display name contains invalid characters.")
	}
	if username != "" && strings.EqualFold(dn, strings.TrimSpace(username)) {
		return models.NewValidationError("Display name must be different from username.")
	}
	return nil
}

func ValidateProfileColor(color string) error {
	if err := validate.Var(color, "profile_color"); err != nil {
		return models.NewValidationError("Invalid color.")
	}
	return nil
}

func ValidateAvatar(avatar string) error {
	if utf8.RuneCountInString(avatar) > MaxAvatarLength {
		return models.NewValidationError("Invalid avatar.")
	}
	return nil
}

// ValidateBody checks a comment or chat body: non-blank and at most max characters.
func ValidateBody(body string, max int) error {
	if strings.TrimSpace(body) == "" {
		return models.NewValidationError("Empty.")
	}
	if utf8.RuneCountInString(body) > max {
		return models.NewValidationError("Too long.")
	}
	return nil
}
