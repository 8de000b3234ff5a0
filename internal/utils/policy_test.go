package utils

import (
	"strings"
	"testing"

	"commons/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Correct-Horse-9"))

	err := ValidatePassword("abc")
	require.Error(t, err)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Password must be at least 10 characters. Password must include an uppercase letter. Password must include a number. Password must include a symbol.", verr.Reason)

	assert.EqualError(t, ValidatePassword("NOLOWERCASE1!"), "Password must include a lowercase letter.")
	assert.EqualError(t, ValidatePassword("nouppercase1!"), "Password must include an uppercase letter.")
	assert.EqualError(t, ValidatePassword("NoDigitsHere!"), "Password must include a number.")
	assert.EqualError(t, ValidatePassword("NoSymbols123"), "Password must include a symbol.")

	assert.NoError(t, ValidatePassword("Aa1!"+strings.Repeat("x", MaxPasswordBytes-4)))
	assert.EqualError(t, ValidatePassword("Aa1!"+strings.Repeat("x", 80)), "Password must be at most 72 bytes.")
	// 18 four-byte runes pass a character count but not the byte limit
	assert.EqualError(t, ValidatePassword("Aa1!"+strings.Repeat("😀", 18)), "Password must be at most 72 bytes.")
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("alice"))
	assert.NoError(t, ValidateUsername(strings.Repeat("a", MaxUsernameLength)))
	assert.EqualError(t, ValidateUsername(strings.Repeat("a", MaxUsernameLength+1)), "Username must be at most 64 characters.")
}

func TestValidateEmail(t *testing.T) {
	for _, ok := range []string{"a@b.co", " user.name+tag@example.org "} {
		assert.NoError(t, ValidateEmail(ok), ok)
	}
	long := strings.Repeat("a", MaxEmailLength) + "@example.com"
	for _, bad := range []string{"", "plain", "a@b", "a b@c.d", "@b.co", long} {
		assert.EqualError(t, ValidateEmail(bad), "Invalid email format.", bad)
	}
}

func TestValidateDisplayName(t *testing.T) {
	tests := []struct {
		name, username, want string
	}{
		{"Alice W", "alice", ""},
		{"a.b-c_d 1", "alice", ""},
		{"Al", "alice", "Display name must be 3–30 characters."},
		{strings.Repeat("a", 31), "alice", "Display name must be 3–30 characters."},
		{"Alice!", "alice", "Display name contains invalid characters."},
		{"ALICE", "alice", "Display name must be different from username."},
	}
	for _, tt := range tests {
		err := ValidateDisplayName(tt.name, tt.username)
		if tt.want == "" {
			assert.NoError(t, err, tt.name)
		} else {
			assert.EqualError(t, err, tt.want, tt.name)
		}
	}
}

func TestValidateProfileColorAndAvatar(t *testing.T) {
	assert.NoError(t, ValidateProfileColor("#3b82f6"))
	assert.NoError(t, ValidateProfileColor("#ABCDEF"))
	for _, bad := range []string{"3b82f6", "#fff", "#12345g", "#1234567", "red"} {
		assert.EqualError(t, ValidateProfileColor(bad), "Invalid color.", bad)
	}

	assert.NoError(t, ValidateAvatar(strings.Repeat("x", 40)))
	assert.EqualError(t, ValidateAvatar(strings.Repeat("x", 41)), "Invalid avatar.")
}

func TestValidateBody(t *testing.T) {
	assert.NoError(t, ValidateBody("hi", MaxChatLength))
	assert.EqualError(t, ValidateBody(" \t\n", MaxChatLength), "Empty.")
	assert.EqualError(t, ValidateBody(strings.Repeat("é", MaxChatLength+1), MaxChatLength), "Too long.")
	assert.NoError(t, ValidateBody(strings.Repeat("é", MaxChatLength), MaxChatLength))
}
