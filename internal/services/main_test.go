package services

import (
	"context"
	"testing"
	"time"

	"commons/internal/db"
	"commons/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "Correct-Horse-9"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.OpenSQLite("file:"+uuid.NewString()+"?mode=memory&cache=shared", nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() { _ = db.Close(conn) })
	return conn
}

func newTestHasher() *Hasher {
	return NewHasher(bcrypt.MinCost, 2)
}

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func mustRegister(t *testing.T, users *UserService, username string) *models.User {
	t.Helper()
	u, err := users.Register(context.Background(), RegisterInput{
		Username:    username,
		Email:       username + "@example.com",
		DisplayName: "The " + username,
		Password:    testPassword,
	})
	require.NoError(t, err)
	return u
}
