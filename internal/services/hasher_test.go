package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := newTestHasher()
	ctx := context.Background()

	hash, err := h.Hash(ctx, testPassword)
	require.NoError(t, err)
	assert.NotEqual(t, testPassword, hash)

	ok, err := h.Verify(ctx, hash, testPassword)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(ctx, hash, "wrong-password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_MalformedHash(t *testing.T) {
	ok, err := newTestHasher().Verify(context.Background(), "not-a-hash", testPassword)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestHasher_CancelledWhileWaiting(t *testing.T) {
	h := NewHasher(4, 1)
	require.NoError(t, h.sem.Acquire(context.Background(), 1))
	defer h.sem.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Hash(ctx, testPassword)
	assert.ErrorIs(t, err, context.Canceled)
}
