package auth

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	hash, err := h.Hash(ctx, "secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	other, err := h.Hash(ctx, "secret1")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "hashes must be salted")

	assert.True(t, h.Verify(ctx, "secret1", hash))
	assert.False(t, h.Verify(ctx, "secret2", hash))
	assert.False(t, h.Verify(ctx, "secret1", "not-a-hash"))
}

func TestBcryptHasher_CancelledContext(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost, 1)
	require.NoError(t, h.sem.Acquire(context.Background(), 1))
	defer h.sem.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Hash(ctx, "secret1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, h.Verify(ctx, "secret1", "$2a$04$abc"))
}

func TestBcryptHasher_Concurrent(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hash, err := h.Hash(ctx, "password123")
			assert.NoError(t, err)
			assert.True(t, h.Verify(ctx, "password123", hash))
		}()
	}
	wg.Wait()
}
