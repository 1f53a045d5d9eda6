package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRevokeAndCheck(t *testing.T) {
	c := New()
	ctx := context.Background()

	revoked, err := c.IsRevoked(ctx, "unknown")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, c.Revoke(ctx, "tok-1", time.Hour))
	revoked, err = c.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestRevocationExpires(t *testing.T) {
	c := New()
	ctx := context.Background()

	require.NoError(t, c.Revoke(ctx, "tok-2", time.Hour))
	// Force the entry into the past instead of sleeping.
	c.mu.Lock()
	c.revoked["tok-2"] = time.Now().Add(-time.Second)
	c.mu.Unlock()

	revoked, err := c.IsRevoked(ctx, "tok-2")
	require.NoError(t, err)
	require.False(t, revoked)
}
