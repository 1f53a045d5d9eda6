package storage

import (
	"context"
	"time"
)

// TokenStore tracks revoked auth tokens (logout). Implementations:
// redis.Client, memory.Client (for -dev without Redis).
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	Close() error
}
