package memory

import (
	"context"
	"sync"
	"time"
)

type Client struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func New() *Client {
	return &Client{revoked: make(map[string]time.Time)}
}

func (c *Client) Close() error { return nil }

func (c *Client) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revoked[tokenID] = time.Now().Add(ttl)
	return nil
}

func (c *Client) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	c.mu.RLock()
	exp, ok := c.revoked[tokenID]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(exp) {
		c.mu.Lock()
		delete(c.revoked, tokenID)
		c.mu.Unlock()
		return false, nil
	}
	return true, nil
}
