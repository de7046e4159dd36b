// Package auth provides bearer-credential sources for the cloud adapters.
package auth

import (
	"context"
	"sync"
	"time"

	"daybook/internal/ports"
)

// expirySlack is subtracted from a token's lifetime so a token about to
// expire is never handed to a request already in flight.
const expirySlack = 30 * time.Second

// CredentialCache wraps a TokenSource and caches the acquired credential
// until it expires. Each provider adapter owns one instance; there is no
// module-level state.
type CredentialCache struct {
	source ports.TokenSource
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewCredentialCache creates a cache over source. Tokens are considered
// valid for ttl after acquisition.
func NewCredentialCache(source ports.TokenSource, ttl time.Duration) *CredentialCache {
	return &CredentialCache{source: source, ttl: ttl, now: time.Now}
}

var _ ports.TokenSource = (*CredentialCache)(nil)

// Token returns the cached credential, refreshing it first when expired.
func (c *CredentialCache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expires) {
		return c.token, nil
	}
	return c.refreshLocked(ctx)
}

// Refresh discards the cached credential and acquires a fresh one.
func (c *CredentialCache) Refresh(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshLocked(ctx)
}

func (c *CredentialCache) refreshLocked(ctx context.Context) (string, error) {
	token, err := c.source.Token(ctx)
	if err != nil {
		c.token = ""
		return "", err
	}
	c.token = token
	c.expires = c.now().Add(c.ttl - expirySlack)
	return token, nil
}
