package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const keyPrefix = "pollos:session:"

// Registry tracks which issued sessions are still live. A session is the
// jti of a signed token; logging out removes it so the token stops working
// before it expires.
type Registry struct {
	store Store
	ttl   time.Duration
}

func NewRegistry(store Store, ttl time.Duration) (*Registry, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &Registry{store: store, ttl: ttl}, nil
}

// NewID produces the identifier used as the token jti and store key.
func NewID() string {
	return uuid.NewString()
}

func key(id string) string {
	return keyPrefix + id
}

// Register opens a session for userID and returns its identifier.
func (r *Registry) Register(ctx context.Context, userID uint) (string, error) {
	id := NewID()
	if err := r.store.Set(ctx, key(id), userID, r.ttl); err != nil {
		return "", fmt.Errorf("registering session: %w", err)
	}
	return id, nil
}

// Owner returns the user bound to an active session, or ErrNotFound.
func (r *Registry) Owner(ctx context.Context, id string) (uint, error) {
	if strings.TrimSpace(id) == "" {
		return 0, ErrNotFound
	}
	raw, err := r.store.Get(ctx, key(id))
	if err != nil {
		return 0, err
	}
	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt session %s: %w", id, err)
	}
	return uint(userID), nil
}

func (r *Registry) Revoke(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	return r.store.Del(ctx, key(id))
}
