package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"pollos-admin/pkg/config"
)

func TestRegistryRegisterOwnerRevoke(t *testing.T) {
	store := NewMemoryStore()
	registry, err := NewRegistry(store, time.Hour)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	ctx := context.Background()
	id, err := registry.Register(ctx, 42)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if id == "" {
		t.Fatal("expected a session id")
	}

	owner, err := registry.Owner(ctx, id)
	if err != nil {
		t.Fatalf("owner: %v", err)
	}
	if owner != 42 {
		t.Fatalf("expected owner 42, got %d", owner)
	}

	if err := registry.Revoke(ctx, id); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := registry.Owner(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected revoked session to be gone, got %v", err)
	}
}

func TestRegistryOwnerUnknownSession(t *testing.T) {
	registry, err := NewRegistry(NewMemoryStore(), time.Hour)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if _, err := registry.Owner(context.Background(), ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for blank id, got %v", err)
	}
	if _, err := registry.Owner(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestMemoryStoreExpires(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	ctx := context.Background()
	if err := store.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, err := store.Get(ctx, "k"); err != nil || got != "v" {
		t.Fatalf("expected v, got %q (%v)", got, err)
	}

	now = now.Add(time.Minute)
	if _, err := store.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired key, got %v", err)
	}
}

func TestNewRegistryValidation(t *testing.T) {
	if _, err := NewRegistry(nil, time.Hour); err == nil {
		t.Fatal("expected nil store to fail")
	}
	if _, err := NewRegistry(NewMemoryStore(), 0); err == nil {
		t.Fatal("expected zero ttl to fail")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected missing url and address to fail")
	}

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/2", PoolSize: 5, DialTimeout: time.Second})
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.DB != 2 {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.PoolSize != 5 || opts.DialTimeout != time.Second {
		t.Fatalf("expected pool settings to be applied, got %+v", opts)
	}

	opts, err = optionsFromConfig(config.RedisConfig{Address: "cache:6379", DB: 3})
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.Addr != "cache:6379" || opts.DB != 3 {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestMemoryStoreSweepsAbandonedSessions(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if err := store.Set(ctx, key, 1, time.Minute); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	if err := store.Set(ctx, "keep", 1, 0); err != nil {
		t.Fatalf("set keep: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if err := store.Set(ctx, "d", 1, time.Minute); err != nil {
		t.Fatalf("set d: %v", err)
	}
	if got := len(store.data); got != 2 {
		t.Fatalf("expected expired sessions to be swept leaving 2 entries, got %d", got)
	}
	if _, err := store.Get(ctx, "keep"); err != nil {
		t.Fatalf("entries without ttl must survive the sweep: %v", err)
	}
}
