package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func skipIfNoRedis(t *testing.T) string {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set, skipping Redis tests")
	}
	return addr
}

func TestNameAndDependencies(t *testing.T) {
	m := New(Config{Addr: "unused:6379"})
	if m.Name() != "cache" {
		t.Fatalf("Name() = %q, want cache", m.Name())
	}
	if got := m.Dependencies(); len(got) != 1 || got[0] != "db" {
		t.Fatalf("Dependencies() = %v, want [db]", got)
	}
}

func TestHealthCheckBeforeInitFails(t *testing.T) {
	m := New(Config{Addr: "unused:6379"})
	if err := m.HealthCheck(context.Background()); err == nil {
		t.Fatalf("expected error before Init")
	}
}

func TestShutdownWithoutInitIsNoOp(t *testing.T) {
	m := New(Config{Addr: "unused:6379"})
	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestInitGetSetDel(t *testing.T) {
	addr := skipIfNoRedis(t)
	m := New(Config{Addr: addr, DefaultTTL: time.Minute})

	exports, err := m.Init(context.Background(), nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer m.Shutdown(context.Background())

	e := exports.(Exports)
	ctx := context.Background()

	if err := e.Set(ctx, "gati:test:key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := e.Get(ctx, "gati:test:key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "value" {
		t.Fatalf("Get() = %q, want value", got)
	}

	if err := e.Del(ctx, "gati:test:key"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, err := e.Get(ctx, "gati:test:key"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound after Del, got %v", err)
	}
}

func TestTokenDenylist(t *testing.T) {
	addr := skipIfNoRedis(t)
	m := New(Config{Addr: addr})

	exports, err := m.Init(context.Background(), nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer m.Shutdown(context.Background())

	e := exports.(Exports)
	ctx := context.Background()
	denylist := e.TokenDenylist()

	revoked, err := denylist.Contains(ctx, "tok-1")
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if revoked {
		t.Fatalf("expected tok-1 to not be revoked yet")
	}

	if err := denylist.Add(ctx, "tok-1", time.Minute); err != nil {
		t.Fatalf("Add: %v", err)
	}
	revoked, err = denylist.Contains(ctx, "tok-1")
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if !revoked {
		t.Fatalf("expected tok-1 to be revoked")
	}
}
