package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

func TestNewCacheRequiresAddr(t *testing.T) {
	if _, err := NewCache(context.Background(), Options{}, logger.NewNop()); err == nil {
		t.Fatalf("expected error for missing address")
	}
	if _, err := NewCache(context.Background(), Options{Addr: "localhost:6379"}, nil); err == nil {
		t.Fatalf("expected error for missing logger")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	ctx := context.Background()
	c, err := NewCache(ctx, Options{Addr: addr, Prefix: "test:" + uuid.NewString() + ":"}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	defer c.Close()

	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get missing = ok %v err %v", ok, err)
	}
	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || got != "v" {
		t.Fatalf("Get = %q %v %v", got, ok, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatalf("expected key to be deleted")
	}
}
