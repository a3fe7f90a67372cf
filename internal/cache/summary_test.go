package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/studypilot/studypilot-back/internal/logger"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	ctx := context.Background()
	c := Connect(ctx, "", time.Minute, logger.Nop())
	if c.Enabled() {
		t.Fatal("cache should be disabled without an address")
	}
	if err := c.SaveSummary(ctx, "u1", []byte(`{}`)); err != nil {
		t.Fatalf("SaveSummary: %v", err)
	}
	if _, ok, err := c.GetSummary(ctx, "u1"); ok || err != nil {
		t.Fatalf("disabled cache should always miss: ok=%v err=%v", ok, err)
	}
	if err := c.Invalidate(ctx, "u1"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestUnreachableRedisDisablesCache(t *testing.T) {
	c := Connect(context.Background(), "127.0.0.1:1", time.Minute, logger.Nop())
	if c.Enabled() {
		t.Fatal("cache should be disabled when redis is unreachable")
	}
}

func TestRedisRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c := Connect(ctx, addr, time.Minute, logger.Nop())
	if !c.Enabled() {
		t.Fatalf("could not connect to %s", addr)
	}
	defer c.Close()

	user := "test_" + uuid.NewString()
	if err := c.SaveSummary(ctx, user, []byte(`{"totalHours":3}`)); err != nil {
		t.Fatalf("SaveSummary: %v", err)
	}
	raw, ok, err := c.GetSummary(ctx, user)
	if err != nil || !ok || string(raw) != `{"totalHours":3}` {
		t.Fatalf("GetSummary: %q ok=%v err=%v", raw, ok, err)
	}
	if err := c.Invalidate(ctx, user); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok, _ := c.GetSummary(ctx, user); ok {
		t.Fatal("summary still cached after invalidate")
	}
}
