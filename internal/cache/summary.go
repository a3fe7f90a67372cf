// Package cache keeps the latest plan summary per user in Redis. Without a
// Redis address every operation is a no-op and reads always miss.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studypilot/studypilot-back/internal/logger"
)

const keyPrefix = "studypilot:plan-summary:"

type SummaryCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

// Connect dials addr and pings it. An empty addr or a failed ping yields a
// disabled cache rather than an error.
func Connect(ctx context.Context, addr string, ttl time.Duration, baseLog *logger.Logger) *SummaryCache {
	log := baseLog.With("component", "SummaryCache")
	c := &SummaryCache{ttl: ttl, log: log}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		log.Warn("REDIS_ADDR not set, summary caching disabled")
		return c
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Error("redis ping failed, summary caching disabled", "addr", addr, "error", err)
		_ = rdb.Close()
		return c
	}
	log.Info("connected to redis", "addr", addr)
	c.rdb = rdb
	return c
}

func (c *SummaryCache) Enabled() bool { return c != nil && c.rdb != nil }

func key(userID string) string { return keyPrefix + userID }

func (c *SummaryCache) SaveSummary(ctx context.Context, userID string, summary []byte) error {
	if !c.Enabled() {
		return nil
	}
	if err := c.rdb.Set(ctx, key(userID), summary, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache summary: %w", err)
	}
	return nil
}

// GetSummary returns the cached summary and whether it was found.
func (c *SummaryCache) GetSummary(ctx context.Context, userID string) ([]byte, bool, error) {
	if !c.Enabled() {
		return nil, false, nil
	}
	raw, err := c.rdb.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached summary: %w", err)
	}
	return raw, true, nil
}

func (c *SummaryCache) Invalidate(ctx context.Context, userID string) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Del(ctx, key(userID)).Err()
}

func (c *SummaryCache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *SummaryCache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}
