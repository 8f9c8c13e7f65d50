package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const (
	SummaryCacheKey        = "ledger:summary"
	DefaultSummaryCacheTTL = 60 * time.Second
)

// SummaryCache holds computed summaries per write generation. Invalidate
// bumps the generation, so a summary computed from data read before a write
// lands under a generation nobody reads anymore. Misses and cache failures
// both fall back to recomputing.
type SummaryCache interface {
	// Generation reports the current generation; ok is false when the cache
	// cannot tell, and then nothing should be stored.
	Generation(ctx context.Context) (gen int64, ok bool)
	Get(ctx context.Context, gen int64) (*Summary, bool)
	Set(ctx context.Context, gen int64, s *Summary)
	Invalidate(ctx context.Context)
}

type RedisSummaryCache struct {
	RDB *redis.Client
	Key string
	TTL time.Duration
}

func NewRedisSummaryCache(rdb *redis.Client, ttl time.Duration) *RedisSummaryCache {
	if ttl <= 0 {
		ttl = DefaultSummaryCacheTTL
	}
	return &RedisSummaryCache{RDB: rdb, Key: SummaryCacheKey, TTL: ttl}
}

func (c *RedisSummaryCache) genKey() string { return c.Key + ":gen" }

func (c *RedisSummaryCache) entryKey(gen int64) string { return fmt.Sprintf("%s:%d", c.Key, gen) }

func (c *RedisSummaryCache) Generation(ctx context.Context) (int64, bool) {
	gen, err := c.RDB.Get(ctx, c.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		log.Printf("[WARN] summary cache generation read failed: %v", err)
		return 0, false
	}
	return gen, true
}

func (c *RedisSummaryCache) Get(ctx context.Context, gen int64) (*Summary, bool) {
	raw, err := c.RDB.Get(ctx, c.entryKey(gen)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[WARN] summary cache GET failed: %v", err)
		}
		return nil, false
	}
	var s Summary
	if err := sonic.Unmarshal(raw, &s); err != nil {
		log.Printf("[WARN] summary cache holds unreadable data: %v", err)
		return nil, false
	}
	return &s, true
}

func (c *RedisSummaryCache) Set(ctx context.Context, gen int64, s *Summary) {
	raw, err := sonic.Marshal(s)
	if err != nil {
		log.Printf("[WARN] summary cache encode failed: %v", err)
		return
	}
	if err := c.RDB.Set(ctx, c.entryKey(gen), raw, c.TTL).Err(); err != nil {
		log.Printf("[WARN] summary cache SET failed: %v", err)
	}
}

// Invalidate naikkan generasi; entri lama habis sendiri lewat TTL.
func (c *RedisSummaryCache) Invalidate(ctx context.Context) {
	if err := c.RDB.Incr(ctx, c.genKey()).Err(); err != nil {
		log.Printf("[WARN] summary cache INCR failed: %v", err)
	}
}
