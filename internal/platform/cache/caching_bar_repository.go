// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_dashboard/internal/feature/bars/domain/entity"
	"stock_dashboard/internal/feature/bars/usecase"
)

// CachingBarRepository decorates a BarRepository with Redis caching of range
// queries. It implements the decorator pattern, transparently adding caching
// without modifying the underlying repository. A nil Redis client degrades to
// pass-through, so the service runs fine without Redis.
//
// Caching is purely a read-path optimization: indicator output stays a pure
// function of the stored bars because every upsert invalidates the ticker's
// cached ranges before returning.
type CachingBarRepository struct {
	inner     usecase.BarRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.BarRepository = (*CachingBarRepository)(nil)

// NewCachingBarRepository decorates a BarRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "bars".
func NewCachingBarRepository(rdb *redis.Client, ttl time.Duration, inner usecase.BarRepository, namespace string) *CachingBarRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "bars"
	}
	return &CachingBarRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// UpsertBatch writes bars through to the underlying repository and invalidates
// cached ranges for every affected ticker.
func (c *CachingBarRepository) UpsertBatch(ctx context.Context, bars []entity.Bar) (int64, error) {
	written, err := c.inner.UpsertBatch(ctx, bars)
	if err != nil {
		return written, err
	}
	if c.rdb == nil || len(bars) == 0 {
		return written, nil
	}

	seen := map[string]struct{}{}
	for _, b := range bars {
		prefix := c.cacheKeyPrefix(b.Ticker)
		if _, ok := seen[prefix]; ok {
			continue
		}
		seen[prefix] = struct{}{}
		_ = c.deleteByPattern(ctx, prefix+"*") // Best effort: don't fail the write on cache errors
	}
	return written, nil
}

// QueryRange retrieves bars, checking cache first then falling back to the database.
func (c *CachingBarRepository) QueryRange(ctx context.Context, ticker string, from, to time.Time) ([]entity.Bar, error) {
	if c.rdb == nil {
		return c.inner.QueryRange(ctx, ticker, from, to)
	}

	key := c.cacheKey(ticker, from, to)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Bar
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.QueryRange(ctx, ticker, from, to)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// ListTickers is not cached: the listing carries freshness metadata and is
// cheap relative to range scans.
func (c *CachingBarRepository) ListTickers(ctx context.Context) ([]entity.TickerSummary, error) {
	return c.inner.ListTickers(ctx)
}

// cacheKey generates a cache key for a specific range query. Zero bounds are
// encoded as 0 so that "full history" queries share one entry per ticker.
func (c *CachingBarRepository) cacheKey(ticker string, from, to time.Time) string {
	var fromU, toU int64
	if !from.IsZero() {
		fromU = from.Unix()
	}
	if !to.IsZero() {
		toU = to.Unix()
	}
	return fmt.Sprintf("%s:%s:%d:%d", c.namespace, safe(ticker), fromU, toU)
}

// cacheKeyPrefix generates a prefix for invalidating a ticker's cached ranges.
func (c *CachingBarRepository) cacheKeyPrefix(ticker string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, safe(ticker))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingBarRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
