// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"drive_backend/internal/feature/rules/domain/entity"
	"drive_backend/internal/feature/rules/usecase"
	"drive_backend/internal/platform/metrics"
)

// CachingRulesRepository decorates a CatalogueRepository with Redis read-through caching.
// The catalogue is reference data, so entries are only invalidated when it is reseeded.
type CachingRulesRepository struct {
	inner     usecase.CatalogueRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	loc       *time.Location
	now       func() time.Time
}

var _ usecase.CatalogueRepository = (*CachingRulesRepository)(nil)

// NewCachingRulesRepository decorates a CatalogueRepository with Redis caching.
// If ttl is 0, it defaults to 10 minutes. If namespace is empty, it uses "rules".
// A nil rdb disables caching and every call goes to inner.
func NewCachingRulesRepository(rdb *redis.Client, ttl time.Duration, inner usecase.CatalogueRepository, namespace string) *CachingRulesRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if namespace == "" {
		namespace = "rules"
	}
	return &CachingRulesRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		loc:       BrusselsLocation(),
		now:       time.Now,
	}
}

// ListCategories returns all categories, from cache when possible.
func (c *CachingRulesRepository) ListCategories(ctx context.Context) ([]entity.RuleCategory, error) {
	return readThrough(ctx, c, c.cacheKey("categories"), func() ([]entity.RuleCategory, error) {
		return c.inner.ListCategories(ctx)
	})
}

// ListRulesByCategory returns the rules of a category, from cache when possible.
func (c *CachingRulesRepository) ListRulesByCategory(ctx context.Context, categoryID string) ([]entity.RoadRule, error) {
	return readThrough(ctx, c, c.cacheKey("category", categoryID), func() ([]entity.RoadRule, error) {
		return c.inner.ListRulesByCategory(ctx, categoryID)
	})
}

// ListQuizQuestions returns the questions of a rule, from cache when possible.
func (c *CachingRulesRepository) ListQuizQuestions(ctx context.Context, ruleID string) ([]entity.QuizQuestion, error) {
	return readThrough(ctx, c, c.cacheKey("quiz", ruleID), func() ([]entity.QuizQuestion, error) {
		return c.inner.ListQuizQuestions(ctx, ruleID)
	})
}

// Invalidate removes every cached catalogue entry of this namespace.
func (c *CachingRulesRepository) Invalidate(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, c.namespace+":*")
}

// readThrough checks Redis first, falls back to load and stores the result (best effort).
// Redis failures never fail the request.
func readThrough[T any](ctx context.Context, c *CachingRulesRepository, key string, load func() ([]T, error)) ([]T, error) {
	if c.rdb == nil {
		return load()
	}

	// 1) Check cache
	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil && len(b) > 0:
		var out []T
		if err := json.Unmarshal(b, &out); err == nil {
			metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	case errors.Is(err, redis.Nil):
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	case err != nil:
		slog.Warn("rules cache read failed", "key", key, "error", err)
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
	}

	// 2) Fallback to database
	out, err := load()
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.entryTTL()).Err()
	}
	return out, nil
}

// entryTTL caps the configured TTL at the next local midnight so that rule
// validity dates roll over on the day they change.
func (c *CachingRulesRepository) entryTTL() time.Duration {
	if untilMidnight := TimeUntilNextMidnight(c.now(), c.loc); untilMidnight < c.ttl {
		return untilMidnight
	}
	return c.ttl
}

// cacheKey generates a cache key for a specific query.
func (c *CachingRulesRepository) cacheKey(parts ...string) string {
	key := c.namespace
	for _, p := range parts {
		key = fmt.Sprintf("%s:%s", key, safe(p))
	}
	return key
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingRulesRepository) deleteByPattern(ctx context.Context, pattern string) error {
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
