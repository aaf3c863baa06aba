package courses

import (
	"context"
	"errors"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"learnpath-backend/internal/shared/metrics"
	"learnpath-backend/internal/shared/telemetry"
)

const publishedCacheKey = "catalog:published"

// Cache is the subset of the redis client used for catalog snapshots.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedRepo serves the published catalog from Redis and falls through to Base on any cache error.
type CachedRepo struct {
	Base  Repo
	Cache Cache
	TTL   time.Duration
}

func NewCachedRepo(base Repo, cache Cache, ttl time.Duration) *CachedRepo {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedRepo{Base: base, Cache: cache, TTL: ttl}
}

func (r *CachedRepo) ListPublished(ctx context.Context) ([]Course, error) {
	raw, err := r.Cache.Get(ctx, publishedCacheKey).Bytes()
	switch {
	case err == nil:
		var cached []Course
		decodeErr := json.Unmarshal(raw, &cached)
		if decodeErr == nil {
			metrics.IncCatalogCache("hit")
			return cached, nil
		}
		metrics.IncCatalogCache("error")
		telemetry.Warn("catalog.cache_decode_failed", map[string]any{"error": decodeErr})
	case errors.Is(err, redis.Nil):
		metrics.IncCatalogCache("miss")
	default:
		metrics.IncCatalogCache("error")
		telemetry.Warn("catalog.cache_get_failed", map[string]any{"error": err})
	}

	list, err := r.Base.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(list)
	if err != nil {
		return list, nil
	}
	if err := r.Cache.Set(ctx, publishedCacheKey, payload, r.TTL).Err(); err != nil {
		telemetry.Warn("catalog.cache_set_failed", map[string]any{"error": err})
	}
	return list, nil
}

func (r *CachedRepo) GetByIDs(ctx context.Context, ids []string) ([]Course, error) {
	return r.Base.GetByIDs(ctx, ids)
}

func (r *CachedRepo) Upsert(ctx context.Context, course Course) error {
	if err := r.Base.Upsert(ctx, course); err != nil {
		return err
	}
	r.Invalidate(ctx)
	return nil
}

// Invalidate drops the cached catalog snapshot.
func (r *CachedRepo) Invalidate(ctx context.Context) {
	if err := r.Cache.Del(ctx, publishedCacheKey).Err(); err != nil {
		telemetry.Warn("catalog.cache_invalidate_failed", map[string]any{"error": err})
	}
}
