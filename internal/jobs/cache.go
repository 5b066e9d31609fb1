package jobs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"internship-ats/internal/shared/telemetry"
)

const defaultCacheTTL = time.Hour

var errCacheMiss = errors.New("cache miss")

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type redisStore struct {
	rdb redis.Cmdable
}

func (r redisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", errCacheMiss
	}
	return val, err
}

func (r redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.rdb.Set(ctx, key, value, ttl).Err()
}

// CachedProvider remembers provider URL lists per query and limit.
// Cache failures fall through to the wrapped provider.
type CachedProvider struct {
	Next  Provider
	TTL   time.Duration
	store cacheStore
}

// NewRedisCachedProvider wraps next with a Redis-backed URL cache.
func NewRedisCachedProvider(next Provider, rdb redis.Cmdable, ttl time.Duration) *CachedProvider {
	return &CachedProvider{Next: next, TTL: ttl, store: redisStore{rdb: rdb}}
}

// URLs serves from cache when possible.
func (p *CachedProvider) URLs(ctx context.Context, query string, limit int) ([]string, error) {
	key := cacheKey(query, limit)

	raw, err := p.store.Get(ctx, key)
	switch {
	case err == nil:
		var urls []string
		if jsonErr := json.Unmarshal([]byte(raw), &urls); jsonErr == nil {
			return urls, nil
		}
		telemetry.Warn("jobs.cache.corrupt", map[string]any{"key": key})
	case !errors.Is(err, errCacheMiss):
		telemetry.Warn("jobs.cache.get_failed", map[string]any{"key": key, "error": err})
	}

	urls, err := p.Next.URLs(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return urls, nil
	}
	payload, err := json.Marshal(urls)
	if err != nil {
		return urls, nil
	}
	if err := p.store.Set(ctx, key, string(payload), p.ttl()); err != nil {
		telemetry.Warn("jobs.cache.set_failed", map[string]any{"key": key, "error": err})
	}
	return urls, nil
}

func (p *CachedProvider) ttl() time.Duration {
	if p.TTL > 0 {
		return p.TTL
	}
	return defaultCacheTTL
}

func cacheKey(query string, limit int) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return fmt.Sprintf("jobs:urls:%d:%s", limit, hex.EncodeToString(sum[:16]))
}

var _ Provider = (*CachedProvider)(nil)
