package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortdrop/internal/sharing"
	"github.com/serroba/shortdrop/internal/shortener"
)

// RedisCacheRepository wraps a shortener.Repository with Redis caching for reads.
type RedisCacheRepository struct {
	store  shortener.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
	now    sharing.Clock
}

// NewRedisCacheRepository creates a new Redis-cached repository decorator.
func NewRedisCacheRepository(
	store shortener.Repository, client *redis.Client, ttl time.Duration, now sharing.Clock,
) *RedisCacheRepository {
	return &RedisCacheRepository{
		store:  store,
		client: client,
		prefix: "url:",
		ttl:    ttl,
		now:    now,
	}
}

// Save stores a short URL in the underlying store and updates the cache.
func (r *RedisCacheRepository) Save(ctx context.Context, shortURL *shortener.ShortURL) error {
	if err := r.store.Save(ctx, shortURL); err != nil {
		return err
	}

	r.cacheURL(ctx, shortURL)

	return nil
}

// GetByCode retrieves a short URL by its code, checking cache first.
func (r *RedisCacheRepository) GetByCode(ctx context.Context, code sharing.Code) (*shortener.ShortURL, error) {
	if url, err := r.getFromCache(ctx, code); err == nil {
		return url, nil
	}

	url, err := r.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	r.cacheURL(ctx, url)

	return url, nil
}

// Delete removes the mapping from the store first, then evicts the cache entry.
func (r *RedisCacheRepository) Delete(ctx context.Context, code sharing.Code) error {
	if err := r.store.Delete(ctx, code); err != nil {
		return err
	}

	return r.client.Del(ctx, r.prefix+string(code)).Err()
}

func (r *RedisCacheRepository) getFromCache(ctx context.Context, code sharing.Code) (*shortener.ShortURL, error) {
	result, err := r.client.HGetAll(ctx, r.prefix+string(code)).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, sharing.ErrRecordNotFound
	}

	return &shortener.ShortURL{
		Code:        sharing.Code(result["code"]),
		OriginalURL: result["original_url"],
		Custom:      result["custom"] == "1",
		Lifetime: sharing.Lifetime{
			CreatedAt: unixNano(result["created_at"]),
			ExpiresAt: unixNano(result["expires_at"]),
		},
	}, nil
}

// cacheURL writes the entry with a TTL that never outlives the mapping itself.
func (r *RedisCacheRepository) cacheURL(ctx context.Context, url *shortener.ShortURL) {
	ttl := url.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return
	}

	if r.ttl > 0 && r.ttl < ttl {
		ttl = r.ttl
	}

	custom := "0"
	if url.Custom {
		custom = "1"
	}

	pipe := r.client.Pipeline()
	key := r.prefix + string(url.Code)

	pipe.HSet(ctx, key, map[string]interface{}{
		"code":         string(url.Code),
		"original_url": url.OriginalURL,
		"custom":       custom,
		"created_at":   url.CreatedAt.UnixNano(),
		"expires_at":   url.ExpiresAt.UnixNano(),
	})
	pipe.Expire(ctx, key, ttl)

	_, _ = pipe.Exec(ctx)
}

func unixNano(s string) time.Time {
	nanos, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}

	return time.Unix(0, nanos).UTC()
}

// Shutdown is a no-op for RedisCacheRepository (client managed externally).
func (r *RedisCacheRepository) Shutdown() error {
	return nil
}

// Compile-time check.
var _ shortener.Repository = (*RedisCacheRepository)(nil)
