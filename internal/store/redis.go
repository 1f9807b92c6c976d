package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortdrop/internal/clipboard"
	"github.com/serroba/shortdrop/internal/sharing"
)

// expiryGrace keeps a Redis entry past its expires_at so the next read can
// still see it and report Expired instead of NotFound.
const expiryGrace = time.Hour

// RedisClipboardStore is a Redis implementation of clipboard.Repository.
// Entries are JSON documents keyed by code with a TTL trailing expires_at.
type RedisClipboardStore struct {
	client *redis.Client
	prefix string
	now    sharing.Clock
}

// NewRedisClipboardStore creates a new Redis-backed clipboard store.
func NewRedisClipboardStore(client *redis.Client, now sharing.Clock) *RedisClipboardStore {
	return &RedisClipboardStore{
		client: client,
		prefix: "clip:",
		now:    now,
	}
}

type redisClipboardItem struct {
	Code           string    `json:"code"`
	Content        string    `json:"content"`
	ContentType    string    `json:"content_type"`
	IsConfidential bool      `json:"is_confidential"`
	KeySource      string    `json:"key_source"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

func (r *RedisClipboardStore) Save(ctx context.Context, item *clipboard.Item) error {
	payload, err := json.Marshal(redisClipboardItem{
		Code:           string(item.Code),
		Content:        item.Content,
		ContentType:    item.ContentType,
		IsConfidential: item.IsConfidential,
		KeySource:      string(item.KeySource),
		CreatedAt:      item.CreatedAt,
		ExpiresAt:      item.ExpiresAt,
	})
	if err != nil {
		return err
	}

	ttl := item.ExpiresAt.Sub(r.now()) + expiryGrace

	ok, err := r.client.SetNX(ctx, r.prefix+string(item.Code), payload, ttl).Result()
	if err != nil {
		return err
	}

	if !ok {
		return sharing.ErrDuplicateCode
	}

	return nil
}

func (r *RedisClipboardStore) GetByCode(ctx context.Context, code sharing.Code) (*clipboard.Item, error) {
	payload, err := r.client.Get(ctx, r.prefix+string(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sharing.ErrRecordNotFound
		}

		return nil, err
	}

	var stored redisClipboardItem
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, err
	}

	return &clipboard.Item{
		Code:           sharing.Code(stored.Code),
		Content:        stored.Content,
		ContentType:    stored.ContentType,
		IsConfidential: stored.IsConfidential,
		KeySource:      clipboard.KeySource(stored.KeySource),
		Lifetime: sharing.Lifetime{
			CreatedAt: stored.CreatedAt,
			ExpiresAt: stored.ExpiresAt,
		},
	}, nil
}

func (r *RedisClipboardStore) Delete(ctx context.Context, code sharing.Code) error {
	return r.client.Del(ctx, r.prefix+string(code)).Err()
}

// Compile-time check.
var _ clipboard.Repository = (*RedisClipboardStore)(nil)
