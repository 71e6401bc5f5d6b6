package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"crypto-pulse/internal/stream/dto"
	"crypto-pulse/pkg/common"

	goredis "github.com/redis/go-redis/v9"
)

// PostCache holds fetched posts in Redis under a (limit, time_filter) key
// with an explicit TTL.
type PostCache interface {
	Get(ctx context.Context, limit int, timeFilter string) ([]dto.RawPost, bool, error)
	Set(ctx context.Context, limit int, timeFilter string, posts []dto.RawPost) error
}

// NewPostCache creates a Redis-backed post cache.
func NewPostCache(client *goredis.Client, ttl time.Duration) PostCache {
	return &postCache{client: client, ttl: ttl}
}

type postCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func (c *postCache) key(limit int, timeFilter string) string {
	return fmt.Sprintf("%s:%d:%s", common.RedisKeyPostCache, limit, timeFilter)
}

func (c *postCache) Get(ctx context.Context, limit int, timeFilter string) ([]dto.RawPost, bool, error) {
	raw, err := c.client.Get(ctx, c.key(limit, timeFilter)).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var posts []dto.RawPost
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, false, err
	}
	return posts, true, nil
}

func (c *postCache) Set(ctx context.Context, limit int, timeFilter string, posts []dto.RawPost) error {
	raw, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(limit, timeFilter), raw, c.ttl).Err()
}
