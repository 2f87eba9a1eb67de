package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"blogapi/internal/domain/model"
	"blogapi/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

const postTTL = 5 * time.Minute

// Posts is a read-through cache for single-post lookups. Public post reads
// dominate traffic, so hits skip the database entirely; every mutation path
// invalidates the affected keys.
type Posts struct {
	rdb *redis.Client
}

func Connect(ctx context.Context, cfg config.Config) (*Posts, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Posts{rdb: rdb}, nil
}

func (c *Posts) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func key(postID string) string { return "post:" + postID }

// Get returns the cached post, or (nil, nil) on a miss. A nil receiver is a
// permanent miss, which lets callers run without Redis in tests.
func (c *Posts) Get(ctx context.Context, postID string) (*model.Post, error) {
	if c == nil || c.rdb == nil {
		return nil, nil
	}
	raw, err := c.rdb.Get(ctx, key(postID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var p model.Post
	if err := json.Unmarshal(raw, &p); err != nil {
		// Stale or corrupt entry; drop it and treat as a miss.
		c.rdb.Del(ctx, key(postID))
		return nil, nil
	}
	return &p, nil
}

func (c *Posts) Set(ctx context.Context, p *model.Post) error {
	if c == nil || c.rdb == nil || p == nil {
		return nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(p.ID), raw, postTTL).Err()
}

func (c *Posts) Invalidate(ctx context.Context, postIDs ...string) error {
	if c == nil || c.rdb == nil || len(postIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(postIDs))
	for _, id := range postIDs {
		keys = append(keys, key(id))
	}
	return c.rdb.Del(ctx, keys...).Err()
}
