package rediscache

import (
	"CliniGoal/internal/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const catalogKey = "catalog:public"

// CatalogCache keeps the assembled public course listing in redis. The
// entry expires after the configured TTL; a stale or missing entry means
// the caller rebuilds from postgres.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl}
}

func (c *CatalogCache) Get(ctx context.Context) ([]models.CoursePreview, bool, error) {
	raw, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("catalog cache get: %w", err)
	}

	var previews []models.CoursePreview
	if err := json.Unmarshal(raw, &previews); err != nil {
		// corrupted entry, treat as a miss
		return nil, false, nil
	}
	return previews, true, nil
}

func (c *CatalogCache) Set(ctx context.Context, previews []models.CoursePreview) error {
	raw, err := json.Marshal(previews)
	if err != nil {
		return fmt.Errorf("catalog cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, catalogKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("catalog cache set: %w", err)
	}
	return nil
}

func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		return fmt.Errorf("catalog cache invalidate: %w", err)
	}
	return nil
}
