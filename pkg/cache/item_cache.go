package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// ItemCacheTTL is the time-to-live for cached items.
	ItemCacheTTL = 10 * time.Minute

	itemCacheKeyPrefix = "item"
)

// ErrMiss is returned by Get when the key does not exist or has expired.
var ErrMiss = errors.New("cache: miss")

// CachedItem is the read model stored in Redis as JSON.
type CachedItem struct {
	ID          uuid.UUID `json:"id"`
	OrgID       uuid.UUID `json:"org_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ItemCache reads and writes item cache entries.
// Keys are scoped by orgID to prevent cross-tenant data leakage.
// Key format: "item:{orgID}:{itemID}"
type ItemCache struct {
	client *RedisClient
	ttl    time.Duration
}

// NewItemCache creates an ItemCache backed by r.
func NewItemCache(r *RedisClient) *ItemCache {
	return &ItemCache{client: r, ttl: ItemCacheTTL}
}

// Get retrieves a cached item by org + item ID. It returns ErrMiss when absent.
func (c *ItemCache) Get(ctx context.Context, orgID, itemID uuid.UUID) (*CachedItem, error) {
	raw, err := c.client.Client().Get(ctx, c.key(orgID, itemID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var item CachedItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &item, nil
}

// Set writes item with the cache TTL.
func (c *ItemCache) Set(ctx context.Context, item *CachedItem) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Client().Set(ctx, c.key(item.OrgID, item.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached item.
func (c *ItemCache) Delete(ctx context.Context, orgID, itemID uuid.UUID) error {
	if err := c.client.Client().Del(ctx, c.key(orgID, itemID)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func (c *ItemCache) key(orgID, itemID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", itemCacheKeyPrefix, orgID, itemID)
}
