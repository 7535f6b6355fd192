package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/retail/backoffice/internal/application/alert"
	"github.com/retail/backoffice/internal/infrastructure/config"
)

const snapshotKeyPrefix = "alert:low_stock:"

// RedisSnapshotCache implements alert.SnapshotCache on Redis so the
// low-stock snapshot is shared across instances.
type RedisSnapshotCache struct {
	client *redis.Client
}

// NewRedisSnapshotCache connects to Redis and verifies the connection.
func NewRedisSnapshotCache(cfg *config.RedisConfig) (*RedisSnapshotCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisSnapshotCache{client: client}, nil
}

// NewRedisSnapshotCacheWithClient wraps an existing client. Test
// helper.
func NewRedisSnapshotCacheWithClient(client *redis.Client) *RedisSnapshotCache {
	return &RedisSnapshotCache{client: client}
}

func snapshotKey(storeID uuid.UUID) string {
	return snapshotKeyPrefix + storeID.String()
}

// Get returns the cached snapshot, reporting a miss as (nil, false,
// nil).
func (c *RedisSnapshotCache) Get(ctx context.Context, storeID uuid.UUID) ([]alert.LowStockItem, bool, error) {
	payload, err := c.client.Get(ctx, snapshotKey(storeID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var items []alert.LowStockItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, false, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return items, true, nil
}

// Set stores the snapshot with the given TTL.
func (c *RedisSnapshotCache) Set(ctx context.Context, storeID uuid.UUID, items []alert.LowStockItem, ttl time.Duration) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey(storeID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Invalidate drops the store's snapshot.
func (c *RedisSnapshotCache) Invalidate(ctx context.Context, storeID uuid.UUID) error {
	if err := c.client.Del(ctx, snapshotKey(storeID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate snapshot: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (c *RedisSnapshotCache) Close() error {
	return c.client.Close()
}

var _ alert.SnapshotCache = (*RedisSnapshotCache)(nil)
