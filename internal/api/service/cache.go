package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tradetracker/internal/api/dto"
	"tradetracker/pkg/common"
	"tradetracker/pkg/logger"
	"tradetracker/pkg/redis"
)

const metricsCacheTTL = 15 * time.Minute

// MetricsCache caches computed metrics in Redis, invalidated by bumping a
// per-user version counter so every mutation cheaply drops all windows at
// once. A nil receiver or nil client disables caching entirely, which is
// how the in-memory test wiring runs.
type MetricsCache struct {
	redis  *redis.Client
	logger *logger.Logger
}

// NewMetricsCache creates a metrics cache. Pass a nil client to disable.
func NewMetricsCache(client *redis.Client, log *logger.Logger) *MetricsCache {
	return &MetricsCache{redis: client, logger: log}
}

func (c *MetricsCache) enabled() bool {
	return c != nil && c.redis != nil
}

// Get returns the cached metrics for the user's current version and window,
// or nil on miss. Cache errors degrade to a miss.
func (c *MetricsCache) Get(ctx context.Context, userID, fromDate, toDate string) *dto.TradeMetrics {
	if !c.enabled() {
		return nil
	}
	key, err := c.key(ctx, userID, fromDate, toDate)
	if err != nil {
		return nil
	}
	raw, err := c.redis.Client.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var metrics dto.TradeMetrics
	if err := json.Unmarshal(raw, &metrics); err != nil {
		c.logger.Warn("Failed to decode cached metrics", logger.ErrorField(err), logger.Field("key", key))
		return nil
	}
	return &metrics
}

// Set stores computed metrics under the user's current version.
func (c *MetricsCache) Set(ctx context.Context, userID, fromDate, toDate string, metrics *dto.TradeMetrics) {
	if !c.enabled() || metrics == nil {
		return
	}
	key, err := c.key(ctx, userID, fromDate, toDate)
	if err != nil {
		return
	}
	raw, err := json.Marshal(metrics)
	if err != nil {
		return
	}
	if err := c.redis.Client.Set(ctx, key, raw, metricsCacheTTL).Err(); err != nil {
		c.logger.Warn("Failed to cache metrics", logger.ErrorField(err), logger.Field("key", key))
	}
}

// Invalidate bumps the user's version counter, orphaning every cached
// window for that user. Orphans expire with their TTL.
func (c *MetricsCache) Invalidate(ctx context.Context, userID string) {
	if !c.enabled() {
		return
	}
	verKey := fmt.Sprintf(common.RedisKeyMetricsVersion, userID)
	if err := c.redis.Client.Incr(ctx, verKey).Err(); err != nil {
		c.logger.Warn("Failed to invalidate metrics cache", logger.ErrorField(err), logger.Field("user_id", userID))
	}
}

func (c *MetricsCache) key(ctx context.Context, userID, fromDate, toDate string) (string, error) {
	verKey := fmt.Sprintf(common.RedisKeyMetricsVersion, userID)
	ver, err := c.redis.Client.Get(ctx, verKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf(common.RedisKeyMetrics, userID, ver, fromDate, toDate), nil
}
