// internal/services/cache.go
package services

import (
	"context"
	"encoding/json"
	"time"

	"formalization-guide/internal/common/config"
	"formalization-guide/internal/common/database"
	"formalization-guide/internal/common/logger"
	"formalization-guide/internal/models"
)

const snapshotCacheKey = "formalization:status"

// CachedFormalization decorates a FormalizationService with a Redis cache
// for the eligibility snapshot. Task reads and writes pass through; any
// task update invalidates the cached snapshot since completing a task can
// move the score.
type CachedFormalization struct {
	inner  FormalizationService
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedFormalization(inner FormalizationService, redis *database.RedisClient, cfg config.CacheConfig, log logger.Logger) *CachedFormalization {
	return &CachedFormalization{
		inner:  inner,
		redis:  redis,
		ttl:    time.Duration(cfg.TTL) * time.Second,
		logger: log,
	}
}

func (c *CachedFormalization) GetTasks(ctx context.Context) ([]models.ChecklistTask, error) {
	return c.inner.GetTasks(ctx)
}

func (c *CachedFormalization) GetStatus(ctx context.Context) (models.EligibilitySnapshot, error) {
	if raw, err := c.redis.Get(ctx, snapshotCacheKey); err == nil {
		var snapshot models.EligibilitySnapshot
		if err := json.Unmarshal([]byte(raw), &snapshot); err == nil {
			return snapshot, nil
		}
		// Unreadable entry; drop it and fetch fresh.
		_ = c.redis.Del(ctx, snapshotCacheKey)
	}

	snapshot, err := c.inner.GetStatus(ctx)
	if err != nil {
		return models.EligibilitySnapshot{}, err
	}

	if payload, err := json.Marshal(snapshot); err == nil {
		if err := c.redis.Set(ctx, snapshotCacheKey, payload, c.ttl); err != nil {
			c.logger.Warn("snapshot cache write failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return snapshot, nil
}

func (c *CachedFormalization) UpdateTaskStatus(ctx context.Context, taskID string, status models.TaskStatus) error {
	if err := c.inner.UpdateTaskStatus(ctx, taskID, status); err != nil {
		return err
	}
	if err := c.redis.Del(ctx, snapshotCacheKey); err != nil {
		c.logger.Warn("snapshot cache invalidation failed", map[string]interface{}{
			"taskId": taskID,
			"error":  err.Error(),
		})
	}
	return nil
}
