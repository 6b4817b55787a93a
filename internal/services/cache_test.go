package services

import (
	"context"
	"testing"
	"time"

	"formalization-guide/internal/common/config"
	"formalization-guide/internal/common/database"
	"formalization-guide/internal/common/logger"
	"formalization-guide/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Fake Inner Service
// ==========================

type fakeFormalization struct {
	statusCalls int
	snapshot    models.EligibilitySnapshot
	updates     []string
}

func (f *fakeFormalization) GetTasks(ctx context.Context) ([]models.ChecklistTask, error) {
	return nil, nil
}

func (f *fakeFormalization) GetStatus(ctx context.Context) (models.EligibilitySnapshot, error) {
	f.statusCalls++
	return f.snapshot, nil
}

func (f *fakeFormalization) UpdateTaskStatus(ctx context.Context, taskID string, status models.TaskStatus) error {
	f.updates = append(f.updates, taskID)
	return nil
}

func newCacheFixture(t *testing.T) (*CachedFormalization, *fakeFormalization, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	cfg := config.CacheConfig{Enabled: true, Address: mr.Addr(), TTL: 60}

	redis, err := database.NewRedis(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = redis.Close() })

	inner := &fakeFormalization{
		snapshot: models.EligibilitySnapshot{
			IsEligible: true,
			Level:      models.LevelEligible,
			Score:      85,
		},
	}
	cached := NewCachedFormalization(inner, redis, cfg, logger.NewNoOpLogger())
	return cached, inner, mr
}

// ==========================
// Cache Behavior Tests
// ==========================

func TestCachedFormalization_GetStatus_CachesSnapshot(t *testing.T) {
	cached, inner, _ := newCacheFixture(t)
	ctx := context.Background()

	first, err := cached.GetStatus(ctx)
	require.NoError(t, err)
	second, err := cached.GetStatus(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.statusCalls, "second read should come from cache")
}

func TestCachedFormalization_UpdateTaskStatus_InvalidatesSnapshot(t *testing.T) {
	cached, inner, _ := newCacheFixture(t)
	ctx := context.Background()

	_, err := cached.GetStatus(ctx)
	require.NoError(t, err)

	require.NoError(t, cached.UpdateTaskStatus(ctx, "task-3", models.TaskStatusDone))
	assert.Equal(t, []string{"task-3"}, inner.updates)

	inner.snapshot.Score = 95
	refreshed, err := cached.GetStatus(ctx)
	require.NoError(t, err)

	assert.Equal(t, 95, refreshed.Score)
	assert.Equal(t, 2, inner.statusCalls)
}

func TestCachedFormalization_GetStatus_DropsCorruptEntry(t *testing.T) {
	cached, inner, mr := newCacheFixture(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(snapshotCacheKey, "{not json"))

	snapshot, err := cached.GetStatus(ctx)
	require.NoError(t, err)

	assert.Equal(t, 85, snapshot.Score)
	assert.Equal(t, 1, inner.statusCalls)
}

func TestCachedFormalization_GetStatus_ExpiredEntryRefetches(t *testing.T) {
	cached, inner, mr := newCacheFixture(t)
	ctx := context.Background()

	_, err := cached.GetStatus(ctx)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = cached.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.statusCalls)
}
