package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/task-service/internal/domain"
)

const (
	taskCacheKeyPrefix = "task:"

	// taskTombstone replaces a cached task on every write. Fills use SETNX, so a
	// reader that loaded the row before the write cannot put it back while the
	// tombstone lives.
	taskTombstone    = "-"
	taskTombstoneTTL = 5 * time.Second
)

// cachedTaskRepository serves GetByID from Redis and invalidates on writes.
// Cache failures are logged and never surface to callers. A fill that loses the
// race with a write is only prevented for taskTombstoneTTL; a reader stalled
// longer than that between its database read and its fill can still cache the
// old row until the entry expires.
type cachedTaskRepository struct {
	TaskRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedTaskRepository decorates next with a read-through cache. A nil client or
// non-positive ttl returns next unchanged.
func NewCachedTaskRepository(next TaskRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) TaskRepository {
	if client == nil || ttl <= 0 {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedTaskRepository{TaskRepository: next, client: client, ttl: ttl, logger: logger}
}

func taskCacheKey(id string) string {
	return taskCacheKeyPrefix + id
}

func (r *cachedTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	raw, err := r.client.Get(ctx, taskCacheKey(id)).Bytes()
	switch {
	case err == nil && string(raw) == taskTombstone:
		// recently written; read through without filling
	case err == nil:
		var task domain.Task
		if err := json.Unmarshal(raw, &task); err == nil {
			return &task, nil
		}
		r.logger.Warn("discarding undecodable cached task", zap.String("task_id", id))
		r.client.Del(ctx, taskCacheKey(id))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("task cache read failed", zap.String("task_id", id), zap.Error(err))
	}

	task, err := r.TaskRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, task)
	return task, nil
}

func (r *cachedTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if err := r.TaskRepository.Update(ctx, task); err != nil {
		return err
	}
	r.invalidate(ctx, task.ID)
	return nil
}

func (r *cachedTaskRepository) Delete(ctx context.Context, id string) error {
	err := r.TaskRepository.Delete(ctx, id)
	r.invalidate(ctx, id)
	return err
}

func (r *cachedTaskRepository) store(ctx context.Context, task *domain.Task) {
	raw, err := json.Marshal(task)
	if err != nil {
		return
	}
	if err := r.client.SetNX(ctx, taskCacheKey(task.ID), raw, r.ttl).Err(); err != nil {
		r.logger.Warn("task cache write failed", zap.String("task_id", task.ID), zap.Error(err))
	}
}

func (r *cachedTaskRepository) invalidate(ctx context.Context, id string) {
	if err := r.client.Set(ctx, taskCacheKey(id), taskTombstone, r.tombstoneTTL()).Err(); err != nil {
		r.logger.Warn("task cache invalidation failed", zap.String("task_id", id), zap.Error(err))
	}
}

func (r *cachedTaskRepository) tombstoneTTL() time.Duration {
	if r.ttl < taskTombstoneTTL {
		return r.ttl
	}
	return taskTombstoneTTL
}
