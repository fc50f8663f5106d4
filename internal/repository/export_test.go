package repository

import (
	"context"

	"github.com/spec-kit/task-service/internal/domain"
)

// FillTaskCache performs the cache fill step of a GetByID miss in isolation, as a
// reader that loaded task before a concurrent write would.
func FillTaskCache(ctx context.Context, repo TaskRepository, task *domain.Task) {
	if cached, ok := repo.(*cachedTaskRepository); ok {
		cached.store(ctx, task)
	}
}
