package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/task-service/internal/domain"
	apperrors "github.com/spec-kit/task-service/pkg/util/errorutil"
)

func TestMemoryUserRepositoryFaults(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u1", Email: "a@example.com", Name: "Ann", Role: domain.RoleUser}))

	err := repo.Create(ctx, &domain.User{ID: "u2", Email: "a@example.com"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(repo.Delete(ctx, "missing")))
	assert.True(t, IsNotFound(repo.Update(ctx, &domain.User{ID: "missing"})))
}

func TestMemoryUserRepositoryListSearchNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u1", Email: "ann@example.com", Name: "Ann"}))
	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u2", Email: "bob@example.com", Name: "Bob"}))
	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u3", Email: "carl@example.com", Name: "ANNA"}))

	users, err := repo.List(ctx, UserFilter{})
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "u3", users[0].ID)

	users, err = repo.List(ctx, UserFilter{Search: "ann"})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, []string{"u3", "u1"}, []string{users[0].ID, users[1].ID})
}

func TestMemoryTaskRepositoryListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTaskRepository()
	desc := "write the quarterly report"
	require.NoError(t, repo.Create(ctx, &domain.Task{ID: "t1", Title: "Report", Description: &desc, Status: "pending", Priority: "high"}))
	require.NoError(t, repo.Create(ctx, &domain.Task{ID: "t2", Title: "Groceries", Status: "done", Priority: "low"}))

	tasks, err := repo.List(ctx, TaskFilter{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "t1", tasks[0].ID)

	tasks, err = repo.List(ctx, TaskFilter{Search: "QUARTERLY"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	tasks, err = repo.List(ctx, TaskFilter{Priority: "urgent"})
	require.NoError(t, err)
	assert.Empty(t, tasks)

	exists, err := repo.Exists(ctx, "t2")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCachedTaskRepositoryDisabledReturnsNext(t *testing.T) {
	next := NewMemoryTaskRepository()

	assert.Same(t, next, NewCachedTaskRepository(next, nil, time.Minute, zap.NewNop()))
}
