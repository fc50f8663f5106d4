package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/events"
	"github.com/spec-kit/task-service/internal/repository"
	apperrors "github.com/spec-kit/task-service/pkg/util/errorutil"
)

func newTaskService(t *testing.T) (*TaskService, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher(nil)
	NewActivityService(dispatcher, zap.New(core)).RegisterHandlers()
	return NewTaskService(repository.NewMemoryTaskRepository(), dispatcher), logs
}

func TestTaskCreateAppliesDefaults(t *testing.T) {
	svc, logs := newTaskService(t)

	task, err := svc.Create(context.Background(), "u1", TaskCreateInput{Title: "Write report"})
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, domain.DefaultTaskStatus, task.Status)
	assert.Equal(t, domain.DefaultTaskPriority, task.Priority)
	assert.Nil(t, task.DueDate)
	assert.False(t, task.CreatedAt.IsZero())

	entries := logs.FilterMessage(string(events.EventTaskCreated)).All()
	require.Len(t, entries, 1)
	assert.Equal(t, task.ID, entries[0].ContextMap()["resource_id"])
	assert.Equal(t, "u1", entries[0].ContextMap()["actor_id"])
}

func TestTaskCreateRequiresTitle(t *testing.T) {
	svc, logs := newTaskService(t)

	for _, title := range []string{"", "   "} {
		_, err := svc.Create(context.Background(), "u1", TaskCreateInput{Title: title})
		require.Error(t, err)
		de := apperrors.ToDomainError(err)
		assert.Equal(t, apperrors.KindValidationFailed, de.Kind)
		assert.Equal(t, MsgTitleRequired, de.Message)
	}
	assert.Zero(t, logs.Len())
}

func TestTaskUpdatePartial(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()
	due := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	task, err := svc.Create(ctx, "u1", TaskCreateInput{Title: "Draft", Priority: "high", DueDate: &due})
	require.NoError(t, err)

	status := "done"
	updated, err := svc.Update(ctx, "u1", task.ID, TaskPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "Draft", updated.Title)
	assert.Equal(t, domain.TaskStatus("done"), updated.Status)
	assert.Equal(t, domain.TaskPriority("high"), updated.Priority)
	require.NotNil(t, updated.DueDate)
	assert.True(t, due.Equal(*updated.DueDate))

	updated, err = svc.Update(ctx, "u1", task.ID, TaskPatch{ClearDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)

	empty := ""
	_, err = svc.Update(ctx, "u1", task.ID, TaskPatch{Title: &empty})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidationFailed))
}

func TestTaskMissingIsNotFound(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, "non-existent-id")
	assertTaskNotFound(t, err)

	title := "x"
	_, err = svc.Update(ctx, "u1", "non-existent-id", TaskPatch{Title: &title})
	assertTaskNotFound(t, err)

	assertTaskNotFound(t, svc.Delete(ctx, "u1", "non-existent-id"))
}

func TestTaskDelete(t *testing.T) {
	svc, logs := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, "u1", TaskCreateInput{Title: "Temp"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "u1", task.ID))
	assertTaskNotFound(t, svc.Delete(ctx, "u1", task.ID))
	assert.Equal(t, 1, logs.FilterMessage(string(events.EventTaskDeleted)).Len())
}

func TestTaskListFilters(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", TaskCreateInput{Title: "First", Status: "done"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u1", TaskCreateInput{Title: "Second"})
	require.NoError(t, err)

	tasks, err := svc.List(ctx, repository.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Second", tasks[0].Title)

	tasks, err = svc.List(ctx, repository.TaskFilter{Status: "done"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "First", tasks[0].Title)
}

func assertTaskNotFound(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.KindNotFound, de.Kind)
	assert.Equal(t, "Task not found", de.Message)
}
