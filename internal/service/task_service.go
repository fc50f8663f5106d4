package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/events"
	"github.com/spec-kit/task-service/internal/repository"
	apperrors "github.com/spec-kit/task-service/pkg/util/errorutil"
)

// MsgTitleRequired is returned when a task is created without a title.
const MsgTitleRequired = "Task title is required"

// TaskCreateInput describes task creation payload.
type TaskCreateInput struct {
	Title       string
	Description *string
	Status      string
	Priority    string
	DueDate     *time.Time
}

// TaskPatch describes a partial update. Nil fields are left untouched; ClearDueDate
// removes the due date.
type TaskPatch struct {
	Title        *string
	Description  *string
	Status       *string
	Priority     *string
	DueDate      *time.Time
	ClearDueDate bool
}

// TaskService coordinates task workflows.
type TaskService struct {
	tasks      repository.TaskRepository
	dispatcher events.Dispatcher
}

// NewTaskService builds the service.
func NewTaskService(tasks repository.TaskRepository, dispatcher events.Dispatcher) *TaskService {
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher(nil)
	}
	return &TaskService{tasks: tasks, dispatcher: dispatcher}
}

// Create stores a new task, applying the default status and priority.
func (s *TaskService) Create(ctx context.Context, actorID string, in TaskCreateInput) (*domain.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperrors.NewValidationError(MsgTitleRequired)
	}

	task := &domain.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Status:      domain.DefaultTaskStatus,
		Priority:    domain.DefaultTaskPriority,
		DueDate:     in.DueDate,
	}
	if in.Status != "" {
		task.Status = domain.TaskStatus(in.Status)
	}
	if in.Priority != "" {
		task.Priority = domain.TaskPriority(in.Priority)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTaskCreated, task, actorID)
	return task, nil
}

// List returns tasks matching the filter, newest first.
func (s *TaskService) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return s.tasks.List(ctx, filter)
}

// Get returns a single task.
func (s *TaskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NewNotFound("Task")
		}
		return nil, err
	}
	return task, nil
}

// Update applies a partial update to an existing task.
func (s *TaskService) Update(ctx context.Context, actorID, id string, patch TaskPatch) (*domain.Task, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, apperrors.NewValidationError(MsgTitleRequired)
	}

	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = patch.Description
	}
	if patch.Status != nil {
		task.Status = domain.TaskStatus(*patch.Status)
	}
	if patch.Priority != nil {
		task.Priority = domain.TaskPriority(*patch.Priority)
	}
	if patch.ClearDueDate {
		task.DueDate = nil
	} else if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTaskUpdated, task, actorID)
	return task, nil
}

// Delete removes an existing task.
func (s *TaskService) Delete(ctx context.Context, actorID, id string) error {
	exists, err := s.tasks.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewNotFound("Task")
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	s.dispatcher.Publish(ctx, events.NewEvent(events.EventTaskDeleted, id, actorID, nil))
	return nil
}

func (s *TaskService) publish(ctx context.Context, eventType events.EventType, task *domain.Task, actorID string) {
	s.dispatcher.Publish(ctx, events.NewEvent(eventType, task.ID, actorID, events.TaskChangedPayload{
		Title:    task.Title,
		Status:   string(task.Status),
		Priority: string(task.Priority),
	}))
}
