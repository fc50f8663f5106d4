package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spec-kit/task-service/internal/domain"
)

const dateOnly = "2006-01-02"

// ErrInvalidDueDate is returned for due dates that are neither RFC3339 nor YYYY-MM-DD.
var ErrInvalidDueDate = errors.New("dueDate must be an RFC3339 timestamp or a YYYY-MM-DD date")

// TaskCreateRequest payload for new tasks.
type TaskCreateRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	DueDate     *DueDate `json:"dueDate"`
}

// TaskUpdateRequest payload for partial task updates.
type TaskUpdateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Status      *string  `json:"status"`
	Priority    *string  `json:"priority"`
	DueDate     *DueDate `json:"dueDate"`
}

// DueDate accepts RFC3339 timestamps or YYYY-MM-DD dates. An empty string is
// decoded as an explicit clear.
type DueDate struct {
	Time  time.Time
	Clear bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DueDate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDueDate, err)
	}
	if raw == "" {
		d.Clear = true
		return nil
	}
	t, err := ParseDueDate(raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ParseDueDate parses RFC3339 or YYYY-MM-DD input into UTC.
func ParseDueDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: got %q", ErrInvalidDueDate, raw)
	}
	return t.UTC(), nil
}

// TaskResponse is the wire view of a task.
type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewTaskResponse maps a task to its wire view.
func NewTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// NewTaskResponses maps a slice of tasks.
func NewTaskResponses(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, NewTaskResponse(&tasks[i]))
	}
	return out
}
