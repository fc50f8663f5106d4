package domain

import "time"

// TaskStatus is a free-form workflow label; the service only supplies a default.
type TaskStatus string

// TaskPriority is a free-form urgency label.
type TaskPriority string

const (
	DefaultTaskStatus   TaskStatus   = "pending"
	DefaultTaskPriority TaskPriority = "medium"
)

// Task is the unit of work managed by the API.
type Task struct {
	ID          string       `db:"id"`
	Title       string       `db:"title"`
	Description *string      `db:"description"`
	Status      TaskStatus   `db:"status"`
	Priority    TaskPriority `db:"priority"`
	DueDate     *time.Time   `db:"due_date"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}
