package tasks

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNoTask          = errors.New("no task with given params found")
	ErrInvalidPriority = errors.New("invalid priority")
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority accepts the form values "high", "medium" and "low".
// An empty string yields PriorityMedium.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case "":
		return PriorityMedium, nil
	case PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	}
	return 1
}

type Task struct {
	ID        string
	UserID    string
	Title     string
	Completed bool
	Priority  Priority
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Title     *string
	Completed *bool
	Priority  *Priority
}

// Apply copies every set field of p onto t.
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
}

// Tasker stores tasks. Update and delete are scoped by the owner's user
// id: a task owned by someone else behaves as if it did not exist.
type Tasker interface {
	AddTask(ctx context.Context, userID, title string, priority Priority) (*Task, error)
	ListTasksForUser(ctx context.Context, userID string) ([]*Task, error)
	UpdateTask(ctx context.Context, userID, id string, patch Patch) (*Task, error)
	DeleteTask(ctx context.Context, userID, id string) error

	Ping(context.Context) error
	Close() error
}
