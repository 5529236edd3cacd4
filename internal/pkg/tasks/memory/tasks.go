package tasks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	tasksrepo "github.com/alexploopy/todo-list/internal/pkg/tasks"
)

// TasksRepo keeps tasks in process memory. Contents are lost on restart.
type TasksRepo struct {
	mu    sync.RWMutex
	order []string
	tasks map[string]*tasksrepo.Task
}

func NewTasker() *TasksRepo {
	return &TasksRepo{
		tasks: make(map[string]*tasksrepo.Task),
	}
}

func (t *TasksRepo) AddTask(ctx context.Context, userID, title string, priority tasksrepo.Priority) (*tasksrepo.Task, error) {
	if priority == "" {
		priority = tasksrepo.PriorityMedium
	}
	task := &tasksrepo.Task{
		ID:       uuid.New().String(),
		UserID:   userID,
		Title:    title,
		Priority: priority,
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.tasks[task.ID] = task
	t.order = append(t.order, task.ID)

	res := *task
	return &res, nil
}

func (t *TasksRepo) ListTasksForUser(ctx context.Context, userID string) ([]*tasksrepo.Task, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	res := make([]*tasksrepo.Task, 0)
	for _, id := range t.order {
		task := t.tasks[id]
		if task.UserID != userID {
			continue
		}
		cp := *task
		res = append(res, &cp)
	}
	return res, nil
}

func (t *TasksRepo) UpdateTask(ctx context.Context, userID, id string, patch tasksrepo.Patch) (*tasksrepo.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, ok := t.tasks[id]
	if !ok || task.UserID != userID {
		return nil, tasksrepo.ErrNoTask
	}
	patch.Apply(task)

	res := *task
	return &res, nil
}

func (t *TasksRepo) DeleteTask(ctx context.Context, userID, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, ok := t.tasks[id]
	if !ok || task.UserID != userID {
		return nil
	}
	delete(t.tasks, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

func (t *TasksRepo) Ping(context.Context) error {
	return nil
}

func (t *TasksRepo) Close() error {
	return nil
}
