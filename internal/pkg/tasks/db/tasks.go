package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	tasksrepo "github.com/alexploopy/todo-list/internal/pkg/tasks"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id         uuid PRIMARY KEY,
	user_id    uuid NOT NULL,
	title      text NOT NULL,
	completed  boolean NOT NULL DEFAULT false,
	priority   text NOT NULL DEFAULT 'medium',
	created_at timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS tasks_user_id_idx ON tasks (user_id, created_at);
`

// invalid_text_representation, returned for ids that are not uuids
const codeInvalidText = "22P02"

type TasksRepo struct {
	tasks *sql.DB
}

func NewTasker(db *sql.DB) *TasksRepo {
	return &TasksRepo{
		tasks: db,
	}
}

func (t *TasksRepo) CreateSchema(ctx context.Context) error {
	if _, err := t.tasks.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("cant create tasks schema: %w", err)
	}
	return nil
}

func (t *TasksRepo) AddTask(ctx context.Context, userID, title string, priority tasksrepo.Priority) (*tasksrepo.Task, error) {
	if priority == "" {
		priority = tasksrepo.PriorityMedium
	}
	task := tasksrepo.Task{
		ID:       uuid.New().String(),
		UserID:   userID,
		Title:    title,
		Priority: priority,
	}

	if _, err := t.tasks.ExecContext(ctx,
		"INSERT INTO tasks (id, user_id, title, completed, priority) VALUES($1, $2, $3, $4, $5)",
		task.ID, task.UserID, task.Title, task.Completed, string(task.Priority),
	); err != nil {
		return nil, fmt.Errorf("cant insert task: %w", err)
	}

	return &task, nil
}

func (t *TasksRepo) ListTasksForUser(ctx context.Context, userID string) ([]*tasksrepo.Task, error) {
	curr, err := t.tasks.QueryContext(ctx,
		"SELECT id::text, user_id::text, title, completed, priority FROM tasks WHERE user_id = $1 ORDER BY created_at, id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("cant list tasks: %w", err)
	}
	defer curr.Close()

	res := make([]*tasksrepo.Task, 0)
	for curr.Next() {
		var task tasksrepo.Task
		if err := scanTask(curr, &task); err != nil {
			return nil, err
		}
		res = append(res, &task)
	}
	if err := curr.Err(); err != nil {
		return nil, fmt.Errorf("cant list tasks: %w", err)
	}
	return res, nil
}

func (t *TasksRepo) UpdateTask(ctx context.Context, userID, id string, patch tasksrepo.Patch) (*tasksrepo.Task, error) {
	var title sql.NullString
	if patch.Title != nil {
		title = sql.NullString{String: *patch.Title, Valid: true}
	}
	var completed sql.NullBool
	if patch.Completed != nil {
		completed = sql.NullBool{Bool: *patch.Completed, Valid: true}
	}
	var priority sql.NullString
	if patch.Priority != nil {
		priority = sql.NullString{String: string(*patch.Priority), Valid: true}
	}

	row := t.tasks.QueryRowContext(ctx, `
		UPDATE tasks SET
			title = COALESCE($3, title),
			completed = COALESCE($4, completed),
			priority = COALESCE($5, priority)
		WHERE id = $1 AND user_id = $2
		RETURNING id::text, user_id::text, title, completed, priority`,
		id, userID, title, completed, priority,
	)

	var task tasksrepo.Task
	if err := scanTask(row, &task); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
			return nil, tasksrepo.ErrNoTask
		}
		return nil, err
	}
	return &task, nil
}

func (t *TasksRepo) DeleteTask(ctx context.Context, userID, id string) error {
	if _, err := t.tasks.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1 AND user_id = $2", id, userID); err != nil {
		if isInvalidText(err) {
			return nil
		}
		return fmt.Errorf("cant delete task %v: %w", id, err)
	}
	return nil
}

func (t *TasksRepo) Ping(ctx context.Context) error {
	return t.tasks.PingContext(ctx)
}

func (t *TasksRepo) Close() error {
	if err := t.tasks.Close(); err != nil {
		return fmt.Errorf("cant close tasksDB: %v", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner, task *tasksrepo.Task) error {
	var priority string
	if err := s.Scan(&task.ID, &task.UserID, &task.Title, &task.Completed, &priority); err != nil {
		return err
	}
	task.Priority = tasksrepo.Priority(priority)
	return nil
}

func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeInvalidText
}
