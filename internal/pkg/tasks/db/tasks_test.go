package tasks

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	tasksrepo "github.com/alexploopy/todo-list/internal/pkg/tasks"
	"github.com/alexploopy/todo-list/internal/pkg/tasks/taskstest"
)

// openTestDB connects to TODO_TEST_POSTGRES_URL or skips the test.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	url := os.Getenv("TODO_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("TODO_TEST_POSTGRES_URL not set")
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("PingContext: %v", err)
	}
	return db
}

func TestTasksRepo(t *testing.T) {
	db := openTestDB(t)
	repo := NewTasker(db)
	t.Cleanup(func() { repo.Close() })

	if err := repo.CreateSchema(context.Background()); err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}

	taskstest.Run(t, func(t *testing.T) tasksrepo.Tasker {
		return repo
	})
}

func TestTasksRepo_MalformedID(t *testing.T) {
	db := openTestDB(t)
	repo := NewTasker(db)
	t.Cleanup(func() { repo.Close() })

	ctx := context.Background()
	if err := repo.CreateSchema(ctx); err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}

	user := uuid.New().String()
	done := true
	if _, err := repo.UpdateTask(ctx, user, "not-a-uuid", tasksrepo.Patch{Completed: &done}); !errors.Is(err, tasksrepo.ErrNoTask) {
		t.Fatalf("UpdateTask: got %v, want ErrNoTask", err)
	}
	if err := repo.DeleteTask(ctx, user, "not-a-uuid"); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
}
