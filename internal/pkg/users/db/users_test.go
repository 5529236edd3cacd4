package users

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"

	usersrepo "github.com/alexploopy/todo-list/internal/pkg/users"
	"github.com/alexploopy/todo-list/internal/pkg/users/userstest"
)

func TestUsersRepo(t *testing.T) {
	url := os.Getenv("TODO_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("TODO_TEST_POSTGRES_URL not set")
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	repo := NewUserer(db)
	t.Cleanup(func() { repo.Close() })

	if err := repo.CreateSchema(context.Background()); err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}

	userstest.Run(t, func(t *testing.T) usersrepo.Userer {
		return repo
	})
}
