// Package userstest holds behaviour tests shared by every users.Userer
// implementation.
package userstest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	usersrepo "github.com/alexploopy/todo-list/internal/pkg/users"
)

// Run exercises a Userer created fresh by newUserer for every subtest.
func Run(t *testing.T, newUserer func(t *testing.T) usersrepo.Userer) {
	t.Run("CreateAndGet", func(t *testing.T) { testCreateAndGet(t, newUserer(t)) })
	t.Run("DuplicateName", func(t *testing.T) { testDuplicateName(t, newUserer(t)) })
	t.Run("CaseSensitiveName", func(t *testing.T) { testCaseSensitiveName(t, newUserer(t)) })
	t.Run("Missing", func(t *testing.T) { testMissing(t, newUserer(t)) })
}

// uniqueName keeps names distinct when several runs share one database.
func uniqueName(base string) string {
	return base + "-" + uuid.New().String()[:8]
}

func testCreateAndGet(t *testing.T, repo usersrepo.Userer) {
	ctx := context.Background()
	name := uniqueName("alice")

	saved, err := repo.CreateUser(ctx, &usersrepo.User{Name: name, PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if saved.ID == "" || saved.Name != name || saved.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", saved)
	}

	byName, err := repo.GetUserByName(ctx, name)
	if err != nil {
		t.Fatalf("GetUserByName: %v", err)
	}
	if byName.ID != saved.ID {
		t.Errorf("GetUserByName ID: got %q, want %q", byName.ID, saved.ID)
	}

	byID, err := repo.GetUserByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if byID.Name != name {
		t.Errorf("GetUserByID Name: got %q, want %q", byID.Name, name)
	}
}

func testDuplicateName(t *testing.T, repo usersrepo.Userer) {
	ctx := context.Background()
	name := uniqueName("bob")

	if _, err := repo.CreateUser(ctx, &usersrepo.User{Name: name, PasswordHash: "h1"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := repo.CreateUser(ctx, &usersrepo.User{Name: name, PasswordHash: "h2"}); !errors.Is(err, usersrepo.ErrDuplicateUsername) {
		t.Fatalf("second CreateUser: got %v, want ErrDuplicateUsername", err)
	}

	user, err := repo.GetUserByName(ctx, name)
	if err != nil {
		t.Fatalf("GetUserByName: %v", err)
	}
	if user.PasswordHash != "h1" {
		t.Errorf("duplicate overwrote user: got hash %q", user.PasswordHash)
	}
}

func testCaseSensitiveName(t *testing.T, repo usersrepo.Userer) {
	ctx := context.Background()
	name := uniqueName("carol")

	if _, err := repo.CreateUser(ctx, &usersrepo.User{Name: name, PasswordHash: "h"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	upper := "CAROL" + name[len("carol"):]
	if _, err := repo.GetUserByName(ctx, upper); !errors.Is(err, usersrepo.ErrNoUser) {
		t.Fatalf("GetUserByName(%q): got %v, want ErrNoUser", upper, err)
	}
	if _, err := repo.CreateUser(ctx, &usersrepo.User{Name: upper, PasswordHash: "h"}); err != nil {
		t.Fatalf("CreateUser(%q): %v", upper, err)
	}
}

func testMissing(t *testing.T, repo usersrepo.Userer) {
	ctx := context.Background()
	if _, err := repo.GetUserByName(ctx, uniqueName("nobody")); !errors.Is(err, usersrepo.ErrNoUser) {
		t.Errorf("GetUserByName: got %v, want ErrNoUser", err)
	}
	if _, err := repo.GetUserByID(ctx, uuid.New().String()); !errors.Is(err, usersrepo.ErrNoUser) {
		t.Errorf("GetUserByID: got %v, want ErrNoUser", err)
	}
}
