package users

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	usersrepo "github.com/alexploopy/todo-list/internal/pkg/users"
	"github.com/alexploopy/todo-list/internal/pkg/users/userstest"
)

func TestUsersRepo(t *testing.T) {
	userstest.Run(t, func(t *testing.T) usersrepo.Userer {
		return NewUserer()
	})
}

func TestUsersRepo_ConcurrentRegistration(t *testing.T) {
	repo := NewUserer()

	var created, duplicates int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CreateUser(context.Background(), &usersrepo.User{Name: "alice", PasswordHash: "h"})
			switch {
			case err == nil:
				atomic.AddInt32(&created, 1)
			case errors.Is(err, usersrepo.ErrDuplicateUsername):
				atomic.AddInt32(&duplicates, 1)
			default:
				t.Errorf("CreateUser: %v", err)
			}
		}()
	}
	wg.Wait()

	if created != 1 || duplicates != 19 {
		t.Fatalf("got %d created and %d duplicates, want 1 and 19", created, duplicates)
	}
}
