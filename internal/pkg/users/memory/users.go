package users

import (
	"context"
	"sync"

	"github.com/google/uuid"

	usersrepo "github.com/alexploopy/todo-list/internal/pkg/users"
)

type UsersRepo struct {
	mu     sync.RWMutex
	byID   map[string]*usersrepo.User
	byName map[string]*usersrepo.User
}

func NewUserer() *UsersRepo {
	return &UsersRepo{
		byID:   make(map[string]*usersrepo.User),
		byName: make(map[string]*usersrepo.User),
	}
}

func (u *UsersRepo) CreateUser(ctx context.Context, user *usersrepo.User) (*usersrepo.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, ok := u.byName[user.Name]; ok {
		return nil, usersrepo.ErrDuplicateUsername
	}

	saved := &usersrepo.User{
		ID:           uuid.New().String(),
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
	}
	u.byID[saved.ID] = saved
	u.byName[saved.Name] = saved

	res := *saved
	return &res, nil
}

func (u *UsersRepo) GetUserByName(ctx context.Context, name string) (*usersrepo.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	user, ok := u.byName[name]
	if !ok {
		return nil, usersrepo.ErrNoUser
	}
	res := *user
	return &res, nil
}

func (u *UsersRepo) GetUserByID(ctx context.Context, id string) (*usersrepo.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	user, ok := u.byID[id]
	if !ok {
		return nil, usersrepo.ErrNoUser
	}
	res := *user
	return &res, nil
}

func (u *UsersRepo) Ping(context.Context) error {
	return nil
}

func (u *UsersRepo) Close() error {
	return nil
}
