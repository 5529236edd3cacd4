package users

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNoUser             = errors.New("no user with given name found")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type User struct {
	ID           string
	Name         string
	PasswordHash string
}

// Userer persists user records. CreateUser must reject an existing name
// with ErrDuplicateUsername atomically.
type Userer interface {
	CreateUser(context.Context, *User) (*User, error)
	GetUserByName(context.Context, string) (*User, error)
	GetUserByID(context.Context, string) (*User, error)

	Ping(context.Context) error
	Close() error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// Credentials is the credential store used by the handlers. It owns
// password hashing so plaintext never reaches a Userer.
type Credentials struct {
	users  Userer
	hasher PasswordHasher
}

func NewCredentials(users Userer, hasher PasswordHasher) *Credentials {
	return &Credentials{users: users, hasher: hasher}
}

func (c *Credentials) CreateUser(ctx context.Context, username, password string) (*User, error) {
	hash, err := c.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("cant hash password: %w", err)
	}

	user, err := c.users.CreateUser(ctx, &User{Name: username, PasswordHash: hash})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Credentials) FindByUsername(ctx context.Context, username string) (*User, error) {
	return c.users.GetUserByName(ctx, username)
}

func (c *Credentials) FindByID(ctx context.Context, id string) (*User, error) {
	return c.users.GetUserByID(ctx, id)
}

// ValidatePassword returns the user when the name exists and the password
// matches its hash. Both kinds of mismatch yield ErrInvalidCredentials.
func (c *Credentials) ValidatePassword(ctx context.Context, username, password string) (*User, error) {
	user, err := c.users.GetUserByName(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNoUser) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := c.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (c *Credentials) Ping(ctx context.Context) error {
	return c.users.Ping(ctx)
}

func (c *Credentials) Close() error {
	return c.users.Close()
}
