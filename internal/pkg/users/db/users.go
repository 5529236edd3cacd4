package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	usersrepo "github.com/alexploopy/todo-list/internal/pkg/users"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            uuid PRIMARY KEY,
	name          text NOT NULL UNIQUE,
	password_hash text NOT NULL
);
`

const codeUniqueViolation = "23505"

type UsersRepo struct {
	users *sql.DB
}

func NewUserer(db *sql.DB) *UsersRepo {
	return &UsersRepo{
		users: db,
	}
}

func (u *UsersRepo) CreateSchema(ctx context.Context) error {
	if _, err := u.users.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("cant create users schema: %w", err)
	}
	return nil
}

func (u *UsersRepo) CreateUser(ctx context.Context, user *usersrepo.User) (*usersrepo.User, error) {
	saved := usersrepo.User{
		ID:           uuid.New().String(),
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
	}

	if _, err := u.users.ExecContext(ctx,
		"INSERT INTO users (id, name, password_hash) VALUES($1, $2, $3)",
		saved.ID, saved.Name, saved.PasswordHash,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
			return nil, usersrepo.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("cant insert user: %w", err)
	}

	return &saved, nil
}

func (u *UsersRepo) GetUserByName(ctx context.Context, name string) (*usersrepo.User, error) {
	return u.getUser(ctx, "SELECT id::text, name, password_hash FROM users WHERE name = $1", name)
}

func (u *UsersRepo) GetUserByID(ctx context.Context, id string) (*usersrepo.User, error) {
	return u.getUser(ctx, "SELECT id::text, name, password_hash FROM users WHERE id::text = $1", id)
}

func (u *UsersRepo) getUser(ctx context.Context, query string, arg string) (*usersrepo.User, error) {
	var user usersrepo.User
	if err := u.users.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Name, &user.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, usersrepo.ErrNoUser
		}
		return nil, err
	}
	return &user, nil
}

func (u *UsersRepo) Ping(ctx context.Context) error {
	return u.users.PingContext(ctx)
}

func (u *UsersRepo) Close() error {
	if err := u.users.Close(); err != nil {
		return fmt.Errorf("cant close usersDB: %v", err)
	}
	return nil
}
