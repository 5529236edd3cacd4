package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v9"
)

// Sessioner records which token ids (jti) are live for a user, so a
// signed cookie can be revoked before it expires.
type Sessioner interface {
	Add(ctx context.Context, userID string, jti string, expiresAt time.Time) error
	IsValid(ctx context.Context, userID string, jti string) bool
	Remove(ctx context.Context, userID string, jti string) error
	Ping(context.Context) error
	Close() error
}

const keyPrefix = "session:"

type SessionManager struct {
	DB  *redis.Client
	now func() time.Time
}

func NewManager(DB *redis.Client) *SessionManager {
	return &SessionManager{DB: DB, now: time.Now}
}

func key(userID string) string {
	return keyPrefix + userID
}

func (s *SessionManager) Close() error {
	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("could not close redisDB: %w", err)
	}

	return nil
}

func (s *SessionManager) Ping(ctx context.Context) error {
	return s.DB.Ping(ctx).Err()
}

func (s *SessionManager) IsValid(ctx context.Context, userID string, jti string) bool {
	exp, err := s.DB.HGet(ctx, key(userID), jti).Result()
	if err != nil {
		return false
	}

	unix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return false
	}
	return s.now().Unix() < unix
}

// Add prunes the user's expired token ids before recording jti, and keeps
// the hash alive until its latest expiry.
func (s *SessionManager) Add(ctx context.Context, userID string, jti string, expiresAt time.Time) error {
	k := key(userID)
	hmap, err := s.DB.HGetAll(ctx, k).Result()
	if err != nil {
		return err
	}

	now := s.now().Unix()
	latest := expiresAt.Unix()
	for oldJTI, exp := range hmap {
		unix, err := strconv.ParseInt(exp, 10, 64)
		if err != nil || unix <= now {
			if err := s.DB.HDel(ctx, k, oldJTI).Err(); err != nil {
				return err
			}
			continue
		}
		if unix > latest {
			latest = unix
		}
	}

	if err := s.DB.HSet(ctx, k, jti, strconv.FormatInt(expiresAt.Unix(), 10)).Err(); err != nil {
		return err
	}

	return s.DB.ExpireAt(ctx, k, time.Unix(latest, 0)).Err()
}

func (s *SessionManager) Remove(ctx context.Context, userID string, jti string) error {
	return s.DB.HDel(ctx, key(userID), jti).Err()
}
