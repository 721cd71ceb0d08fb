package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Sessions tracks live token sessions under session:<id>. A token whose
// session key is gone has been revoked.
type Sessions struct {
	rdb goredis.Cmdable
}

func NewSessions(rdb goredis.Cmdable) *Sessions {
	return &Sessions{rdb: rdb}
}

func SessionKey(id uuid.UUID) string {
	return "session:" + id.String()
}

// Put records session id for userID until ttl elapses.
func (s *Sessions) Put(ctx context.Context, id, userID uuid.UUID, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, SessionKey(id), userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Active reports whether session id exists and belongs to userID.
func (s *Sessions) Active(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	v, err := s.rdb.Get(ctx, SessionKey(id)).Result()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load session: %w", err)
	}
	return v == userID.String(), nil
}

func (s *Sessions) Revoke(ctx context.Context, id uuid.UUID) error {
	if err := s.rdb.Del(ctx, SessionKey(id)).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
