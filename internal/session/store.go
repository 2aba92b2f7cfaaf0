package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long an issued token stays valid unless revoked first.
const DefaultTTL = 24 * time.Hour

const keyPrefix = "auth_"

// Store maps opaque session tokens to user ids. Absence of a token is not
// an error: Resolve returns ok=false for expired or never-issued tokens and
// callers must treat that as "unauthenticated".
type Store interface {
	Issue(ctx context.Context, userID int64, ttl time.Duration) (string, error)
	Resolve(ctx context.Context, token string) (int64, bool, error)
	Revoke(ctx context.Context, token string) error
}

// RedisStore keeps token -> userID mappings in redis with a TTL. Expiry is
// enforced by redis itself, so there is no background sweep.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Issue(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	token := uuid.NewString()

	err := s.rdb.Set(ctx, keyPrefix+token, userID, ttl).Err()

	if err != nil {
		return "", err
	}

	return token, nil
}

func (s *RedisStore) Resolve(ctx context.Context, token string) (int64, bool, error) {
	if token == "" {
		return 0, false, nil
	}

	id, err := s.rdb.Get(ctx, keyPrefix+token).Int64()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}

		return 0, false, err
	}

	return id, true, nil
}

// Revoke is idempotent: deleting an unknown token is a no-op.
func (s *RedisStore) Revoke(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, keyPrefix+token).Err()
}
