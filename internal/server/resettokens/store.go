// Package resettokens stores one-time password-reset tokens in redis.
//
// A token is an opaque random string mapped to a user id with a TTL. Consume
// is a single GETDEL, so a token can be redeemed at most once even under
// concurrent requests; redis owns both expiry and atomicity.
package resettokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/habbababbai/entertainment-tracker/internal/common"
)

const defaultPrefix = "reset"

type Store struct {
	redis  redis.UniversalClient
	prefix string
}

func NewStore(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{redis: client, prefix: prefix}
}

func (s *Store) key(token string) string {
	return s.prefix + ":" + token
}

// Save maps the token to the user id for ttl.
func (s *Store) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	if token == "" || userID == "" {
		return errors.New("token and user id must not be empty")
	}
	if err := s.redis.Set(ctx, s.key(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("reset store error: %w", err)
	}
	return nil
}

// Consume atomically retrieves and deletes the token, returning the user id
// it was issued for. An unknown or expired token yields common.ErrorNotFound.
func (s *Store) Consume(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", common.ErrorNotFound
	}

	userID, err := s.redis.GetDel(ctx, s.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("reset store error: %w", err)
	}

	return userID, nil
}
