package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const attemptKeyPrefix = "login_attempts:"

// LoginAttemptStore tracks failed login attempts per account in Redis so the
// limit holds across instances. The counter expires with the rolling window.
type LoginAttemptStore struct {
	client *redis.Client
}

// NewLoginAttemptStore creates a new Redis-backed login attempt store.
func NewLoginAttemptStore(client *redis.Client) *LoginAttemptStore {
	return &LoginAttemptStore{client: client}
}

// RecordFailure increments the failure count for the email and returns the new
// count. The expiry is set on the first failure only, so the window is anchored
// to the first failed attempt.
func (s *LoginAttemptStore) RecordFailure(ctx context.Context, email string, window time.Duration) (int, error) {
	key := attemptKeyPrefix + email

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr login attempts: %w", err)
	}

	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, fmt.Errorf("redis expire login attempts: %w", err)
		}
	}

	return int(count), nil
}

// Failures returns the current failure count for the email, zero when the key
// is absent or expired.
func (s *LoginAttemptStore) Failures(ctx context.Context, email string) (int, error) {
	key := attemptKeyPrefix + email

	count, err := s.client.Get(ctx, key).Int()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get login attempts: %w", err)
	}

	return count, nil
}

// Reset clears the failure count after a successful login.
func (s *LoginAttemptStore) Reset(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, attemptKeyPrefix+email).Err(); err != nil {
		return fmt.Errorf("redis del login attempts: %w", err)
	}

	return nil
}
