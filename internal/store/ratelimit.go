package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

type onboardRateLimitStore struct {
	client      *redis.Client
	maxAttempts int
}

func NewOnboardRateLimitStore(client *redis.Client, maxAttempts int) RateLimitStore {
	return &onboardRateLimitStore{
		client:      client,
		maxAttempts: maxAttempts,
	}
}

func attemptKey(chatID int64) string {
	return fmt.Sprintf("onboard:attempts:%d", chatID)
}

// IsLimited reports whether the chat has met or exceeded the onboarding
// attempt threshold within the current window. The counter itself is
// incremented by the worker on failed attempts; the window is the key's TTL.
func (s *onboardRateLimitStore) IsLimited(ctx context.Context, chatID int64) (bool, error) {
	val, err := s.client.Get(ctx, attemptKey(chatID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("reading attempt counter: %w", err)
	}

	attempts, err := strconv.Atoi(val)
	if err != nil {
		return false, fmt.Errorf("parsing attempt counter %q: %w", val, err)
	}
	return attempts >= s.maxAttempts, nil
}

func (s *onboardRateLimitStore) Status(ctx context.Context, chatID int64) (AttemptStatus, error) {
	key := attemptKey(chatID)

	pipe := s.client.Pipeline()
	getCmd := pipe.Get(ctx, key)
	ttlCmd := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return AttemptStatus{}, fmt.Errorf("reading attempt status: %w", err)
	}

	status := AttemptStatus{}
	if val, err := getCmd.Result(); err == nil {
		if attempts, err := strconv.Atoi(val); err == nil {
			status.Attempts = attempts
		}
	}
	if ttl, err := ttlCmd.Result(); err == nil && ttl > 0 {
		status.ResetIn = ttl
	}
	return status, nil
}
