package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrTokenUnknown indicates an expired or never-issued verification
// token.
var ErrTokenUnknown = errors.New("verification token unknown or expired")

const verificationKeyPrefix = "verify:"

// VerificationStore keeps one-shot email verification tokens in Redis
// with a TTL. Tokens map to the user id awaiting verification.
type VerificationStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewVerificationStore builds the store.
func NewVerificationStore(client *redis.Client, ttl time.Duration) *VerificationStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &VerificationStore{client: client, ttl: ttl}
}

// Issue creates a fresh token for the user.
func (s *VerificationStore) Issue(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	key := verificationKeyPrefix + token
	if err := s.client.Set(ctx, key, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store verification token: %w", err)
	}
	return token, nil
}

// Consume resolves and deletes a token, returning the user id it was
// issued for. A token can be consumed at most once.
func (s *VerificationStore) Consume(ctx context.Context, token string) (string, error) {
	key := verificationKeyPrefix + token
	userID, err := s.client.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenUnknown
	}
	if err != nil {
		return "", fmt.Errorf("consume verification token: %w", err)
	}
	return userID, nil
}
