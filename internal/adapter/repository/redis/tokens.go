package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore implements usecase.TokenStore using Redis. Refresh tokens are
// valid only while their ID is present here, so revocation is a delete.
type TokenStore struct {
	client *redis.Client
	prefix string
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{
		client: client,
		prefix: "refresh:",
	}
}

// Save registers a refresh token ID for a user.
func (s *TokenStore) Save(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+tokenID, userID, ttl).Err()
}

// Get returns the user ID a token belongs to, or "" when the token is
// unknown or revoked.
func (s *TokenStore) Get(ctx context.Context, tokenID string) (string, error) {
	userID, err := s.client.Get(ctx, s.prefix+tokenID).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return userID, nil
}

// Delete revokes a refresh token.
func (s *TokenStore) Delete(ctx context.Context, tokenID string) error {
	return s.client.Del(ctx, s.prefix+tokenID).Err()
}
