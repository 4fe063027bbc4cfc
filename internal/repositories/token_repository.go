package repositories

import (
	"context"
	"errors"
	"expenselit-ai/config"
	"expenselit-ai/pkg/redis"
	"fmt"
	"time"
)

type TokenRepository interface {
	StoreRefreshToken(userID string, refreshToken string) error
	ValidateRefreshToken(userID string, refreshToken string) bool
	DeleteRefreshToken(userID string, refreshToken string) error
	BlacklistToken(token string, expiresAt time.Duration) error
	IsTokenBlacklisted(token string) bool
}

type tokenRepository struct {
	redis redis.IRedisRepositories
}

func NewTokenRepository(redis redis.IRedisRepositories) TokenRepository {
	return &tokenRepository{
		redis: redis,
	}
}

func (r *tokenRepository) StoreRefreshToken(userID string, refreshToken string) error {
	key := fmt.Sprintf("refresh_token:%s:%s", userID, refreshToken)
	expirationDuration := time.Duration(config.Env.JWTRefreshExpirationMilliseconds) * time.Millisecond

	err := r.redis.Set(key, []byte("valid"), expirationDuration, context.Background())
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (r *tokenRepository) ValidateRefreshToken(userID string, refreshToken string) bool {
	key := fmt.Sprintf("refresh_token:%s:%s", userID, refreshToken)

	value, err := r.redis.Get(key, context.Background())
	if err != nil {
		return false
	}
	return value == "valid"
}

func (r *tokenRepository) DeleteRefreshToken(userID string, refreshToken string) error {
	key := fmt.Sprintf("refresh_token:%s:%s", userID, refreshToken)

	_, err := r.redis.Get(key, context.Background())
	if err != nil {
		return errors.New("refresh token not found")
	}

	err = r.redis.Del(key, context.Background())
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

func (r *tokenRepository) BlacklistToken(token string, expiresAt time.Duration) error {
	key := fmt.Sprintf("blacklist:%s", token)

	err := r.redis.Set(key, []byte("blacklisted"), expiresAt, context.Background())
	if err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

func (r *tokenRepository) IsTokenBlacklisted(token string) bool {
	key := fmt.Sprintf("blacklist:%s", token)
	value, err := r.redis.Get(key, context.Background())
	if err != nil {
		return false
	}
	return value == "blacklisted"
}
