// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yomira-forum/internal/platform/apperr"
	"github.com/taibuivan/yomira-forum/internal/platform/constants"
)

// RedisSessionRepository implements [SessionRepository] using Redis.
type RedisSessionRepository struct {
	client redis.Cmdable
}

// NewSessionRepository creates a new Redis-backed [SessionRepository].
func NewSessionRepository(client redis.Cmdable) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func sessionKey(tokenHash string) string {
	return constants.RedisPrefixSession + tokenHash
}

// Create stores the session with its TTL.
func (repository *RedisSessionRepository) Create(context context.Context, tokenHash, userID string, ttl time.Duration) error {
	if err := repository.client.Set(context, sessionKey(tokenHash), userID, ttl).Err(); err != nil {
		return apperr.Internal(fmt.Errorf("redis_session_set_failed: %w", err))
	}
	return nil
}

/*
Find resolves a session hash to its user id.

Returns:
  - string: The owning user id
  - error: apperr.NotFound if absent or expired, apperr.Internal on connectivity errors
*/
func (repository *RedisSessionRepository) Find(context context.Context, tokenHash string) (string, error) {
	userID, err := repository.client.Get(context, sessionKey(tokenHash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Session")
		}
		return "", apperr.Internal(fmt.Errorf("redis_session_get_failed: %w", err))
	}
	return userID, nil
}

// Delete removes the session.
func (repository *RedisSessionRepository) Delete(context context.Context, tokenHash string) error {
	if err := repository.client.Del(context, sessionKey(tokenHash)).Err(); err != nil {
		return apperr.Internal(fmt.Errorf("redis_session_delete_failed: %w", err))
	}
	return nil
}
