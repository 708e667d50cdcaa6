// Copyright (c) 2026 Concert Companion. All rights reserved.

package spotify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/landonnguyen77/Concert-Companion/internal/platform/constants"
)

// Latch guards a Spotify authorization code against concurrent reuse.
type Latch interface {
	// Acquire claims the code. It returns false when another request
	// already holds it.
	Acquire(ctx context.Context, code string) (bool, error)
}

// RedisLatch implements [Latch] with a SETNX key per authorization code.
//
// Spotify codes are single-use upstream, but a browser double-submit or a
// retried callback can race two exchanges of the same code. The first request
// to set the key wins; the loser gets a conflict instead of a confusing
// upstream "invalid_grant".
type RedisLatch struct {
	client *redis.Client
}

// NewRedisLatch constructs a latch backed by the given Redis client.
func NewRedisLatch(client *redis.Client) *RedisLatch {
	return &RedisLatch{client: client}
}

// Acquire claims the authorization code for the lifetime of the latch TTL.
// Codes are hashed before use as keys so raw OAuth material never lands in
// Redis.
func (latch *RedisLatch) Acquire(ctx context.Context, code string) (bool, error) {
	digest := sha256.Sum256([]byte(code))
	key := constants.RedisPrefixAuthCodeLatch + hex.EncodeToString(digest[:])

	acquired, err := latch.client.SetNX(ctx, key, "1", constants.AuthCodeLatchTTL).Result()
	if err != nil {
		return false, fmt.Errorf("spotify: latch acquire failed: %w", err)
	}

	return acquired, nil
}
