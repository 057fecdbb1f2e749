// Package cache implements the Redis-backed role cache and token blacklist.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/asidlare/todos/core/port/out"
	"github.com/asidlare/todos/pkg/logger"
)

// RoleCache caches (user, todolist) role names. Cache errors degrade to a
// miss; the resolver falls back to the store.
type RoleCache struct {
	client *redis.Client
}

// NewRoleCache creates a new RoleCache
func NewRoleCache(client *redis.Client) out.RoleCache {
	return &RoleCache{client: client}
}

func roleKey(userID, todolistID uuid.UUID) string {
	return fmt.Sprintf("role:%s:%s", todolistID, userID)
}

func (c *RoleCache) GetRole(ctx context.Context, userID, todolistID uuid.UUID) (string, bool) {
	val, err := c.client.Get(ctx, roleKey(userID, todolistID)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("role cache get: %v", err)
		}
		return "", false
	}
	return val, true
}

func (c *RoleCache) SetRole(ctx context.Context, userID, todolistID uuid.UUID, role string, ttl time.Duration) {
	if err := c.client.Set(ctx, roleKey(userID, todolistID), role, ttl).Err(); err != nil {
		logger.Warn("role cache set: %v", err)
	}
}

func (c *RoleCache) InvalidateTodoList(ctx context.Context, todolistID uuid.UUID) {
	pattern := fmt.Sprintf("role:%s:*", todolistID)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Warn("role cache scan: %v", err)
		return
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			logger.Warn("role cache invalidate: %v", err)
		}
	}
}

// TokenBlacklist tracks revoked JWT ids in Redis until natural expiry.
type TokenBlacklist struct {
	client *redis.Client
}

// NewTokenBlacklist creates a new TokenBlacklist
func NewTokenBlacklist(client *redis.Client) out.TokenBlacklist {
	return &TokenBlacklist{client: client}
}

func blacklistKey(tokenID string) string {
	return "revoked:" + tokenID
}

func (b *TokenBlacklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := b.client.Set(ctx, blacklistKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (b *TokenBlacklist) IsRevoked(ctx context.Context, tokenID string) bool {
	n, err := b.client.Exists(ctx, blacklistKey(tokenID)).Result()
	if err != nil {
		logger.Warn("blacklist check: %v", err)
		return false
	}
	return n > 0
}
