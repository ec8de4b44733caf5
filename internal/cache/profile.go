// Package cache provides a Redis-backed cache for assistant profiles.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/AssistantGo/internal/domain"
)

// ErrCacheMiss is returned when the profile is not cached.
var ErrCacheMiss = errors.New("cache miss")

// ProfileCache caches assistant profiles keyed by user ID. Cache failures
// are surfaced to the caller but are always safe to ignore; the database
// remains the source of truth.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewProfileCache creates a profile cache with the given TTL.
func NewProfileCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ProfileCache {
	return &ProfileCache{client: client, ttl: ttl, logger: logger}
}

func profileKey(userID uuid.UUID) string {
	return "assistant:profile:" + userID.String()
}

// Get fetches a cached profile. Returns ErrCacheMiss when absent.
func (c *ProfileCache) Get(ctx context.Context, userID uuid.UUID) (*domain.AssistantProfile, error) {
	data, err := c.client.Get(ctx, profileKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var profile domain.AssistantProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		// Corrupt entry: drop it and treat as a miss.
		c.client.Del(ctx, profileKey(userID))
		return nil, ErrCacheMiss
	}

	return &profile, nil
}

// Set stores a profile with the configured TTL.
func (c *ProfileCache) Set(ctx context.Context, profile *domain.AssistantProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}

	if err := c.client.Set(ctx, profileKey(profile.UserID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}

	return nil
}

// Invalidate removes a cached profile after an update or deletion.
func (c *ProfileCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if err := c.client.Del(ctx, profileKey(userID)).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to invalidate profile cache",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
	}
}
