package profile

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"amlgate/internal/domain"
)

// Cache keeps recently read profiles close to the handlers so repeated
// lookups skip the database. Purely an accelerator: implementations degrade
// to a no-op result on cache trouble, and the service falls through to the
// store on every miss.
type Cache interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Profile, bool)
	Set(ctx context.Context, profile *domain.Profile)
	Invalidate(ctx context.Context, id uuid.UUID)
}

// RedisCache stores whole profiles in Redis, TTL-bound so a copy that was
// changed behind the service's back ages out.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisCache) key(profileID uuid.UUID) string {
	return "profile:" + profileID.String()
}

// Get returns the cached profile, reporting a miss on any error.
func (c *RedisCache) Get(ctx context.Context, id uuid.UUID) (*domain.Profile, bool) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var profile domain.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, false
	}
	return &profile, true
}

// Set stores the profile; failures are logged and ignored.
func (c *RedisCache) Set(ctx context.Context, profile *domain.Profile) {
	if profile == nil {
		return
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		if c.logger != nil {
			c.logger.WarnContext(ctx, "profile cache encode failed", "profile_id", profile.ID, "error", err)
		}
		return
	}
	if err := c.client.Set(ctx, c.key(profile.ID), raw, c.ttl).Err(); err != nil && c.logger != nil {
		c.logger.WarnContext(ctx, "profile cache set failed", "profile_id", profile.ID, "error", err)
	}
}

// Invalidate drops the cached profile.
func (c *RedisCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil && c.logger != nil {
		c.logger.WarnContext(ctx, "profile cache invalidate failed", "profile_id", id, "error", err)
	}
}
