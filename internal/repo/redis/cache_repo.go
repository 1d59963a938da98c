package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/gittyapp/backend/internal/domain/model"
)

const (
	profileCachePrefix     = "profile:"
	defaultProfileCacheTTL = 5 * time.Minute
)

// CacheRepo keeps serialized profile rows for a short time.
type CacheRepo struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewCacheRepo(client *goredis.Client, ttl time.Duration) *CacheRepo {
	if ttl <= 0 {
		ttl = defaultProfileCacheTTL
	}
	return &CacheRepo{client: client, ttl: ttl}
}

func (r *CacheRepo) GetProfile(ctx context.Context, id uuid.UUID) (model.Profile, bool, error) {
	if r.client == nil {
		return model.Profile{}, false, fmt.Errorf("redis client is nil")
	}

	raw, err := r.client.Get(ctx, profileCacheKey(id)).Bytes()
	if err == goredis.Nil {
		return model.Profile{}, false, nil
	}
	if err != nil {
		return model.Profile{}, false, fmt.Errorf("get cached profile: %w", err)
	}

	var profile model.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		_ = r.client.Del(ctx, profileCacheKey(id)).Err()
		return model.Profile{}, false, nil
	}
	return profile, true, nil
}

func (r *CacheRepo) SetProfile(ctx context.Context, profile model.Profile) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if profile.ID == uuid.Nil {
		return fmt.Errorf("profile id is required")
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := r.client.Set(ctx, profileCacheKey(profile.ID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("set cached profile: %w", err)
	}
	return nil
}

func (r *CacheRepo) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, profileCacheKey(id)).Err(); err != nil {
		return fmt.Errorf("delete cached profile: %w", err)
	}
	return nil
}

func profileCacheKey(id uuid.UUID) string {
	return profileCachePrefix + id.String()
}
