package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"rental-listings/internal/config"
	"rental-listings/internal/models"
)

const listingsKey = "homes:all"

// ListingCache keeps the listing grid in Redis
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListingCache connects to Redis and checks the connection
func NewListingCache(ctx context.Context, cfg config.CacheConfig) (*ListingCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return NewListingCacheFromClient(client, cfg.TTL()), nil
}

// NewListingCacheFromClient wraps an existing client
func NewListingCacheFromClient(client *redis.Client, ttl time.Duration) *ListingCache {
	return &ListingCache{client: client, ttl: ttl}
}

// GetListings returns the cached grid. ok is false on a cache miss.
func (c *ListingCache) GetListings(ctx context.Context) (listings []models.Listing, ok bool, err error) {
	data, err := c.client.Get(ctx, listingsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, false, err
	}
	return listings, true, nil
}

// SetListings replaces the cached grid
func (c *ListingCache) SetListings(ctx context.Context, listings []models.Listing) error {
	data, err := json.Marshal(listings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listingsKey, data, c.ttl).Err()
}

// Invalidate drops the cached grid
func (c *ListingCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, listingsKey).Err()
}

func (c *ListingCache) Close() error {
	return c.client.Close()
}
