package repository

import (
	"context"
	"fmt"
	"strings"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const subscribersKey = "newsletter:subscribers"

// MemorySubscriberStore keeps newsletter subscribers in process memory
type MemorySubscriberStore struct {
	cache *gocache.Cache
}

// NewMemorySubscriberStore creates an in-memory subscriber set
func NewMemorySubscriberStore() *MemorySubscriberStore {
	return &MemorySubscriberStore{cache: gocache.New(gocache.NoExpiration, 0)}
}

func (s *MemorySubscriberStore) Add(ctx context.Context, email string) (bool, error) {
	// Add fails when the key exists, which makes it a set-if-absent
	if err := s.cache.Add(normalizeEmail(email), struct{}{}, gocache.NoExpiration); err != nil {
		return false, nil //nolint:nilerr // Duplicate is not a failure
	}
	return true, nil
}

func (s *MemorySubscriberStore) Count(ctx context.Context) (int, error) {
	return s.cache.ItemCount(), nil
}

// RedisSubscriberStore keeps subscribers in a Redis set
type RedisSubscriberStore struct {
	client *redis.Client
}

// NewRedisSubscriberStore creates a Redis-backed subscriber set
func NewRedisSubscriberStore(client *redis.Client) *RedisSubscriberStore {
	return &RedisSubscriberStore{client: client}
}

func (s *RedisSubscriberStore) Add(ctx context.Context, email string) (bool, error) {
	n, err := s.client.SAdd(ctx, subscribersKey, normalizeEmail(email)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to add subscriber: %w", err)
	}
	return n == 1, nil
}

func (s *RedisSubscriberStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, subscribersKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return int(n), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var (
	_ PreferenceStore = (*MemoryPreferenceStore)(nil)
	_ PreferenceStore = (*RedisPreferenceStore)(nil)
	_ SubscriberStore = (*MemorySubscriberStore)(nil)
	_ SubscriberStore = (*RedisSubscriberStore)(nil)
)
