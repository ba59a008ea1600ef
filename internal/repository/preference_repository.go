package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const (
	preferenceKeyPrefix = "prefs:theme:"
	preferenceTTL       = 365 * 24 * time.Hour
)

// MemoryPreferenceStore keeps preferences in process memory
type MemoryPreferenceStore struct {
	cache *gocache.Cache
}

// NewMemoryPreferenceStore creates an in-memory preference store
func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{cache: gocache.New(preferenceTTL, time.Hour)}
}

func (s *MemoryPreferenceStore) GetDarkMode(ctx context.Context, clientID string) (bool, bool, error) {
	v, found := s.cache.Get(preferenceKeyPrefix + clientID)
	if !found {
		return false, false, nil
	}
	dark, ok := v.(bool)
	if !ok {
		return false, false, fmt.Errorf("invalid preference value for %s", clientID)
	}
	return dark, true, nil
}

func (s *MemoryPreferenceStore) SetDarkMode(ctx context.Context, clientID string, darkMode bool) error {
	s.cache.SetDefault(preferenceKeyPrefix+clientID, darkMode)
	return nil
}

// RedisPreferenceStore keeps preferences in Redis so they survive restarts
// and are shared between replicas
type RedisPreferenceStore struct {
	client *redis.Client
}

// NewRedisPreferenceStore creates a Redis-backed preference store
func NewRedisPreferenceStore(client *redis.Client) *RedisPreferenceStore {
	return &RedisPreferenceStore{client: client}
}

func (s *RedisPreferenceStore) GetDarkMode(ctx context.Context, clientID string) (bool, bool, error) {
	v, err := s.client.Get(ctx, preferenceKeyPrefix+clientID).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("failed to read preference: %w", err)
	}

	switch strings.TrimSpace(v) {
	case "1":
		return true, true, nil
	case "0":
		return false, true, nil
	default:
		return false, false, fmt.Errorf("invalid preference value %q for %s", v, clientID)
	}
}

func (s *RedisPreferenceStore) SetDarkMode(ctx context.Context, clientID string, darkMode bool) error {
	value := "0"
	if darkMode {
		value = "1"
	}
	if err := s.client.Set(ctx, preferenceKeyPrefix+clientID, value, preferenceTTL).Err(); err != nil {
		return fmt.Errorf("failed to store preference: %w", err)
	}
	return nil
}
