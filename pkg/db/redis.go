package db

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicconnect/clinicconnect-api/pkg/logger"
	"github.com/clinicconnect/clinicconnect-api/pkg/retry"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisConfig contains Redis connection parameters
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient creates a Redis client and verifies it with PING.
//
// Connection pool configuration:
//   - PoolSize: 10 connections
//   - MinIdleConns: 2
//   - ConnMaxIdleTime: 30m
//   - Dial/Read/Write timeouts: 5s/3s/3s
//
// The ping is retried with retry.RedisConfig so the service tolerates Redis
// starting slightly after it.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:            cfg.Addr,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        10,
		MinIdleConns:    2,
		ConnMaxIdleTime: 30 * time.Minute,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
	})

	err := retry.Do(ctx, retry.RedisConfig(), "redis_ping", func() error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		_ = client.Close() //nolint:errcheck // Already failing
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("Connected to Redis", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return client, nil
}

// Close gracefully closes the client
func Close(client *redis.Client) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		logger.Warn("Failed to close redis client", zap.Error(err))
	}
}
