package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/clinicconnect/clinicconnect-api/pkg/logger"
	"go.uber.org/zap"
)

// Config holds retry configuration
type Config struct {
	// MaxRetries is the maximum number of retry attempts
	MaxRetries int
	// InitialDelay is the delay before the first retry
	InitialDelay time.Duration
	// MaxDelay is the maximum delay between retries
	MaxDelay time.Duration
	// Multiplier is the factor by which delay increases
	Multiplier float64
	// Jitter adds randomness to delays to prevent thundering herd
	Jitter bool
	// RetryableErrors is a function to determine if an error should be retried
	RetryableErrors func(error) bool
}

// DefaultConfig returns sensible retry defaults
func DefaultConfig() Config {
	return Config{
		MaxRetries:   3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
		RetryableErrors: func(err error) bool {
			return !errors.Is(err, context.Canceled)
		},
	}
}

// WebhookConfig returns retry config for outbound event triggers.
// Client errors (4xx) are not retried.
func WebhookConfig() Config {
	config := DefaultConfig()
	config.MaxRetries = 3
	config.InitialDelay = 250 * time.Millisecond
	config.MaxDelay = 4 * time.Second
	config.RetryableErrors = IsRetryable
	return config
}

// CatalogConfig returns retry config for the initial catalog load
func CatalogConfig() Config {
	config := DefaultConfig()
	config.MaxRetries = 2
	config.InitialDelay = 2 * time.Second
	config.MaxDelay = 4 * time.Second
	config.Jitter = false
	return config
}

// RedisConfig returns retry config for connecting to the preference store
func RedisConfig() Config {
	config := DefaultConfig()
	config.MaxRetries = 5
	config.InitialDelay = 200 * time.Millisecond
	config.MaxDelay = 3 * time.Second
	return config
}

// Do executes the function with retry logic
func Do(ctx context.Context, config Config, operation string, fn func() error) error {
	_, err := DoWithResult(ctx, config, operation, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithResult executes the function with retry logic and returns a result
func DoWithResult[T any](ctx context.Context, config Config, operation string, fn func() (T, error)) (T, error) {
	var result T
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		// Execute the operation
		res, err := fn()
		if err == nil {
			// Success
			if attempt > 0 {
				logger.Info("Operation succeeded after retry",
					zap.String("operation", operation),
					zap.Int("attempt", attempt))
			}
			return res, nil
		}

		lastErr = err

		// Check if error is retryable
		if !config.RetryableErrors(err) {
			logger.Warn("Non-retryable error encountered",
				zap.String("operation", operation),
				zap.Error(err))
			return result, err
		}

		// Don't sleep after the last attempt
		if attempt == config.MaxRetries {
			break
		}

		// Calculate delay with exponential backoff
		delay := calculateDelay(attempt, config)

		logger.Warn("Operation failed, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", config.MaxRetries),
			zap.Duration("delay", delay),
			zap.Error(err))

		// Wait before retrying
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(delay):
		}
	}

	logger.Error("Operation failed after all retries",
		zap.String("operation", operation),
		zap.Int("max_retries", config.MaxRetries),
		zap.Error(lastErr))

	return result, fmt.Errorf("operation failed after %d retries: %w", config.MaxRetries, lastErr)
}

// calculateDelay calculates the delay for the next retry using exponential backoff
func calculateDelay(attempt int, config Config) time.Duration {
	// Calculate exponential delay: initialDelay * (multiplier ^ attempt)
	delay := float64(config.InitialDelay) * math.Pow(config.Multiplier, float64(attempt))

	// Cap at max delay
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}

	// Add jitter if enabled (+/-25% randomness)
	if config.Jitter {
		jitterRange := delay * 0.25
		//nolint:gosec // G404: math/rand is sufficient for retry jitter, crypto/rand not needed
		jitter := (rand.Float64() * 2 * jitterRange) - jitterRange
		delay += jitter
	}

	return time.Duration(delay)
}

// StatusError reports a non-2xx response from a remote endpoint
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.StatusCode)
}

// IsRetryable reports whether err is worth another attempt.
// Cancellation and 4xx responses (except 408 and 429) are final.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		code := statusErr.StatusCode
		if code == 408 || code == 429 {
			return true
		}
		return code >= 500
	}

	return true
}
