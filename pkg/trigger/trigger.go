package trigger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/clinicconnect/clinicconnect-api/pkg/circuitbreaker"
	"github.com/clinicconnect/clinicconnect-api/pkg/httpclient"
	"github.com/clinicconnect/clinicconnect-api/pkg/logger"
	"github.com/clinicconnect/clinicconnect-api/pkg/metrics"
	"github.com/clinicconnect/clinicconnect-api/pkg/retry"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Trigger names used as metric labels
const (
	BookingConfirmed = "booking_confirmed"
	ContactMessage   = "contact_message"
)

const callTimeout = 30 * time.Second

// Caller posts domain events to configured webhook URLs. Each trigger name
// has its own circuit breaker so a dead endpoint stops being hammered.
type Caller struct {
	client httpclient.Client
	config retry.Config

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewCaller creates a trigger caller with webhook retry defaults
func NewCaller(client httpclient.Client) *Caller {
	c := &Caller{client: client, breakers: map[string]*gobreaker.CircuitBreaker{}}
	return c.WithRetryConfig(retry.WebhookConfig())
}

// WithRetryConfig overrides the retry policy. Calls refused by an open
// breaker are never retried.
func (c *Caller) WithRetryConfig(cfg retry.Config) *Caller {
	retryable := cfg.RetryableErrors
	cfg.RetryableErrors = func(err error) bool {
		if circuitbreaker.IsRejected(err) {
			return false
		}
		return retryable == nil || retryable(err)
	}
	c.config = cfg
	return c
}

func (c *Caller) breaker(name string) *gobreaker.CircuitBreaker {
	c.mu.Lock()
	defer c.mu.Unlock()

	cb, ok := c.breakers[name]
	if !ok {
		cfg := circuitbreaker.DefaultConfig("trigger:" + name)
		// Rejected payloads say nothing about the endpoint's health
		cfg.IsSuccessful = func(err error) bool { return err == nil || !retry.IsRetryable(err) }
		cb = circuitbreaker.NewCircuitBreaker(cfg)
		c.breakers[name] = cb
	}
	return cb
}

// CallAsync posts payload as JSON to triggerURL in the background.
// An empty URL is a no-op. Failures are logged but don't block the caller.
func (c *Caller) CallAsync(ctx context.Context, name, triggerURL string, payload any) {
	if triggerURL == "" {
		return
	}

	// Detach from the request lifetime but keep its trace
	bg := context.WithoutCancel(ctx)
	go func() {
		callCtx, cancel := context.WithTimeout(bg, callTimeout)
		defer cancel()
		//nolint:errcheck // Result is logged and counted inside Call
		_ = c.Call(callCtx, name, triggerURL, payload)
	}()
}

// Call posts payload synchronously with retries
func (c *Caller) Call(ctx context.Context, name, triggerURL string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		metrics.TriggerCalls.WithLabelValues(name, "error").Inc()
		return fmt.Errorf("failed to encode %s payload: %w", name, err)
	}

	logger.Debug("Calling trigger URL",
		zap.String("trigger", name),
		zap.String("url", triggerURL))

	cb := c.breaker(name)
	start := time.Now()
	err = retry.Do(ctx, c.config, "trigger:"+name, func() error {
		_, err := circuitbreaker.Execute(cb, func() (struct{}, error) {
			return struct{}{}, c.post(ctx, triggerURL, body)
		})
		return err
	})
	duration := metrics.MeasureDuration(start)
	if err != nil {
		metrics.TriggerCalls.WithLabelValues(name, "error").Inc()
		logger.LogAPICall("trigger", name, "error", duration,
			zap.String("url", triggerURL),
			zap.Error(err))
		return err
	}

	metrics.TriggerCalls.WithLabelValues(name, "success").Inc()
	logger.LogAPICall("trigger", name, "success", duration, zap.String("url", triggerURL))
	return nil
}

func (c *Caller) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build trigger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck // Drain for connection reuse

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &retry.StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}
