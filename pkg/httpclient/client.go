package httpclient

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// DefaultTimeout bounds every outbound call made through StandardHTTPClient
const DefaultTimeout = 10 * time.Second

// Client defines an interface for making HTTP requests
// This allows for easy mocking and testing of HTTP calls
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

// StandardHTTPClient wraps the standard http.Client
type StandardHTTPClient struct {
	client *http.Client
}

// NewStandardClient creates a new HTTP client. A zero timeout selects DefaultTimeout.
func NewStandardClient(timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &StandardHTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Do executes an HTTP request, propagating the trace context of req
func (c *StandardHTTPClient) Do(req *http.Request) (*http.Response, error) {
	InjectTraceContext(req.Context(), req.Header)
	return c.client.Do(req)
}

// InjectTraceContext writes W3C trace headers for the span in ctx
func InjectTraceContext(ctx context.Context, header http.Header) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(header))
}
