package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/clinicconnect/clinicconnect-api/pkg/logger"
	"github.com/clinicconnect/clinicconnect-api/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// sensitiveQueryParams are redacted from logs
var sensitiveQueryParams = map[string]bool{
	"token": true, "password": true, "secret": true, "key": true,
	"email": true, "phone": true,
}

// ObservabilityMiddleware instruments HTTP requests with metrics and logging
func ObservabilityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		metrics.ActiveRequests.WithLabelValues(method).Inc()
		defer metrics.ActiveRequests.WithLabelValues(method).Dec()

		c.Next()

		// Route template keeps visit IDs out of the label set
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		duration := metrics.MeasureDuration(start)
		status := c.Writer.Status()
		statusStr := strconv.Itoa(status)

		metrics.HTTPRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration)
		metrics.HTTPRequestTotal.WithLabelValues(method, path, statusStr).Inc()

		fields := []zap.Field{
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Int("response_size", c.Writer.Size()),
		}
		if visitID := c.Param("visitId"); visitID != "" {
			fields = append(fields, zap.String("visit_id", visitID))
		}
		if status >= 400 {
			fields = append(fields, failureFields(c)...)
		}

		logger.LogHTTPRequest(c.Request.Context(), method, c.Request.URL.Path, status, duration, fields...)
	}
}

// failureFields describes a rejected request: route params, sanitized query
// and the errors attached by the handler
func failureFields(c *gin.Context) []zap.Field {
	var fields []zap.Field

	if len(c.Params) > 0 {
		params := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}
		fields = append(fields, zap.Any("route_params", params))
	}

	if query := c.Request.URL.Query(); len(query) > 0 {
		sanitized := make(map[string]string, len(query))
		for k, v := range query {
			if !sensitiveQueryParams[strings.ToLower(k)] && len(v) > 0 {
				sanitized[k] = v[0]
			}
		}
		if len(sanitized) > 0 {
			fields = append(fields, zap.Any("query_params", sanitized))
		}
	}

	if len(c.Errors) > 0 {
		fields = append(fields, zap.String("error", c.Errors.String()))
	}
	return fields
}
