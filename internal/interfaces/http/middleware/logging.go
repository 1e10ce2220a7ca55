// Package middleware holds the gin middleware shared by all API routes.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harborwise/fleetsurvey/internal/infrastructure/monitoring/logging"
)

// RequestIDHeader carries the request correlation id.
const RequestIDHeader = "X-Request-ID"

// requestMetrics is the subset of the metrics collector the middleware
// needs.
type requestMetrics interface {
	ObserveHTTPRequest(method, route, status string, duration time.Duration)
}

// RequestID assigns a correlation id when the client did not send one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// Logging logs one line per request and feeds the HTTP metrics.  metrics
// may be nil.
func Logging(logger logging.Logger, metrics requestMetrics) gin.HandlerFunc {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", status),
			logging.Duration("duration", duration),
			logging.String("request_id", c.GetString("request_id")),
		}
		switch {
		case status >= 500:
			logger.Error("request failed", fields...)
		case status >= 400:
			logger.Warn("request rejected", fields...)
		default:
			logger.Info("request served", fields...)
		}

		if metrics != nil {
			metrics.ObserveHTTPRequest(c.Request.Method, route, strconv.Itoa(status), duration)
		}
	}
}

// Recovery turns panics into 500 responses with a logged stack.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.Named("http")
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					logging.Any("panic", r),
					logging.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(500, gin.H{"success": false, "error": gin.H{
					"code": "COMMON_001", "message": "internal server error",
				}})
			}
		}()
		c.Next()
	}
}
