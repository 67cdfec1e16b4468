package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"testapi/pkg/logger"
)

const RequestIDHeader = "X-Request-Id"

// RequestID propagates or assigns a request id and scopes the logger to it.
func RequestID(logg *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)

		ctx := logg.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Logging writes one access log line per request.
func Logging(logg *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := logg.WithFields(c.Request.Context(), map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"client_ip":   c.ClientIP(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		logg.Info(ctx, "request.complete")
	}
}
