package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"testapi/pkg/api"
	"testapi/pkg/logger"
	"testapi/pkg/ratelimit"
)

const tooManyRequestsMessage = "Too many requests, please try again later."

// RateLimit enforces the limiter per client IP and advertises the budget with
// the RateLimit-* headers. Store failures go to the error handler.
func RateLimit(limiter *ratelimit.Limiter, logg *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		d, err := limiter.Allow(c.Request.Context(), ip)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		reset := ceilSeconds(d.ResetAfter)
		h := c.Writer.Header()
		h.Set("RateLimit-Policy", limiter.Policy())
		h.Set("RateLimit-Limit", strconv.Itoa(d.Limit))
		h.Set("RateLimit-Remaining", strconv.Itoa(d.Remaining))
		h.Set("RateLimit-Reset", strconv.FormatInt(reset, 10))

		if !d.Allowed {
			h.Set("Retry-After", strconv.FormatInt(reset, 10))
			ctx := logg.WithFields(c.Request.Context(), map[string]any{
				"client_ip": ip,
				"limit":     d.Limit,
			})
			logg.Warn(ctx, "rate_limit.blocked")
			api.From(c).Fail(http.StatusTooManyRequests, tooManyRequestsMessage)
			c.Abort()
			return
		}
		c.Next()
	}
}

func ceilSeconds(d time.Duration) int64 {
	return int64(math.Ceil(d.Seconds()))
}
