package api

import (
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"testapi/pkg/logger"
)

// HandlerFunc is a route handler that reports unexpected failures by
// returning them. Expected outcomes are written through the Responder.
type HandlerFunc func(c *gin.Context, r *Responder) error

// Handle adapts fn to gin, forwarding a returned error to ErrorHandler.
func Handle(fn HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := fn(c, From(c)); err != nil {
			_ = c.Error(err)
			c.Abort()
		}
	}
}

// ErrorHandler is the terminal stage: once the chain has run it logs the last
// error pushed onto the context and writes its ErrorEnvelope.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}
		report(c, log, last.Err)
	}
}

// Recovery turns a handler panic into a 500 that ErrorHandler reports.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		_ = c.Error(WrapError(0, fmt.Errorf("panic: %v", rec), ""))
		c.Abort()
	})
}

func report(c *gin.Context, log *logger.Logger, err error) {
	env := Normalize(err)

	ctx := c.Request.Context()
	ctx = log.WithFields(ctx, map[string]any{
		"status": env.StatusCode,
		"route":  c.FullPath(),
	})
	log.Error(ctx, "request.error", err)

	if c.Writer.Written() {
		return
	}
	c.AbortWithStatusJSON(env.StatusCode, env)
}
