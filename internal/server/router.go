package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"testapi/internal/tests"
	"testapi/pkg/api"
	"testapi/pkg/logger"
	"testapi/pkg/metrics"
	"testapi/pkg/middleware"
	"testapi/pkg/ratelimit"
)

// Pinger reports whether the datastore is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type Deps struct {
	BaseURL     string
	CORSOrigins []string
	Logger      *logger.Logger
	Limiter     *ratelimit.Limiter
	Metrics     *metrics.HTTP
	Tests       *tests.Handler
	DB          Pinger
}

// New wires the middleware chain and routes.
func New(d Deps) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(d.Logger),
		middleware.Logging(d.Logger),
	)
	if d.Metrics != nil {
		router.Use(d.Metrics.Middleware())
	}
	router.Use(
		middleware.CORS(d.CORSOrigins),
		middleware.SecureHeaders(),
		api.ErrorHandler(d.Logger),
		api.Recovery(),
		api.Envelope(),
	)

	router.GET("/healthz", api.Handle(health(d.DB)))
	if d.Metrics != nil {
		router.GET("/metrics", d.Metrics.Handler())
	}

	group := router.Group(d.BaseURL)
	if d.Limiter != nil {
		group.Use(middleware.RateLimit(d.Limiter, d.Logger))
	}
	d.Tests.Register(group)

	router.NoRoute(func(c *gin.Context) {
		api.From(c).NotFound()
	})
	return router
}

func health(db Pinger) api.HandlerFunc {
	return func(c *gin.Context, r *api.Responder) error {
		if db != nil {
			if err := db.Ping(c.Request.Context()); err != nil {
				return api.WrapError(http.StatusServiceUnavailable, err, "database unavailable")
			}
		}
		r.Read(gin.H{"status": "ok"})
		return nil
	}
}
