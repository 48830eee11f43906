package routes

import (
	"fmt"
	"log/slog"

	"cyclesafe-be/controllers"
	"cyclesafe-be/middlewares"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Incidents *controllers.IncidentController
	Routes    *controllers.RouteController
	Auth      *controllers.AuthController
	Profiles  *controllers.ProfileController
	Health    *controllers.HealthController
}

type Options struct {
	Tokens      middlewares.TokenParser
	CORSOrigins []string
	MaxBodySize int64
	// TrustedProxies may set X-Forwarded-For. Empty means ClientIP is
	// always the peer address, so the header cannot move a limiter key.
	TrustedProxies []string
	// ReportLimiter guards POST /api/incidents. Nil turns rate limiting off.
	ReportLimiter gin.HandlerFunc
	Logger        *slog.Logger
}

// NewRouter builds the engine with the common middleware stack and every
// API route group.
func NewRouter(ctl Controllers, opts Options) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(
		gin.Recovery(),
		middlewares.RequestIDMiddleware(),
		middlewares.RequestLogger(opts.Logger),
		middlewares.CORS(opts.CORSOrigins),
		middlewares.MaxBodySize(opts.MaxBodySize),
	)

	r.GET("/ping", ctl.Health.Ping)
	r.GET("/healthz", ctl.Health.Healthz)

	requireAuth := middlewares.AuthMiddleware(opts.Tokens, opts.Logger)

	api := r.Group("/api")
	IncidentRoutes(api, ctl.Incidents, opts.ReportLimiter)
	RouteRoutes(api, ctl.Routes, requireAuth)
	AuthRoutes(api, ctl.Auth, requireAuth)
	ProfileRoutes(api, ctl.Profiles, requireAuth)

	return r, nil
}
