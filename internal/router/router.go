package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/farm-labour-exchange/internal/config"
	"github.com/iliyamo/farm-labour-exchange/internal/handler"
	"github.com/iliyamo/farm-labour-exchange/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware. Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the token: the presented refresh token is revoked and
	// a new pair is issued.
	g.POST("/refresh", a.Refresh)
	// Logout does not require JWT middleware: the handler accepts either a
	// refresh_token body (ends that session) or a bearer token (ends all
	// sessions of the user), so it must also work for expired sessions.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("FARMER", "LABOUR"))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints: the job board
// and single-job detail. No JWT middleware runs here — the detail handler
// inspects the bearer itself so an authenticated labourer's first open of a
// job leaves a view notification while guests browse freely. The listing
// sits behind the Redis response cache when one is configured.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	e.GET("/v1/jobs", p.ListJobs, middleware.NewRedisCache(cacheCfg, rdb))
	// Detail is NOT cached: the view side effect must run on every request.
	e.GET("/v1/jobs/:id", p.GetJob)
}
