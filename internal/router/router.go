// Package router wires the HTTP surface: middleware order, route groups and
// which handlers answer which paths.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/users-service/internal/config"
	"github.com/iliyamo/users-service/internal/handler"
	"github.com/iliyamo/users-service/internal/middleware"
	"github.com/iliyamo/users-service/internal/token"
)

// Register mounts all routes. Canonical paths carry a trailing slash; the
// pre-router slash middleware folds the bare form onto them so both resolve
// to the same handler.
func Register(
	e *echo.Echo,
	codec *token.Codec,
	auth *handler.AuthHandler,
	users *handler.UserHandler,
	health *handler.HealthHandler,
	rl config.RateLimitConfig,
	rdb *redis.Client,
) {
	e.Pre(echomw.AddTrailingSlash())

	api := e.Group("/api",
		middleware.ContentNegotiation(),
		middleware.RateLimit(rl, rdb),
	)

	api.GET("/health/", health.Check)

	api.POST("/auth/", auth.Register)
	api.POST("/auth/login/", auth.Login)
	api.POST("/auth/logout/", auth.Logout)
	api.POST("/auth/refresh/", auth.Refresh)

	authed := api.Group("", middleware.RequireAuth(codec))
	authed.GET("/auth/me/", auth.Me)
	authed.GET("/auth/by-role/:role/", auth.ByRole)

	authed.GET("/users/", users.List)
	authed.GET("/users/:id/", users.Get)
	authed.PATCH("/users/:id/", users.UpdateEmail)
	authed.DELETE("/users/:id/", users.Delete)
	authed.POST("/users/:id/deactivate/", users.Deactivate)
}
