package handler

// health.go reports liveness plus dependency checks. The database is the
// only hard dependency: a Redis outage degrades rate limiting but the
// service keeps serving, so it never flips the status to 503.

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/users-service/internal/response"
)

type HealthHandler struct {
	DB    *sql.DB
	Redis *redis.Client
}

func NewHealthHandler(db *sql.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{DB: db, Redis: rdb}
}

// Check handles GET /api/health/.
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	code := http.StatusOK
	checks := map[string]string{}

	if h.DB == nil {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
		checks["database"] = "not configured"
	} else if err := h.DB.PingContext(ctx); err != nil {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
		checks["database"] = err.Error()
	} else {
		checks["database"] = "connected"
	}

	if h.Redis == nil {
		checks["redis"] = "disabled"
	} else if err := h.Redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = err.Error()
	} else {
		checks["redis"] = "connected"
	}

	return response.Success(c, code, map[string]any{
		"status":  status,
		"service": response.ServiceName,
		"checks":  checks,
	}, nil)
}
