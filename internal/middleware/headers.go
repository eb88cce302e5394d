package middleware

// headers.go propagates the request id and stamps the standard response
// headers. The id is read from the inbound X-Request-ID header or generated,
// stored on the request-scoped echo context for the envelope builders, and
// echoed back on every response.

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/users-service/internal/response"
)

// RequestHeaders returns the middleware stamping trace and security headers:
//
//	X-Request-ID            on all responses
//	X-Content-Type-Options  nosniff, on all responses
//	Cache-Control / Vary    on /api/ routes only (API responses carry user
//	                        data and must not be cached; Vary covers the
//	                        content-negotiation-relevant headers)
func RequestHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get("X-Request-ID")
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Set(response.RequestIDKey, rid)

			h := c.Response().Header()
			h.Set("X-Request-ID", rid)
			h.Set("X-Content-Type-Options", "nosniff")
			if strings.HasPrefix(c.Request().URL.Path, "/api/") {
				h.Set("Cache-Control", "no-store, no-cache, must-revalidate")
				h.Set("Vary", "Accept, Authorization, Cookie")
			}
			return next(c)
		}
	}
}
