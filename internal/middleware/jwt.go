package middleware

// jwt.go guards protected routes. The access token is read from the
// access_token cookie (the primary transport) or a Bearer Authorization
// header, verified through the credential codec, and its subject and role
// claims are injected into the request context for handlers.

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/users-service/internal/response"
	"github.com/iliyamo/users-service/internal/token"
	"github.com/iliyamo/users-service/internal/utils"
)

// Context keys populated on successful authentication.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// RequireAuth returns middleware that rejects requests without a valid
// access token. Refresh tokens are never accepted here; the codec enforces
// the kind claim.
func RequireAuth(codec *token.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := utils.ReadCookie(c, utils.AccessCookie)
			if !ok {
				if auth := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
					raw = strings.TrimPrefix(auth, "Bearer ")
					ok = raw != ""
				}
			}
			if !ok {
				return &response.AuthError{
					Code:   "not_authenticated",
					Detail: "Authentication credentials were not provided.",
				}
			}

			cl, err := codec.Verify(raw, token.KindAccess)
			if err != nil {
				return &response.AuthError{
					Code:   "authentication_failed",
					Detail: "Authentication credentials are invalid or expired.",
				}
			}

			c.Set(CtxUserID, cl.UserID)
			c.Set(CtxRole, string(cl.Role))
			return next(c)
		}
	}
}
