// Package handler holds the HTTP endpoints. Handlers bind and validate the
// request, call the service layer, and shape the envelope; every failure is
// returned as an error for the central handler to map.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/users-service/internal/middleware"
	"github.com/iliyamo/users-service/internal/response"
	"github.com/iliyamo/users-service/internal/service"
	"github.com/iliyamo/users-service/internal/utils"
)

const requestTimeout = 5 * time.Second

// AuthHandler serves registration and the session lifecycle. Tokens travel
// exclusively in HttpOnly cookies; response bodies never carry them.
type AuthHandler struct {
	auth   *service.AuthService
	secure bool
}

func NewAuthHandler(auth *service.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{auth: auth, secure: secureCookies}
}

// Register handles POST /api/auth/. Success is 201 with the new resource, a
// Location header and a fresh session in cookies.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return err
	}
	if verr := req.Validate(); verr != nil {
		return verr
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	res, err := h.auth.Register(ctx, req.Email, req.Username, req.Password)
	if err != nil {
		return err
	}

	utils.AttachAuthCookies(c, res.Tokens, h.secure)
	c.Response().Header().Set(echo.HeaderLocation, "/api/users/"+res.User.ID+"/")
	return response.Success(c, http.StatusCreated, response.UserResource(res.User), response.Meta{
		"message": "User registered successfully.",
	})
}

// Login handles POST /api/auth/login/. All authentication failures surface
// as the same 401 so callers cannot probe which emails exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return err
	}
	if verr := req.Validate(); verr != nil {
		return verr
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	res, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	utils.AttachAuthCookies(c, res.Tokens, h.secure)
	return response.Success(c, http.StatusOK, response.UserResource(res.User), response.Meta{
		"message": "Login successful.",
	})
}

// Logout handles POST /api/auth/logout/. It clears the session cookies and
// is deliberately idempotent: no cookies, already-cleared cookies and a live
// session all produce the same 200.
func (h *AuthHandler) Logout(c echo.Context) error {
	utils.ClearAuthCookies(c, h.secure)
	return response.Success(c, http.StatusOK, nil, response.Meta{
		"message": "Session closed successfully.",
	})
}

// Refresh handles POST /api/auth/refresh/. The refresh token is read from
// its cookie only, never from the body or headers. An invalid or expired
// token clears both cookies so clients fall back to a clean signed-out state.
func (h *AuthHandler) Refresh(c echo.Context) error {
	raw, ok := utils.ReadCookie(c, utils.RefreshCookie)
	if !ok {
		return response.Errors(c, http.StatusUnauthorized,
			map[string]string{"WWW-Authenticate": "Bearer"},
			response.ErrorObject{
				Status: "401",
				Code:   "refresh_token_missing",
				Title:  "Unauthorized",
				Detail: "Refresh token not found in cookies.",
			})
	}

	pair, err := h.auth.Refresh(raw)
	if err != nil {
		utils.ClearAuthCookies(c, h.secure)
		return response.Errors(c, http.StatusUnauthorized,
			map[string]string{"WWW-Authenticate": "Bearer"},
			response.ErrorObject{
				Status: "401",
				Code:   "refresh_token_invalid",
				Title:  "Unauthorized",
				Detail: "Refresh token is invalid or expired.",
			})
	}

	utils.AttachAuthCookies(c, pair, h.secure)
	return response.Success(c, http.StatusOK, nil, response.Meta{
		"message": "Token refreshed successfully.",
	})
}

// Me handles GET /api/auth/me/ and returns the authenticated user's own
// record, resolved from the verified access token.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, _ := c.Get(middleware.CtxUserID).(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.auth.Get(ctx, userID)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, response.UserResource(u), nil)
}

// ByRole handles GET /api/auth/by-role/:role/. Unknown roles are a 422; a
// valid role with no members is an empty collection.
func (h *AuthHandler) ByRole(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	users, err := h.auth.GetByRole(ctx, c.Param("role"))
	if err != nil {
		return err
	}

	resources := make([]response.Resource, 0, len(users))
	for _, u := range users {
		resources = append(resources, response.UserResource(u))
	}
	return response.Collection(c, http.StatusOK, resources, nil)
}
