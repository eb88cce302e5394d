package handler

// user.go serves the administrative user collection: listing, lookup, email
// updates and the deactivate/delete lifecycle. All routes here require a
// valid access token.

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/users-service/internal/response"
	"github.com/iliyamo/users-service/internal/service"
)

type UserHandler struct {
	auth *service.AuthService
}

func NewUserHandler(auth *service.AuthService) *UserHandler {
	return &UserHandler{auth: auth}
}

// List handles GET /api/users/.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	users, err := h.auth.List(ctx)
	if err != nil {
		return err
	}

	resources := make([]response.Resource, 0, len(users))
	for _, u := range users {
		resources = append(resources, response.UserResource(u))
	}
	return response.Collection(c, http.StatusOK, resources, nil)
}

// Get handles GET /api/users/:id/.
func (h *UserHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.auth.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, response.UserResource(u), nil)
}

// UpdateEmail handles PATCH /api/users/:id/. Email is the only mutable
// attribute; the new address must remain unique across the collection.
func (h *UserHandler) UpdateEmail(c echo.Context) error {
	var req updateEmailReq
	if err := c.Bind(&req); err != nil {
		return err
	}
	if verr := req.Validate(); verr != nil {
		return verr
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.auth.ChangeEmail(ctx, c.Param("id"), req.Email)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, response.UserResource(u), response.Meta{
		"message": "Email updated successfully.",
	})
}

// Deactivate handles POST /api/users/:id/deactivate/. The body is optional;
// when present it may carry a reason that is forwarded on the event.
func (h *UserHandler) Deactivate(c echo.Context) error {
	var req deactivateReq
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return err
		}
		if verr := req.Validate(); verr != nil {
			return verr
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.auth.Deactivate(ctx, c.Param("id"), req.Reason)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, response.UserResource(u), response.Meta{
		"message": "User deactivated successfully.",
	})
}

// Delete handles DELETE /api/users/:id/. Success is an empty 204.
func (h *UserHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := h.auth.Delete(ctx, c.Param("id")); err != nil {
		return err
	}
	return response.NoContent(c)
}
