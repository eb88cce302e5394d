// Package response builds the uniform JSON:API-style envelope every endpoint
// returns, and hosts the central error handler that maps failures onto it.
//
// Success (single resource):
//
//	{ "data": { "type": "users", "id": "...", "attributes": { ... } }, "meta": { ... } }
//
// Success (collection):
//
//	{ "data": [ ... ], "meta": { "count": N, "timestamp": "...", ... } }
//
// Error:
//
//	{ "errors": [ { "status": "404", "code": "user_not_found", ... } ], "meta": { ... } }
package response

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/users-service/internal/model"
)

// MediaType is the content type of every envelope response.
const MediaType = "application/vnd.api+json"

// ServiceName appears in every meta block.
const ServiceName = "users-service"

// RequestIDKey is the echo context key under which the header middleware
// stores the per-request identifier. It lives on the request-scoped echo
// context, never in a process-wide global, so concurrent requests cannot
// bleed into each other's metadata.
const RequestIDKey = "request_id"

// Meta is the envelope metadata block.
type Meta map[string]any

// Resource is a JSON:API resource object: type and id at the root, all
// domain fields under attributes.
type Resource struct {
	Type       string            `json:"type"`
	ID         string            `json:"id"`
	Attributes map[string]any    `json:"attributes"`
	Links      map[string]string `json:"links,omitempty"`
}

// ErrorObject is one entry of the error envelope.
type ErrorObject struct {
	Status string       `json:"status"`
	Code   string       `json:"code"`
	Title  string       `json:"title"`
	Detail string       `json:"detail"`
	Source *ErrorSource `json:"source,omitempty"`
}

// ErrorSource points at the offending request field.
type ErrorSource struct {
	Pointer string `json:"pointer"`
}

// RequestID returns the identifier the header middleware stashed on the
// context, or "" when none is set (e.g. in bare tests).
func RequestID(c echo.Context) string {
	if v, ok := c.Get(RequestIDKey).(string); ok {
		return v
	}
	return ""
}

func buildMeta(c echo.Context, extra Meta) Meta {
	m := Meta{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   ServiceName,
	}
	if rid := RequestID(c); rid != "" {
		m["request_id"] = rid
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}

// Success writes a single-resource (or data:null) envelope. Side-channel
// information such as confirmation messages belongs in extra meta, never
// mixed into data.
func Success(c echo.Context, status int, data any, extra Meta) error {
	return write(c, status, map[string]any{
		"data": data,
		"meta": buildMeta(c, extra),
	})
}

// Collection writes a collection envelope with meta.count set to the number
// of resources.
func Collection(c echo.Context, status int, resources []Resource, extra Meta) error {
	if resources == nil {
		resources = []Resource{}
	}
	m := Meta{"count": len(resources)}
	for k, v := range extra {
		m[k] = v
	}
	return write(c, status, map[string]any{
		"data": resources,
		"meta": buildMeta(c, m),
	})
}

// NoContent writes an empty 204 response (successful DELETE).
func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// Errors writes an error envelope with the given status and optional extra
// headers (e.g. WWW-Authenticate, Retry-After, Allow).
func Errors(c echo.Context, status int, headers map[string]string, errs ...ErrorObject) error {
	for k, v := range headers {
		c.Response().Header().Set(k, v)
	}
	return write(c, status, map[string]any{
		"errors": errs,
		"meta":   buildMeta(c, nil),
	})
}

func write(c echo.Context, status int, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.Blob(status, MediaType, b)
}

// UserResource converts a user entity to its wire representation. The
// password hash is never serialized. Centralizing this keeps every endpoint
// that returns users consistent.
func UserResource(u model.User) Resource {
	return Resource{
		Type: "users",
		ID:   u.ID,
		Attributes: map[string]any{
			"email":      u.Email,
			"username":   u.Username,
			"role":       string(u.Role),
			"is_active":  u.IsActive,
			"created_at": u.CreatedAt.UTC().Format(time.RFC3339),
		},
		Links: map[string]string{
			"self": "/api/users/" + u.ID + "/",
		},
	}
}
