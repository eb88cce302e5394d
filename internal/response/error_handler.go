package response

// error_handler.go is the single place failures become HTTP responses.
// Handlers return errors; the echo HTTPErrorHandler installed from here maps
// every one of them — domain, validation, auth, protocol or unknown — to the
// uniform error envelope. Unknown failures surface as a generic 500 with the
// full error logged server-side only.

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/users-service/internal/domain"
)

// FieldError is a single invalid input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError aggregates per-field input failures. It always maps to a
// 422 envelope with one entry per field, each carrying a source pointer.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// AuthError is a 401 transport-level authentication failure (missing or
// invalid credential) as opposed to the domain's InvalidCredentials.
type AuthError struct {
	Code   string
	Detail string
}

func (e *AuthError) Error() string { return e.Detail }

// RateLimitError is returned by the rate limiter when a bucket is empty.
type RateLimitError struct {
	RetryAfter int // seconds until the next token
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry in %ds", e.RetryAfter)
}

// ErrorHandler returns the echo HTTPErrorHandler implementing the
// exception-to-envelope mapping.
func ErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			de  *domain.Error
			ve  *ValidationError
			ae  *AuthError
			rle *RateLimitError
			he  *echo.HTTPError
		)
		switch {
		case errors.As(err, &de):
			writeDomain(c, de)
		case errors.As(err, &ve):
			writeValidation(c, ve)
		case errors.As(err, &ae):
			_ = Errors(c, http.StatusUnauthorized,
				map[string]string{"WWW-Authenticate": "Bearer"},
				ErrorObject{Status: "401", Code: ae.Code, Title: "Unauthorized", Detail: ae.Detail})
		case errors.As(err, &rle):
			_ = Errors(c, http.StatusTooManyRequests,
				map[string]string{"Retry-After": strconv.Itoa(rle.RetryAfter)},
				ErrorObject{
					Status: "429",
					Code:   "throttled",
					Title:  "Too many requests",
					Detail: fmt.Sprintf("Request was throttled. Expected available in %d seconds.", rle.RetryAfter),
				})
		case errors.As(err, &he):
			writeHTTP(c, he)
		default:
			log.Printf("unhandled error in %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
			_ = Errors(c, http.StatusInternalServerError, nil, ErrorObject{
				Status: "500",
				Code:   "internal_error",
				Title:  "Internal server error",
				Detail: "An unexpected error occurred. Please try again later.",
			})
		}
	}
}

// domainStatus maps every domain failure kind to (status, code, title). The
// switch is exhaustive over the closed Kind set; the trailing default only
// guards against a future kind added without a mapping.
func domainStatus(k domain.Kind) (int, string, string) {
	switch k {
	case domain.KindUserNotFound:
		return http.StatusNotFound, "user_not_found", "Resource not found"
	case domain.KindUserAlreadyExists:
		return http.StatusConflict, "user_already_exists", "Conflict"
	case domain.KindUserAlreadyInactive:
		return http.StatusConflict, "user_already_inactive", "Conflict"
	case domain.KindInvalidEmail:
		return http.StatusUnprocessableEntity, "invalid_email", "Validation error"
	case domain.KindInvalidUsername:
		return http.StatusUnprocessableEntity, "invalid_username", "Validation error"
	case domain.KindInvalidUserData:
		return http.StatusUnprocessableEntity, "invalid_user_data", "Validation error"
	case domain.KindInvalidCredentials:
		return http.StatusUnauthorized, "invalid_credentials", "Unauthorized"
	case domain.KindInvalidRole:
		return http.StatusUnprocessableEntity, "invalid_role", "Validation error"
	default:
		return http.StatusBadRequest, "domain_error", "Domain error"
	}
}

func writeDomain(c echo.Context, de *domain.Error) {
	status, code, title := domainStatus(de.Kind)
	var headers map[string]string
	if de.Kind == domain.KindInvalidCredentials {
		headers = map[string]string{"WWW-Authenticate": "Bearer"}
	}
	_ = Errors(c, status, headers, ErrorObject{
		Status: strconv.Itoa(status),
		Code:   code,
		Title:  title,
		Detail: de.Detail,
	})
}

func writeValidation(c echo.Context, ve *ValidationError) {
	errs := make([]ErrorObject, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		eo := ErrorObject{
			Status: "422",
			Code:   "validation_error",
			Title:  "Validation error",
			Detail: f.Message,
		}
		if f.Field != "" {
			eo.Source = &ErrorSource{Pointer: "/data/attributes/" + f.Field}
		}
		errs = append(errs, eo)
	}
	_ = Errors(c, http.StatusUnprocessableEntity, nil, errs...)
}

// writeHTTP maps echo's own routing/binding failures (404, 405, 415, bind
// errors) into the envelope.
func writeHTTP(c echo.Context, he *echo.HTTPError) {
	detail := http.StatusText(he.Code)
	if msg, ok := he.Message.(string); ok && msg != "" {
		detail = msg
	}

	var headers map[string]string
	status := he.Code
	var code, title string
	switch status {
	case http.StatusBadRequest:
		code, title = "parse_error", "Bad request"
	case http.StatusUnauthorized:
		code, title = "not_authenticated", "Unauthorized"
		headers = map[string]string{"WWW-Authenticate": "Bearer"}
	case http.StatusForbidden:
		code, title = "forbidden", "Forbidden"
	case http.StatusNotFound:
		code, title, detail = "not_found", "Resource not found", "Resource not found."
	case http.StatusMethodNotAllowed:
		code, title = "method_not_allowed", "Method not allowed"
		if allow, ok := c.Get(echo.ContextKeyHeaderAllow).(string); ok && allow != "" {
			headers = map[string]string{"Allow": allow}
		}
	case http.StatusUnsupportedMediaType:
		code, title = "unsupported_media_type", "Unsupported media type"
	case http.StatusTooManyRequests:
		code, title = "throttled", "Too many requests"
	default:
		code, title = "error", http.StatusText(status)
	}

	_ = Errors(c, status, headers, ErrorObject{
		Status: strconv.Itoa(status),
		Code:   code,
		Title:  title,
		Detail: detail,
	})
}
