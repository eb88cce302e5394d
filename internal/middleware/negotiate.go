package middleware

// negotiate.go is the protocol gatekeeper: it validates Content-Type on
// requests carrying a body and the Accept header, before any handler runs.
// Only API routes are checked.

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/users-service/internal/response"
)

var supportedContentTypes = map[string]bool{
	"application/json":         true,
	"application/vnd.api+json": true,
}

// Content types that browsers and test clients send by default for form
// submissions — never rejected, echo's binder deals with them downstream.
var passthroughContentTypes = map[string]bool{
	"application/x-www-form-urlencoded": true,
	"multipart/form-data":               true,
}

var supportedAccept = map[string]bool{
	"application/json":         true,
	"application/vnd.api+json": true,
	"*/*":                      true,
}

var methodsWithBody = map[string]bool{
	http.MethodPost:  true,
	http.MethodPut:   true,
	http.MethodPatch: true,
}

// ContentNegotiation rejects unsupported request media types with 415 and
// unservable Accept headers with 406. Media type parameters (charset,
// boundary) are ignored when matching.
func ContentNegotiation() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !strings.HasPrefix(req.URL.Path, "/api/") {
				return next(c)
			}

			if methodsWithBody[req.Method] && req.ContentLength > 0 {
				ct := req.Header.Get(echo.HeaderContentType)
				base := mediaType(ct)
				if base != "" && !supportedContentTypes[base] && !passthroughContentTypes[base] {
					return response.Errors(c, http.StatusUnsupportedMediaType, nil, response.ErrorObject{
						Status: "415",
						Code:   "unsupported_media_type",
						Title:  "Unsupported Media Type",
						Detail: fmt.Sprintf("Content-Type '%s' is not supported. Use 'application/json' or 'application/vnd.api+json'.", ct),
					})
				}
			}

			accept := req.Header.Get(echo.HeaderAccept)
			if accept != "" && !acceptsJSON(accept) {
				return response.Errors(c, http.StatusNotAcceptable, nil, response.ErrorObject{
					Status: "406",
					Code:   "not_acceptable",
					Title:  "Not Acceptable",
					Detail: fmt.Sprintf("This API only serves 'application/json' and 'application/vnd.api+json'. Received Accept: '%s'.", accept),
				})
			}

			return next(c)
		}
	}
}

// mediaType strips parameters and normalizes a media type value.
func mediaType(v string) string {
	base, _, _ := strings.Cut(v, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

// acceptsJSON reports whether any offered media type intersects the
// supported set.
func acceptsJSON(header string) bool {
	for _, part := range strings.Split(header, ",") {
		if supportedAccept[mediaType(part)] {
			return true
		}
	}
	return false
}
