package utils

// cookies.go is the session cookie transport. Token pairs travel to the
// client exclusively as HttpOnly cookies scoped to the API root; they are
// never included in response bodies.

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/users-service/internal/token"
)

// Cookie names for the auth token pair.
const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

// cookiePath scopes auth cookies to the API root so they are not sent to
// static or administrative routes.
const cookiePath = "/api"

// AttachAuthCookies sets the access and refresh cookies on the response.
// Max-Age matches each token's remaining TTL. Secure is enabled in
// production so browsers only send the cookies over TLS.
func AttachAuthCookies(c echo.Context, pair token.Pair, secure bool) {
	c.SetCookie(authCookie(AccessCookie, pair.Access, pair.AccessExp, secure))
	c.SetCookie(authCookie(RefreshCookie, pair.Refresh, pair.RefreshExp, secure))
}

// ClearAuthCookies overwrites both auth cookies with an immediate expiry so
// the client drops them. Logout is stateless: this is the only revocation
// mechanism besides the short access token TTL.
func ClearAuthCookies(c echo.Context, secure bool) {
	c.SetCookie(expiredCookie(AccessCookie, secure))
	c.SetCookie(expiredCookie(RefreshCookie, secure))
}

// ReadCookie returns the named cookie value, or false when absent.
func ReadCookie(c echo.Context, name string) (string, bool) {
	ck, err := c.Cookie(name)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

func authCookie(name, value string, exp time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     cookiePath,
		MaxAge:   int(time.Until(exp).Seconds()),
		Expires:  exp,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func expiredCookie(name string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     cookiePath,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}
