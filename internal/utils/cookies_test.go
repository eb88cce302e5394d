package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/users-service/internal/token"
)

func recordCookies(t *testing.T, fn func(c echo.Context)) []*http.Cookie {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/", nil)
	rec := httptest.NewRecorder()
	fn(e.NewContext(req, rec))
	return rec.Result().Cookies()
}

func TestAttachAuthCookies(t *testing.T) {
	pair := token.Pair{
		Access:     "access-value",
		AccessExp:  time.Now().Add(15 * time.Minute),
		Refresh:    "refresh-value",
		RefreshExp: time.Now().Add(24 * time.Hour),
	}

	cookies := recordCookies(t, func(c echo.Context) {
		AttachAuthCookies(c, pair, true)
	})
	require.Len(t, cookies, 2)

	byName := map[string]*http.Cookie{}
	for _, ck := range cookies {
		byName[ck.Name] = ck
	}

	access := byName[AccessCookie]
	require.NotNil(t, access)
	assert.Equal(t, "access-value", access.Value)
	assert.Equal(t, "/api", access.Path)
	assert.True(t, access.HttpOnly)
	assert.True(t, access.Secure)
	assert.Equal(t, http.SameSiteStrictMode, access.SameSite)
	assert.InDelta(t, 15*60, access.MaxAge, 5)

	refresh := byName[RefreshCookie]
	require.NotNil(t, refresh)
	assert.Equal(t, "refresh-value", refresh.Value)
	assert.InDelta(t, 24*60*60, refresh.MaxAge, 5)
}

func TestAttachAuthCookiesInsecureDev(t *testing.T) {
	cookies := recordCookies(t, func(c echo.Context) {
		AttachAuthCookies(c, token.Pair{
			Access:     "a",
			AccessExp:  time.Now().Add(time.Minute),
			Refresh:    "r",
			RefreshExp: time.Now().Add(time.Hour),
		}, false)
	})
	for _, ck := range cookies {
		assert.False(t, ck.Secure, "cookie %s must not be Secure outside production", ck.Name)
	}
}

func TestClearAuthCookies(t *testing.T) {
	cookies := recordCookies(t, func(c echo.Context) {
		ClearAuthCookies(c, false)
	})
	require.Len(t, cookies, 2)
	for _, ck := range cookies {
		assert.Empty(t, ck.Value)
		assert.Equal(t, "/api", ck.Path)
		assert.True(t, ck.HttpOnly)
		assert.Less(t, ck.MaxAge, 0)
		assert.False(t, ck.Expires.After(time.Unix(1, 0)))
	}
}

func TestReadCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: "tok"})
	c := e.NewContext(req, httptest.NewRecorder())

	v, ok := ReadCookie(c, AccessCookie)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)

	_, ok = ReadCookie(c, RefreshCookie)
	assert.False(t, ok)
}
