package handler_test

// handler_test.go spins up the real route table against the in-memory
// repository, so every test exercises the same middleware chain and error
// mapping the production server runs.

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/users-service/internal/config"
	"github.com/iliyamo/users-service/internal/handler"
	"github.com/iliyamo/users-service/internal/middleware"
	"github.com/iliyamo/users-service/internal/repository"
	"github.com/iliyamo/users-service/internal/response"
	"github.com/iliyamo/users-service/internal/router"
	"github.com/iliyamo/users-service/internal/service"
	"github.com/iliyamo/users-service/internal/token"
)

type testServer struct {
	e     *echo.Echo
	svc   *service.AuthService
	codec *token.Codec
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	codec := token.NewCodec("test-secret", 15*time.Minute, 24*time.Hour)
	repo := repository.NewMemoryRepo()
	svc := service.NewAuthService(repo, codec, service.NoopPublisher{}, bcrypt.MinCost)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = response.ErrorHandler()
	e.Use(middleware.RequestHeaders())

	router.Register(e,
		codec,
		handler.NewAuthHandler(svc, false),
		handler.NewUserHandler(svc),
		handler.NewHealthHandler(nil, nil),
		config.RateLimitConfig{},
		nil,
	)
	return &testServer{e: e, svc: svc, codec: codec}
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Status string `json:"status"`
		Code   string `json:"code"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
		Source *struct {
			Pointer string `json:"pointer"`
		} `json:"source"`
	} `json:"errors"`
	Meta map[string]any `json:"meta"`
}

type resourceBody struct {
	Type       string            `json:"type"`
	ID         string            `json:"id"`
	Attributes map[string]any    `json:"attributes"`
	Links      map[string]string `json:"links"`
}

func (s *testServer) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	}
	return rec, env
}

func (s *testServer) register(t *testing.T, email, username, password string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"username": username,
		"password": password,
	})
	require.NoError(t, err)
	return s.do(t, http.MethodPost, "/api/auth/", string(payload))
}

func resource(t *testing.T, env envelope) resourceBody {
	t.Helper()
	var res resourceBody
	require.NoError(t, json.Unmarshal(env.Data, &res))
	return res
}

func sessionCookies(rec *httptest.ResponseRecorder) (access, refresh *http.Cookie) {
	for _, ck := range rec.Result().Cookies() {
		switch ck.Name {
		case "access_token":
			access = ck
		case "refresh_token":
			refresh = ck
		}
	}
	return access, refresh
}
