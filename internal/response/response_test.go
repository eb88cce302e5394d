package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/users-service/internal/model"
)

func newCtx(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/users/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccessEnvelope(t *testing.T) {
	c, rec := newCtx(t)
	c.Set(RequestIDKey, "rid-123")

	err := Success(c, http.StatusOK, map[string]any{"hello": "world"}, Meta{"message": "ok"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, MediaType, rec.Header().Get(echo.HeaderContentType))

	body := decode(t, rec)
	assert.Equal(t, map[string]any{"hello": "world"}, body["data"])

	meta, ok := body["meta"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, ServiceName, meta["service"])
	assert.Equal(t, "rid-123", meta["request_id"])
	assert.Equal(t, "ok", meta["message"])
	_, err = time.Parse(time.RFC3339, meta["timestamp"].(string))
	assert.NoError(t, err)
}

func TestSuccessNullData(t *testing.T) {
	c, rec := newCtx(t)
	require.NoError(t, Success(c, http.StatusOK, nil, nil))

	body := decode(t, rec)
	_, present := body["data"]
	assert.True(t, present)
	assert.Nil(t, body["data"])
}

func TestCollectionEnvelope(t *testing.T) {
	c, rec := newCtx(t)
	resources := []Resource{
		{Type: "users", ID: "1", Attributes: map[string]any{}},
		{Type: "users", ID: "2", Attributes: map[string]any{}},
	}
	require.NoError(t, Collection(c, http.StatusOK, resources, nil))

	body := decode(t, rec)
	data, ok := body["data"].([]any)
	require.True(t, ok)
	assert.Len(t, data, 2)
	meta := body["meta"].(map[string]any)
	assert.EqualValues(t, 2, meta["count"])
}

func TestCollectionEmptyIsArrayNotNull(t *testing.T) {
	c, rec := newCtx(t)
	require.NoError(t, Collection(c, http.StatusOK, nil, nil))

	body := decode(t, rec)
	data, ok := body["data"].([]any)
	require.True(t, ok, "data must serialize as [] even when empty")
	assert.Len(t, data, 0)
	assert.EqualValues(t, 0, body["meta"].(map[string]any)["count"])
}

func TestErrorsEnvelopeWithHeaders(t *testing.T) {
	c, rec := newCtx(t)
	err := Errors(c, http.StatusUnauthorized,
		map[string]string{"WWW-Authenticate": "Bearer"},
		ErrorObject{Status: "401", Code: "invalid_credentials", Title: "Unauthorized", Detail: "Invalid credentials."})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	body := decode(t, rec)
	errs := body["errors"].([]any)
	require.Len(t, errs, 1)
	first := errs[0].(map[string]any)
	assert.Equal(t, "401", first["status"])
	assert.Equal(t, "invalid_credentials", first["code"])
	assert.Equal(t, "Invalid credentials.", first["detail"])
	_, hasData := body["data"]
	assert.False(t, hasData)
}

func TestUserResourceNeverExposesPasswordHash(t *testing.T) {
	u := model.User{
		ID:           "u-1",
		Email:        "ada@example.com",
		Username:     "ada",
		PasswordHash: "$2a$10$secret",
		Role:         model.RoleUser,
		IsActive:     true,
		CreatedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	res := UserResource(u)

	assert.Equal(t, "users", res.Type)
	assert.Equal(t, "u-1", res.ID)
	assert.Equal(t, "ada@example.com", res.Attributes["email"])
	assert.Equal(t, "USER", res.Attributes["role"])
	assert.Equal(t, true, res.Attributes["is_active"])
	assert.Equal(t, "2025-06-01T12:00:00Z", res.Attributes["created_at"])
	assert.Equal(t, "/api/users/u-1/", res.Links["self"])

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.NotContains(t, string(b), "password")
}
