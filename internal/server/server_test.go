package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/alumninetwork/internal/config"
	"anoa.com/alumninetwork/internal/server"
	"anoa.com/alumninetwork/internal/testutil"
	"anoa.com/alumninetwork/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validator.Register())

	cfg := &config.Config{
		AllowedOrigins: "http://app.test",
		JWTSecret:      "test-secret",
		JWTTTL:         time.Hour,
	}
	return server.NewServer(cfg, testutil.NewDB(t), nil).Handler()
}

func call(h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var raw []byte
	if body != nil {
		raw, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, h http.Handler, username, role string) {
	t.Helper()
	w := call(h, http.MethodPost, "/api/users", "", gin.H{
		"username": username,
		"email":    username + "@alumni.test",
		"password": "s3cret-pass",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func login(h http.Handler, username string) *httptest.ResponseRecorder {
	return call(h, http.MethodPost, "/api/auth/login", "", gin.H{"login": username, "password": "s3cret-pass"})
}

func TestRoutes(t *testing.T) {
	h := newHandler(t)

	w := call(h, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	register(t, h, "lecturer", "lecturer")
	register(t, h, "alumnus", "alumnus")

	w = login(h, "alumnus")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = login(h, "lecturer")
	require.Equal(t, http.StatusOK, w.Code)
	var auth struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &auth))
	require.NotEmpty(t, auth.AccessToken)

	w = call(h, http.MethodGet, "/api/users/me", auth.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"lecturer"`)

	w = call(h, http.MethodPost, "/api/surveys", auth.AccessToken, gin.H{"title": "Tracer", "description": "Career"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = call(h, http.MethodGet, "/api/stats/years?source=surveys", auth.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"source":"surveys"`)

	w = call(h, http.MethodGet, "/api/admin/users/pending", auth.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newHandler(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "http://app.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://app.test", w.Header().Get("Access-Control-Allow-Origin"))
}
