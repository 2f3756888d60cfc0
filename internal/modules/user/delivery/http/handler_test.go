package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/alumninetwork/internal/entity"
	handler "anoa.com/alumninetwork/internal/modules/user/delivery/http"
	"anoa.com/alumninetwork/internal/modules/user/repository"
	"anoa.com/alumninetwork/internal/modules/user/service"
	"anoa.com/alumninetwork/internal/testutil"
	"anoa.com/alumninetwork/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validator.Register())

	db := testutil.NewDB(t)
	repo := repository.NewUserRepository(db)
	h := handler.NewUserHandler(
		service.NewUserService(repo, nil),
		service.NewAuthService(repo, "test-secret", time.Hour, nil),
	)

	r := gin.New()
	r.POST("/api/users", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.GET("/api/users/:id", h.GetUser)
	return r, db
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/users", gin.H{
		"username": "alumna",
		"email":    "alumna@alumni.test",
		"password": "secret-pass",
		"phone":    "0901234567",
		"role":     "alumnus",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "password")

	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, float64(entity.RoleAlumnus), created["role"])
	assert.Equal(t, false, created["is_active"])

	w = doJSON(r, http.MethodPost, "/api/auth/login", gin.H{"login": "alumna", "password": "secret-pass"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"forbidden"`)

	w = doJSON(r, http.MethodPost, "/api/users", gin.H{
		"username": "prof",
		"email":    "prof@alumni.test",
		"password": "secret-pass",
		"role":     2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(r, http.MethodPost, "/api/auth/login", gin.H{"login": "prof@alumni.test", "password": "secret-pass"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "access_token")
}

func TestRegisterValidation(t *testing.T) {
	r, _ := setupRouter(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{"unknown role", gin.H{"username": "abc", "email": "a@b.co", "password": "secret-pass", "role": 9}},
		{"missing email", gin.H{"username": "abc", "password": "secret-pass", "role": 3}},
		{"long phone", gin.H{"username": "abc", "email": "a@b.co", "password": "secret-pass", "role": 3, "phone": "012345678901"}},
		{"bad interaction id", gin.H{"username": "abc", "email": "a@b.co", "password": "secret-pass", "role": 3, "interactions": []string{"nope"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/users", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "validation_error")
		})
	}
}

func TestGetUser(t *testing.T) {
	r, db := setupRouter(t)
	user := testutil.CreateUser(t, db, "kim", entity.RoleLecturer)

	w := doJSON(r, http.MethodGet, "/api/users/"+user.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"kim"`)

	w = doJSON(r, http.MethodGet, "/api/users/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/users/00000000-0000-0000-0000-000000000001", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}
