package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/alumninetwork/internal/entity"
	"anoa.com/alumninetwork/internal/middleware"
	"anoa.com/alumninetwork/internal/modules/user/repository"
	userService "anoa.com/alumninetwork/internal/modules/user/service"
	"anoa.com/alumninetwork/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestRequireAuthAndRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	m := middleware.NewAuthMiddleware(repository.NewUserRepository(db), secret)

	r := gin.New()
	r.GET("/me", m.RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_id"))
	})
	r.GET("/admin", m.RequireAuth(), m.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/staff", m.RequireAuth(), m.RequireRole(entity.RoleAdmin, entity.RoleLecturer), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	admin := testutil.CreateUser(t, db, "root", entity.RoleAdmin)
	lecturer := testutil.CreateUser(t, db, "prof", entity.RoleLecturer)
	pending := testutil.CreateUser(t, db, "newbie", entity.RoleAlumnus)

	tokenFor := func(u *entity.User) string {
		token, _, err := userService.GenerateToken(secret, u, time.Hour)
		require.NoError(t, err)
		return token
	}

	call := func(path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := call("/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call("/me", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call("/me", tokenFor(lecturer))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, lecturer.ID.String(), w.Body.String())

	w = call("/me", tokenFor(pending))
	assert.Equal(t, http.StatusForbidden, w.Code)

	expired, _, err := userService.GenerateToken(secret, lecturer, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call("/me", expired).Code)

	wrongKey, _, err := userService.GenerateToken("other", lecturer, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call("/me", wrongKey).Code)

	assert.Equal(t, http.StatusForbidden, call("/admin", tokenFor(lecturer)).Code)
	assert.Equal(t, http.StatusNoContent, call("/admin", tokenFor(admin)).Code)
	assert.Equal(t, http.StatusNoContent, call("/staff", tokenFor(lecturer)).Code)

	req := httptest.NewRequest(http.MethodGet, "/me?token="+tokenFor(admin), nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
