package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"anoa.com/alumninetwork/internal/entity"
	handler "anoa.com/alumninetwork/internal/modules/comment/delivery/http"
	commentRepo "anoa.com/alumninetwork/internal/modules/comment/repository"
	"anoa.com/alumninetwork/internal/modules/comment/service"
	postRepo "anoa.com/alumninetwork/internal/modules/post/repository"
	userRepo "anoa.com/alumninetwork/internal/modules/user/repository"
	"anoa.com/alumninetwork/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCommentOnLockedPost(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	svc := service.NewCommentService(
		commentRepo.NewCommentRepository(db),
		postRepo.NewPostRepository(db),
		userRepo.NewUserRepository(db),
		nil, nil, 0,
	)
	h := handler.NewCommentHandler(svc)

	author := testutil.CreateUser(t, db, "author", entity.RoleLecturer)
	open := testutil.CreatePost(t, db, author, false)
	locked := testutil.CreatePost(t, db, author, true)

	r := gin.New()
	r.POST("/api/posts/:post_id/comments", func(c *gin.Context) {
		c.Set("user_id", author.ID.String())
	}, h.CreateComment)
	r.GET("/api/posts/:post_id/comments", h.GetComments)

	post := func(postID string, body any) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/api/posts/"+postID+"/comments", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post(locked.ID.String(), gin.H{"content": "hello"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body["error"])
	assert.Equal(t, "comments disabled for this post", body["message"])

	w = post(open.ID.String(), gin.H{"content": "hello"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = post(open.ID.String(), gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/posts/"+open.ID.String()+"/comments", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"author"`)
	assert.NotContains(t, rec.Body.String(), "password")
}
