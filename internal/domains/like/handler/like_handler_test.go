package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/domains/like/model"
	"blog-backend/internal/shared/access"
)

type stubLikes struct {
	res *model.ToggleResult
	err error
}

func (s *stubLikes) TogglePost(context.Context, access.Principal, uuid.UUID) (*model.ToggleResult, error) {
	return s.res, s.err
}

func (s *stubLikes) ToggleComment(context.Context, access.Principal, uuid.UUID) (*model.ToggleResult, error) {
	return s.res, s.err
}

func serve(t *testing.T, svc *stubLikes, path string) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewLikeHandler(svc)
	r := gin.New()
	r.POST("/post/:id/like/", h.TogglePost)
	r.POST("/comment/:id/like/", h.ToggleComment)

	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestToggle_FlatSuccess(t *testing.T) {
	svc := &stubLikes{res: &model.ToggleResult{Liked: true, LikesCount: 3, Message: "Post liked"}}
	code, body := serve(t, svc, "/post/"+uuid.NewString()+"/like/")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]interface{}{
		"success":     true,
		"liked":       true,
		"likes_count": float64(3),
		"message":     "Post liked",
	}, body)
}

func TestToggle_Failures(t *testing.T) {
	code, body := serve(t, &stubLikes{err: model.NewNotFoundError(model.KindComment)}, "/comment/"+uuid.NewString()+"/like/")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Comment not found", body["message"])

	code, _ = serve(t, &stubLikes{}, "/post/bad-id/like/")
	assert.Equal(t, http.StatusNotFound, code)

	code, body = serve(t, &stubLikes{err: model.NewDeniedError("Please log in to like posts.", "/login/")}, "/post/"+uuid.NewString()+"/like/")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "PERMISSION_DENIED", body["error"].(map[string]interface{})["code"])
}
