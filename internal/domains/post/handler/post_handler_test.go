package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authormodel "blog-backend/internal/domains/author/model"
	"blog-backend/internal/domains/category"
	commentmodel "blog-backend/internal/domains/comment/model"
	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/domains/post/service"
	"blog-backend/internal/shared/access"
)

// stubPosts implements only what a test sets; other methods panic
type stubPosts struct {
	service.PostService
	detail     *model.PostDetail
	created    *model.Post
	transition *model.TransitionResult
	err        error

	gotForm  model.PostForm
	gotCover *model.Upload
}

func (s *stubPosts) Detail(context.Context, access.Principal, uuid.UUID) (*model.PostDetail, error) {
	return s.detail, s.err
}

func (s *stubPosts) Create(_ context.Context, _ access.Principal, form model.PostForm, cover *model.Upload) (*model.Post, error) {
	s.gotForm, s.gotCover = form, cover
	return s.created, s.err
}

func (s *stubPosts) Publish(context.Context, access.Principal, uuid.UUID) (*model.TransitionResult, error) {
	return s.transition, s.err
}

func (s *stubPosts) Home(context.Context, model.ListFilter) (*model.HomePage, error) {
	return &model.HomePage{
		PageResult: model.PageResult{Posts: []model.PostSummary{}, Page: 1, TotalPages: 1},
		Popular:    []model.PostSummary{},
	}, s.err
}

type stubThreads struct{ thread *commentmodel.Thread }

func (s stubThreads) Thread(context.Context, access.Principal, uuid.UUID) (*commentmodel.Thread, error) {
	return s.thread, nil
}

type stubCategories []category.Category

func (s stubCategories) List(context.Context) ([]category.Category, error) { return s, nil }

type stubApplications struct{}

func (stubApplications) ListMine(context.Context, access.Principal) ([]*authormodel.AuthorApplication, error) {
	return nil, nil
}

func newRouter(posts *stubPosts, thread *commentmodel.Thread) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPostHandler(posts, stubThreads{thread: thread}, stubCategories{{Name: "Tech", PostCount: 2}}, stubApplications{}, 1024*1024)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		access.Set(c, access.Principal{UserID: uuid.New(), Username: "writer", Caps: access.CapsFor(true, false, false)})
	})
	r.GET("/", h.Home)
	r.GET("/post/:id/", h.Detail)
	r.POST("/post/create/", h.Create)
	r.POST("/post/:id/publish/", h.Publish)
	return r
}

func do(r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestDetail_IncludesThread(t *testing.T) {
	id := uuid.New()
	posts := &stubPosts{detail: &model.PostDetail{
		Post:    model.PostSummary{Post: model.Post{ID: id, Title: "Hello", Status: model.StatusPublished}, CommentCount: 1},
		CanEdit: true,
	}}
	thread := &commentmodel.Thread{Comments: []*commentmodel.Node{{Comment: commentmodel.Comment{Text: "First"}}}, Total: 1}

	w, body := do(newRouter(posts, thread), httptest.NewRequest(http.MethodGet, "/post/"+id.String()+"/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["can_edit"])
	assert.Equal(t, true, data["can_comment"])
	assert.Equal(t, float64(1), data["comment_total"])
	assert.Len(t, data["comments"], 1)
}

func TestDetail_Errors(t *testing.T) {
	r := newRouter(&stubPosts{err: model.NewPostNotFoundError()}, nil)
	w, body := do(r, httptest.NewRequest(http.MethodGet, "/post/"+uuid.NewString()+"/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, model.ErrCodePostNotFound, body["error"].(map[string]interface{})["code"])

	w, _ = do(r, httptest.NewRequest(http.MethodGet, "/post/nope/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	r = newRouter(&stubPosts{err: model.NewDeniedError("You do not have permission to view this post.", "/")}, nil)
	req := httptest.NewRequest(http.MethodGet, "/post/"+uuid.NewString()+"/", nil)
	req.Header.Set("Accept", "text/html")
	w, _ = do(r, req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestCreate_MultipartWithImage(t *testing.T) {
	posts := &stubPosts{created: &model.Post{ID: uuid.New(), Status: model.StatusDraft}}

	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	require.NoError(t, mw.WriteField("title", "A new post"))
	require.NoError(t, mw.WriteField("body", "Body text"))
	fw, err := mw.CreateFormFile("image", "cover.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/post/create/", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w, body := do(newRouter(posts, nil), req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, body["message"], "draft")
	assert.Equal(t, "A new post", posts.gotForm.Title)
	require.NotNil(t, posts.gotCover)
	assert.Equal(t, "cover.png", posts.gotCover.Filename)
	assert.Equal(t, []byte("png-bytes"), posts.gotCover.Data)
}

func TestCreate_JSONWithoutImage(t *testing.T) {
	posts := &stubPosts{created: &model.Post{ID: uuid.New(), Status: model.StatusPublished}}
	req := httptest.NewRequest(http.MethodPost, "/post/create/", bytes.NewBufferString(`{"title":"A new post","body":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	w, body := do(newRouter(posts, nil), req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Post published", body["message"])
	assert.Nil(t, posts.gotCover)
}

func TestCreate_DeniedRedirectsToApply(t *testing.T) {
	posts := &stubPosts{err: model.NewDeniedError("Only authors can create posts. Apply to become an author.", "/apply-to-write/")}
	req := httptest.NewRequest(http.MethodPost, "/post/create/", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")

	w, body := do(newRouter(posts, nil), req)
	require.Equal(t, http.StatusForbidden, w.Code)
	details := body["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Equal(t, "/apply-to-write/", details["redirect"])
}

func TestPublish_Outcomes(t *testing.T) {
	posts := &stubPosts{transition: &model.TransitionResult{Post: &model.Post{Status: model.StatusPublished}}}
	path := "/post/" + uuid.NewString() + "/publish/"

	w, body := do(newRouter(posts, nil), httptest.NewRequest(http.MethodPost, path, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Post was already published", body["message"])

	posts = &stubPosts{err: model.NewInvalidTransitionError(model.StatusArchived, model.StatusPublished)}
	w, body = do(newRouter(posts, nil), httptest.NewRequest(http.MethodPost, path, nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, model.ErrCodeInvalidTransition, body["error"].(map[string]interface{})["code"])
}

func TestHome_IncludesCategories(t *testing.T) {
	w, body := do(newRouter(&stubPosts{}, nil), httptest.NewRequest(http.MethodGet, "/?q=go&page=x", nil))
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	assert.Len(t, data["categories"], 1)
	assert.Equal(t, float64(1), body["meta"].(map[string]interface{})["page"])
}
