package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	authormodel "blog-backend/internal/domains/author/model"
	"blog-backend/internal/domains/category"
	commentmodel "blog-backend/internal/domains/comment/model"
	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/domains/post/service"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/internal/shared/access"
	"blog-backend/internal/shared/response"
	"blog-backend/internal/shared/utils"
	"blog-backend/pkg/logger"
)

// ThreadLoader loads the comment tree shown under a post
type ThreadLoader interface {
	Thread(ctx context.Context, viewer access.Principal, postID uuid.UUID) (*commentmodel.Thread, error)
}

// CategoryLister feeds the listing sidebar
type CategoryLister interface {
	List(ctx context.Context) ([]category.Category, error)
}

// ApplicationLister feeds the dashboard
type ApplicationLister interface {
	ListMine(ctx context.Context, actor access.Principal) ([]*authormodel.AuthorApplication, error)
}

// =====================================================
// POST HANDLER
// =====================================================

type PostHandler struct {
	posts         service.PostService
	comments      ThreadLoader
	categories    CategoryLister
	applications  ApplicationLister
	maxImageBytes int64
}

func NewPostHandler(
	posts service.PostService,
	comments ThreadLoader,
	categories CategoryLister,
	applications ApplicationLister,
	maxImageBytes int64,
) *PostHandler {
	if maxImageBytes <= 0 {
		maxImageBytes = storage.DefaultMaxImageBytes
	}
	return &PostHandler{
		posts:         posts,
		comments:      comments,
		categories:    categories,
		applications:  applications,
		maxImageBytes: maxImageBytes,
	}
}

// =====================================================
// LISTINGS
// =====================================================

// Home handles GET /?q=&category=&page=
func (h *PostHandler) Home(c *gin.Context) {
	var filter model.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		filter = model.ListFilter{Query: c.Query("q"), Category: c.Query("category")}
	}

	home, err := h.posts.Home(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.respondListing(c, home)
}

// Search handles GET /search/?q=
func (h *PostHandler) Search(c *gin.Context) {
	page := utils.ParsePage(c.Query("page"), model.PageSize)

	home, err := h.posts.Search(c.Request.Context(), c.Query("q"), page.Number)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.respondListing(c, home)
}

// Category handles GET /category/:name/
func (h *PostHandler) Category(c *gin.Context) {
	page := utils.ParsePage(c.Query("page"), model.PageSize)

	home, err := h.posts.ByCategory(c.Request.Context(), c.Param("name"), page.Number)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.respondListing(c, home)
}

func (h *PostHandler) respondListing(c *gin.Context, home *model.HomePage) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, gin.H{
		"posts":      home.Posts,
		"popular":    home.Popular,
		"categories": categories,
		"query":      home.Query,
		"category":   home.Category,
	}, pageMeta(&home.PageResult))
}

func pageMeta(p *model.PageResult) *response.Meta {
	return &response.Meta{
		Page:       p.Page,
		Limit:      model.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
}

// Archived handles GET /archived-posts/ (staff)
func (h *PostHandler) Archived(c *gin.Context) {
	page := utils.ParsePage(c.Query("page"), model.PageSize)

	res, err := h.posts.Archived(c.Request.Context(), access.FromContext(c), page.Number)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, res.Posts, pageMeta(res))
}

// =====================================================
// DETAIL
// =====================================================

// Detail handles GET /post/:id/
func (h *PostHandler) Detail(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	viewer := access.FromContext(c)

	// Step 1: Visibility check and view count
	detail, err := h.posts.Detail(c.Request.Context(), viewer, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	// Step 2: Comment thread
	thread, err := h.comments.Thread(c.Request.Context(), viewer, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"post":           detail.Post,
		"user_has_liked": detail.UserHasLiked,
		"can_edit":       detail.CanEdit,
		"can_archive":    detail.CanArchive,
		"can_publish":    detail.CanPublish,
		"can_comment":    !viewer.IsAnonymous() && detail.Post.Status != model.StatusArchived,
		"comments":       thread.Comments,
		"comment_total":  thread.Total,
	})
}

// History handles GET /admin/posts/:id/history/ (staff)
func (h *PostHandler) History(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	events, err := h.posts.History(c.Request.Context(), access.FromContext(c), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, events)
}

// =====================================================
// AUTHORING
// =====================================================

// Create handles POST /post/create/ (multipart with optional "image", or JSON)
func (h *PostHandler) Create(c *gin.Context) {
	form, cover, ok := h.bindForm(c)
	if !ok {
		return
	}

	post, err := h.posts.Create(c.Request.Context(), access.FromContext(c), form, cover)
	if err != nil {
		h.handleError(c, err)
		return
	}

	msg := "Post published"
	if post.Status == model.StatusDraft {
		msg = "Post saved as a draft. A staff member will review it before it is published."
	}
	response.SuccessMessage(c, http.StatusCreated, msg, post)
}

// Update handles POST /post/:id/update/
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	form, cover, ok := h.bindForm(c)
	if !ok {
		return
	}

	post, err := h.posts.Update(c.Request.Context(), access.FromContext(c), id, form, cover)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusOK, "Post updated", post)
}

func (h *PostHandler) bindForm(c *gin.Context) (model.PostForm, *model.Upload, bool) {
	var form model.PostForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, "Invalid request body")
		return form, nil, false
	}

	name, data, found, err := utils.ReadFormFile(c, "image", h.maxImageBytes)
	if err != nil {
		response.BadRequest(c, "Invalid image upload")
		return form, nil, false
	}
	if !found {
		return form, nil, true
	}
	return form, &model.Upload{Filename: name, Data: data}, true
}

// =====================================================
// LIFECYCLE
// =====================================================

// Delete handles POST /post/:id/delete/, which archives
func (h *PostHandler) Delete(c *gin.Context) {
	h.transition(c, h.posts.Archive, "Post archived", "Post was already archived")
}

// Publish handles POST /post/:id/publish/ (staff)
func (h *PostHandler) Publish(c *gin.Context) {
	h.transition(c, h.posts.Publish, "Post published", "Post was already published")
}

type transitionFunc func(ctx context.Context, actor access.Principal, id uuid.UUID) (*model.TransitionResult, error)

func (h *PostHandler) transition(c *gin.Context, fn transitionFunc, done, noop string) {
	id, ok := postID(c)
	if !ok {
		return
	}

	res, err := fn(c.Request.Context(), access.FromContext(c), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	msg := done
	if !res.Changed {
		msg = noop
	}
	response.SuccessMessage(c, http.StatusOK, msg, res)
}

// =====================================================
// DASHBOARD
// =====================================================

// Dashboard handles GET /dashboard/
func (h *PostHandler) Dashboard(c *gin.Context) {
	actor := access.FromContext(c)

	dash, err := h.posts.Dashboard(c.Request.Context(), actor)
	if err != nil {
		h.handleError(c, err)
		return
	}

	apps, err := h.applications.ListMine(c.Request.Context(), actor)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"is_author":       actor.IsAuthor(),
		"posts":           dash.Posts,
		"stats":           dash.Stats,
		"recently_viewed": dash.RecentlyViewed,
		"applications":    apps,
	})
}

// =====================================================
// HELPERS
// =====================================================

func postID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodePostNotFound, "Post not found")
		return uuid.Nil, false
	}
	return id, true
}

func (h *PostHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	var perr *model.PostError
	switch {
	case errors.As(err, &verrs):
		response.ValidationError(c, "Validation failed", verrs)

	case errors.As(err, &perr):
		if errors.Is(perr, model.ErrPermissionDenied) {
			response.Deny(c, perr.Message, perr.Redirect)
			return
		}
		response.ErrorResponse(c, perr.HTTPStatus(), perr.Code, perr.Message)

	case errors.Is(err, model.ErrCategoryNotFound):
		response.ValidationError(c, "Validation failed", gin.H{"category": "Select a valid category."})
	case errors.Is(err, category.ErrCategoryNotFound):
		response.NotFound(c, "Category not found")

	case errors.Is(err, storage.ErrImageTooLarge),
		errors.Is(err, storage.ErrImageNotDecoded),
		errors.Is(err, storage.ErrImageFormat):
		response.ValidationError(c, "Validation failed", gin.H{"image": err.Error()})

	default:
		logger.Error("Post handler internal error", err)
		response.InternalServerError(c, "Internal server error")
	}
}
