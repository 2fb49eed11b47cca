package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"blog-backend/internal/domains/author/model"
	"blog-backend/internal/domains/author/service"
	postmodel "blog-backend/internal/domains/post/model"
	"blog-backend/internal/domains/user"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/internal/shared/access"
	"blog-backend/internal/shared/response"
	"blog-backend/internal/shared/utils"
	"blog-backend/pkg/logger"
)

// UserLookup resolves the author page's username
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

// AuthorPosts lists the posts shown on an author page
type AuthorPosts interface {
	ByAuthor(ctx context.Context, viewer access.Principal, authorID uuid.UUID, page int) (*postmodel.PageResult, error)
}

// AuthorHandler serves public author pages and own-profile edits
type AuthorHandler struct {
	users         UserLookup
	profiles      service.ProfileService
	posts         AuthorPosts
	maxImageBytes int64
}

func NewAuthorHandler(users UserLookup, profiles service.ProfileService, posts AuthorPosts, maxImageBytes int64) *AuthorHandler {
	if maxImageBytes <= 0 {
		maxImageBytes = storage.DefaultMaxImageBytes
	}
	return &AuthorHandler{
		users:         users,
		profiles:      profiles,
		posts:         posts,
		maxImageBytes: maxImageBytes,
	}
}

// Page handles GET /author/:username/
func (h *AuthorHandler) Page(c *gin.Context) {
	ctx := c.Request.Context()

	u, err := h.users.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(c, "Author not found")
			return
		}
		h.handleError(c, err)
		return
	}

	// Readers without a profile still get a page
	profile, err := h.profiles.GetProfile(ctx, u.ID)
	if err != nil && !errors.Is(err, model.ErrProfileNotFound) {
		h.handleError(c, err)
		return
	}

	page := utils.ParsePage(c.Query("page"), postmodel.PageSize)
	posts, err := h.posts.ByAuthor(ctx, access.FromContext(c), u.ID, page.Number)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, gin.H{
		"author": gin.H{
			"id":          u.ID,
			"username":    u.Username,
			"full_name":   u.FullName(),
			"date_joined": u.DateJoined,
		},
		"profile": profile,
		"posts":   posts.Posts,
	}, &response.Meta{
		Page:       posts.Page,
		Limit:      postmodel.PageSize,
		Total:      posts.Total,
		TotalPages: posts.TotalPages,
	})
}

// UpdateProfile handles POST /author/profile/ (multipart, optional "profile_picture")
func (h *AuthorHandler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var picture *model.Upload
	name, data, found, err := utils.ReadFormFile(c, "profile_picture", h.maxImageBytes)
	if err != nil {
		response.BadRequest(c, "Invalid image upload")
		return
	}
	if found {
		picture = &model.Upload{Filename: name, Data: data}
	}

	profile, err := h.profiles.UpdateProfile(c.Request.Context(), access.FromContext(c), req, picture)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusOK, "Profile updated", profile)
}

func (h *AuthorHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		response.ValidationError(c, "Validation failed", verrs)
	case errors.Is(err, model.ErrNotAuthor):
		response.Deny(c, "Only authors have a profile. Apply to become an author.", "/apply-to-write/")
	case errors.Is(err, model.ErrProfileNotFound):
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
	case errors.Is(err, storage.ErrImageTooLarge),
		errors.Is(err, storage.ErrImageNotDecoded),
		errors.Is(err, storage.ErrImageFormat):
		response.ValidationError(c, "Validation failed", gin.H{"profile_picture": err.Error()})
	default:
		logger.Error("Author handler internal error", err)
		response.InternalServerError(c, "Internal server error")
	}
}
