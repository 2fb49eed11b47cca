package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blog-backend/internal/domains/like/model"
	"blog-backend/internal/domains/like/service"
	"blog-backend/internal/shared/access"
	"blog-backend/internal/shared/response"
	"blog-backend/pkg/logger"
)

// LikeHandler answers toggles with flat JSON {success, liked, likes_count, message}
type LikeHandler struct {
	likes service.LikeService
}

func NewLikeHandler(likes service.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

type toggleFunc func(ctx context.Context, actor access.Principal, id uuid.UUID) (*model.ToggleResult, error)

// TogglePost handles POST /post/:id/like/
func (h *LikeHandler) TogglePost(c *gin.Context) {
	h.toggle(c, model.KindPost, h.likes.TogglePost)
}

// ToggleComment handles POST /comment/:id/like/
func (h *LikeHandler) ToggleComment(c *gin.Context) {
	h.toggle(c, model.KindComment, h.likes.ToggleComment)
}

func (h *LikeHandler) toggle(c *gin.Context, kind model.Kind, fn toggleFunc) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		failure(c, model.NewNotFoundError(kind))
		return
	}

	res, err := fn(c.Request.Context(), access.FromContext(c), id)
	if err != nil {
		var lerr *model.LikeError
		switch {
		case errors.As(err, &lerr) && errors.Is(lerr, model.ErrPermissionDenied):
			response.Deny(c, lerr.Message, lerr.Redirect)
		case errors.As(err, &lerr):
			failure(c, lerr)
		default:
			logger.Error("Like toggle failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"liked":       res.Liked,
		"likes_count": res.LikesCount,
		"message":     res.Message,
	})
}

func failure(c *gin.Context, lerr *model.LikeError) {
	c.JSON(lerr.HTTPStatus(), gin.H{"success": false, "message": lerr.Message})
}
