package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"blog-backend/internal/domains/comment/model"
	"blog-backend/internal/domains/comment/service"
	"blog-backend/internal/shared/access"
	"blog-backend/internal/shared/response"
	"blog-backend/pkg/logger"
)

type CommentHandler struct {
	comments service.CommentService
}

func NewCommentHandler(comments service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// AddComment handles POST /post/:id/comment/ and POST /post/:id/
func (h *CommentHandler) AddComment(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Post not found")
		return
	}

	var form model.CommentForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.comments.Add(c.Request.Context(), access.FromContext(c), postID, form)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessMessage(c, http.StatusCreated, "Comment added", comment)
}

// Reply handles POST /comment/:id/reply/
func (h *CommentHandler) Reply(c *gin.Context) {
	parentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Comment not found")
		return
	}

	var form model.CommentForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.comments.Reply(c.Request.Context(), access.FromContext(c), parentID, form)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessMessage(c, http.StatusCreated, "Reply added", comment)
}

// Delete handles POST /comment/:id/delete/
func (h *CommentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Comment not found")
		return
	}

	deleted, err := h.comments.Delete(c.Request.Context(), access.FromContext(c), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessMessage(c, http.StatusOK, "Comment deleted", gin.H{
		"id":      deleted.ID,
		"post_id": deleted.PostID,
	})
}

// Edit handles POST /comment/:id/edit/. The response is flat JSON.
func (h *CommentHandler) Edit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		editFailure(c, http.StatusNotFound, "Comment not found")
		return
	}

	var form model.CommentForm
	if err := c.ShouldBind(&form); err != nil {
		editFailure(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.comments.Edit(c.Request.Context(), access.FromContext(c), id, form)
	if err != nil {
		var verrs validation.Errors
		var cerr *model.CommentError
		switch {
		case errors.As(err, &verrs):
			editFailure(c, http.StatusBadRequest, "Comment cannot be empty.")
		case errors.As(err, &cerr):
			editFailure(c, cerr.HTTPStatus(), cerr.Message)
		default:
			logger.Error("Comment edit failed", err)
			editFailure(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Comment updated",
		"comment": updated,
	})
}

func editFailure(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func (h *CommentHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	var cerr *model.CommentError
	switch {
	case errors.As(err, &verrs):
		response.ValidationError(c, "Validation failed", verrs)
	case errors.As(err, &cerr):
		if errors.Is(cerr, model.ErrPermissionDenied) {
			response.Deny(c, cerr.Message, cerr.Redirect)
			return
		}
		response.ErrorResponse(c, cerr.HTTPStatus(), cerr.Code, cerr.Message)
	default:
		logger.Error("Comment handler internal error", err)
		response.InternalServerError(c, "Internal server error")
	}
}
