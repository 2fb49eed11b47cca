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
	"blog-backend/internal/shared/access"
	"blog-backend/internal/shared/response"
	"blog-backend/internal/shared/utils"
	"blog-backend/pkg/logger"
)

// ApplicationHandler serves apply-to-write and the staff review queue
type ApplicationHandler struct {
	service service.ApplicationService
}

func NewApplicationHandler(s service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: s}
}

// MyApplications handles GET /apply-to-write/
func (h *ApplicationHandler) MyApplications(c *gin.Context) {
	actor := access.FromContext(c)

	apps, err := h.service.ListMine(c.Request.Context(), actor)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"is_author":    actor.IsAuthor(),
		"applications": apps,
	})
}

// Apply handles POST /apply-to-write/ from anonymous or signed-in visitors
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req model.ApplyRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	res, err := h.service.Submit(c.Request.Context(), access.FromContext(c), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	status := http.StatusOK
	if res.Submitted {
		status = http.StatusCreated
	}
	response.SuccessMessage(c, status, res.Message, res)
}

// List handles GET /admin/applications/?status=&page=&limit=
func (h *ApplicationHandler) List(c *gin.Context) {
	var req model.ListApplicationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	req.Normalize()

	apps, total, err := h.service.List(c.Request.Context(), access.FromContext(c), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, apps, &response.Meta{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: utils.TotalPages(total, req.Limit),
	})
}

// Approve handles POST /admin/applications/:id/approve/
func (h *ApplicationHandler) Approve(c *gin.Context) {
	h.review(c, h.service.Approve, "Application approved")
}

// Reject handles POST /admin/applications/:id/reject/
func (h *ApplicationHandler) Reject(c *gin.Context) {
	h.review(c, h.service.Reject, "Application rejected")
}

type reviewFunc func(ctx context.Context, actor access.Principal, id uuid.UUID) (*model.ReviewResult, error)

func (h *ApplicationHandler) review(c *gin.Context, fn reviewFunc, done string) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Application not found")
		return
	}

	res, err := fn(c.Request.Context(), access.FromContext(c), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	msg := done
	if !res.Changed {
		msg = "Application was already " + string(res.Application.Status)
	}
	response.SuccessMessage(c, http.StatusOK, msg, res)
}

func (h *ApplicationHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		response.ValidationError(c, "Validation failed", verrs)
	case errors.Is(err, access.ErrForbidden):
		response.Deny(c, "Only staff can review applications", "/")
	case errors.Is(err, model.ErrApplicationNotFound),
		errors.Is(err, model.ErrNotPending):
		response.ErrorResponse(c, model.ToHTTPStatus(err), model.ToErrorCode(err), err.Error())
	default:
		logger.Error("Application handler internal error", err)
		response.InternalServerError(c, "Internal server error")
	}
}
