package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"blog-backend/internal/domains/category"
	"blog-backend/internal/shared/access"
	"blog-backend/internal/shared/response"
	"blog-backend/pkg/logger"
)

type CategoryHandler struct {
	service category.Service
}

func NewCategoryHandler(svc category.Service) *CategoryHandler {
	return &CategoryHandler{service: svc}
}

// List handles GET /categories/
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// Create handles POST /admin/categories/
func (h *CategoryHandler) Create(c *gin.Context) {
	var req category.CreateCategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	created, err := h.service.Create(c.Request.Context(), access.FromContext(c), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusCreated, "Category created", created)
}

// Update handles POST /admin/categories/:id/update/
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Category not found")
		return
	}

	var req category.UpdateCategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.service.Update(c.Request.Context(), access.FromContext(c), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusOK, "Category updated", updated)
}

// Delete handles POST /admin/categories/:id/delete/
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Category not found")
		return
	}

	if err := h.service.Delete(c.Request.Context(), access.FromContext(c), id); err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessMessage(c, http.StatusOK, "Category deleted", gin.H{"id": id})
}

func (h *CategoryHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		response.ValidationError(c, "Validation failed", verrs)
	case errors.Is(err, access.ErrForbidden):
		response.Deny(c, "Only staff can manage categories", "/")
	case errors.Is(err, category.ErrCategoryNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, category.ErrCategoryNameExists):
		response.ValidationError(c, err.Error(), gin.H{"name": err.Error()})
	default:
		logger.Error("Category handler internal error", err)
		response.InternalServerError(c, "Internal server error")
	}
}
