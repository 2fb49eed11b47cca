package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"blog-backend/internal/domains/user"
	"blog-backend/internal/shared/access"
	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/response"
	"blog-backend/pkg/logger"
)

// UserHandler serves signup, login, logout and account administration
type UserHandler struct {
	service      user.Service
	cookieSecure bool
}

func NewUserHandler(service user.Service, cookieSecure bool) *UserHandler {
	return &UserHandler{service: service, cookieSecure: cookieSecure}
}

// Signup handles POST /signup/
func (h *UserHandler) Signup(c *gin.Context) {
	var req user.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	dto, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessMessage(c, http.StatusCreated, "Registration is successful", dto)
}

// Login handles POST /login/ with email and password
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setSessionCookie(c, res)
	response.SuccessMessage(c, http.StatusOK, "Welcome back, "+res.User.FullName, res)
}

// RefreshToken handles POST /token/refresh/
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req user.RefreshTokenRequest
	if err := c.ShouldBind(&req); err != nil || req.RefreshToken == "" {
		response.BadRequest(c, "refresh_token is required")
		return
	}

	res, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setSessionCookie(c, res)
	response.Success(c, http.StatusOK, res)
}

// Logout handles POST /logout/
func (h *UserHandler) Logout(c *gin.Context) {
	claims, _ := middleware.ClaimsFromContext(c)
	if err := h.service.Logout(c.Request.Context(), claims); err != nil {
		logger.Error("Failed to revoke token on logout", err)
		response.InternalServerError(c, "Failed to log out")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.cookieSecure, true)
	response.SuccessMessage(c, http.StatusOK, "You have been logged out", nil)
}

// DeleteUser handles POST /admin/users/:id/delete/ (superuser)
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "User not found")
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), access.FromContext(c), id); err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessMessage(c, http.StatusOK, "User deleted", gin.H{"id": id})
}

func (h *UserHandler) setSessionCookie(c *gin.Context, res *user.LoginResponse) {
	maxAge := int(time.Until(res.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, res.AccessToken, maxAge, "/", "", h.cookieSecure, true)
}

func (h *UserHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		response.ValidationError(c, "Validation failed", verrs)

	case errors.Is(err, user.ErrEmailNotFound):
		response.ValidationError(c, err.Error(), gin.H{"email": err.Error()})
	case errors.Is(err, user.ErrIncorrectPassword):
		response.ValidationError(c, err.Error(), gin.H{"password": err.Error()})

	case errors.Is(err, user.ErrUserInactive),
		errors.Is(err, user.ErrInvalidToken):
		response.Unauthorized(c, err.Error())

	case errors.Is(err, access.ErrForbidden),
		errors.Is(err, user.ErrCannotDeleteSelf):
		response.Deny(c, err.Error(), "/")

	case errors.Is(err, user.ErrUserNotFound):
		response.NotFound(c, "User not found")

	case errors.Is(err, user.ErrEmailAlreadyExists):
		response.ValidationError(c, err.Error(), gin.H{"email": err.Error()})
	case errors.Is(err, user.ErrUsernameAlreadyExists):
		response.ValidationError(c, err.Error(), gin.H{"username": err.Error()})

	case errors.Is(err, user.ErrTooManyAttempts):
		response.ErrorResponse(c, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", err.Error())

	default:
		logger.Error("User handler internal error", err)
		response.InternalServerError(c, "Internal server error")
	}
}
