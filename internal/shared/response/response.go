package response

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type Meta struct {
	Page       int    `json:"page,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Total      int    `json:"total,omitempty"`
	TotalPages int    `json:"total_pages,omitempty"`
	Flash      *Flash `json:"flash,omitempty"`
}

// Flash is a one-shot notice carried across a redirect in a cookie
type Flash struct {
	Level   string `json:"level"` // success, info, error
	Message string `json:"message"`
}

const (
	FlashCookie     = "flash"
	FlashContextKey = "flash"
)

// Success responses
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
		Meta:    withFlash(c, nil),
	})
}

func SuccessMessage(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
		Message: message,
		Meta:    withFlash(c, nil),
	})
}

func SuccessWithMeta(c *gin.Context, statusCode int, data interface{}, meta *Meta) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
		Meta:    withFlash(c, meta),
	})
}

// Error responses
func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Common error responses
func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

func ValidationError(c *gin.Context, message string, details interface{}) {
	ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", message, details)
}

func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", message)
}

func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", message)
}

func Conflict(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusConflict, "CONFLICT", message)
}

func InternalServerError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message)
}

// Deny is the soft permission failure. Browsers get a flash notice and a 302
// to fallback; API clients get a 403 naming the same fallback.
func Deny(c *gin.Context, message, fallback string) {
	if wantsHTML(c) {
		SetFlash(c, "error", message)
		c.Redirect(http.StatusFound, fallback)
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusForbidden, Response{
		Success: false,
		Error: &Error{
			Code:    "PERMISSION_DENIED",
			Message: message,
			Details: gin.H{"redirect": fallback},
		},
	})
}

// SetFlash stores a notice for the next request
func SetFlash(c *gin.Context, level, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(FlashCookie, level+":"+url.QueryEscape(message), 60, "/", "", false, true)
}

// ParseFlash decodes a flash cookie value
func ParseFlash(raw string) *Flash {
	level, msg, ok := strings.Cut(raw, ":")
	if !ok || level == "" {
		return nil
	}
	text, err := url.QueryUnescape(msg)
	if err != nil || text == "" {
		return nil
	}
	return &Flash{Level: level, Message: text}
}

func withFlash(c *gin.Context, meta *Meta) *Meta {
	v, ok := c.Get(FlashContextKey)
	if !ok {
		return meta
	}
	f, ok := v.(*Flash)
	if !ok || f == nil {
		return meta
	}
	if meta == nil {
		meta = &Meta{}
	}
	meta.Flash = f
	return meta
}

func wantsHTML(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}
