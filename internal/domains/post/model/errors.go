package model

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodePostNotFound      = "POST001"
	ErrCodePermissionDenied  = "PERMISSION_DENIED"
	ErrCodeInvalidTransition = "POST003"
	ErrCodeCategoryNotFound  = "POST004"
)

// Errors
var (
	ErrPostNotFound      = errors.New("post not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrCategoryNotFound  = errors.New("unknown category")
)

// PostError carries an envelope code and, for denials, where to send the user
type PostError struct {
	Code     string
	Message  string
	Redirect string
	Err      error
}

func (e *PostError) Error() string {
	return e.Message
}

func (e *PostError) Unwrap() error {
	return e.Err
}

func NewPostNotFoundError() *PostError {
	return &PostError{
		Code:    ErrCodePostNotFound,
		Message: "Post not found",
		Err:     ErrPostNotFound,
	}
}

// NewDeniedError is a soft permission failure
func NewDeniedError(message, redirect string) *PostError {
	return &PostError{
		Code:     ErrCodePermissionDenied,
		Message:  message,
		Redirect: redirect,
		Err:      ErrPermissionDenied,
	}
}

func NewInvalidTransitionError(from, to Status) *PostError {
	return &PostError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("A %s post cannot become %s", from, to),
		Err:     ErrInvalidTransition,
	}
}

// HTTPStatus maps a PostError to its status code
func (e *PostError) HTTPStatus() int {
	switch {
	case errors.Is(e.Err, ErrPostNotFound):
		return http.StatusNotFound
	case errors.Is(e.Err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(e.Err, ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
