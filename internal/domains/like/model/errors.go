package model

import (
	"errors"
	"net/http"
)

// Error codes
const (
	ErrCodeTargetNotFound   = "LIKE001"
	ErrCodePermissionDenied = "PERMISSION_DENIED"
)

// Errors
var (
	ErrTargetNotFound   = errors.New("like target not found")
	ErrPermissionDenied = errors.New("permission denied")
)

type LikeError struct {
	Code     string
	Message  string
	Redirect string
	Err      error
}

func (e *LikeError) Error() string {
	return e.Message
}

func (e *LikeError) Unwrap() error {
	return e.Err
}

func (e *LikeError) HTTPStatus() int {
	switch {
	case errors.Is(e.Err, ErrTargetNotFound):
		return http.StatusNotFound
	case errors.Is(e.Err, ErrPermissionDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func NewNotFoundError(kind Kind) *LikeError {
	msg := "Post not found"
	if kind == KindComment {
		msg = "Comment not found"
	}
	return &LikeError{Code: ErrCodeTargetNotFound, Message: msg, Err: ErrTargetNotFound}
}

func NewDeniedError(message, redirect string) *LikeError {
	return &LikeError{
		Code:     ErrCodePermissionDenied,
		Message:  message,
		Redirect: redirect,
		Err:      ErrPermissionDenied,
	}
}
