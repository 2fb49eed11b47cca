package model

import (
	"errors"
	"net/http"
)

// Error codes
const (
	ErrCodeCommentNotFound  = "COM001"
	ErrCodePermissionDenied = "PERMISSION_DENIED"
	ErrCodePostClosed       = "COM003"
	ErrCodePostNotFound     = "COM004"
)

// Errors
var (
	ErrCommentNotFound  = errors.New("comment not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrPostClosed       = errors.New("post is closed for comments")
	ErrPostNotFound     = errors.New("post not found")
)

// CommentError carries an envelope code and, for denials, a fallback page
type CommentError struct {
	Code     string
	Message  string
	Redirect string
	Err      error
}

func (e *CommentError) Error() string {
	return e.Message
}

func (e *CommentError) Unwrap() error {
	return e.Err
}

func (e *CommentError) HTTPStatus() int {
	switch {
	case errors.Is(e.Err, ErrCommentNotFound), errors.Is(e.Err, ErrPostNotFound):
		return http.StatusNotFound
	case errors.Is(e.Err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(e.Err, ErrPostClosed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func NewCommentNotFoundError() *CommentError {
	return &CommentError{
		Code:    ErrCodeCommentNotFound,
		Message: "Comment not found",
		Err:     ErrCommentNotFound,
	}
}

func NewPostNotFoundError() *CommentError {
	return &CommentError{
		Code:    ErrCodePostNotFound,
		Message: "Post not found",
		Err:     ErrPostNotFound,
	}
}

func NewPostClosedError() *CommentError {
	return &CommentError{
		Code:    ErrCodePostClosed,
		Message: "This post is archived and no longer accepts comments.",
		Err:     ErrPostClosed,
	}
}

func NewDeniedError(message, redirect string) *CommentError {
	return &CommentError{
		Code:     ErrCodePermissionDenied,
		Message:  message,
		Redirect: redirect,
		Err:      ErrPermissionDenied,
	}
}
