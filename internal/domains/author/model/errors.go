package model

import "errors"

var (
	ErrProfileNotFound     = errors.New("author profile not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrNotPending          = errors.New("only pending applications can be reviewed")
	// ErrOpenApplication is a unique index hit on a user or email that
	// already has a non-rejected application
	ErrOpenApplication = errors.New("an application is already under review")
	ErrNotAuthor       = errors.New("only authors have a profile")
)

// ToHTTPStatus maps domain errors to HTTP status codes
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrProfileNotFound), errors.Is(err, ErrApplicationNotFound):
		return 404
	case errors.Is(err, ErrNotPending):
		return 409
	case errors.Is(err, ErrNotAuthor):
		return 403
	default:
		return 500
	}
}

// ToErrorCode maps domain errors to envelope codes
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		return "PROFILE_NOT_FOUND"
	case errors.Is(err, ErrApplicationNotFound):
		return "APPLICATION_NOT_FOUND"
	case errors.Is(err, ErrNotPending):
		return "APPLICATION_NOT_PENDING"
	case errors.Is(err, ErrNotAuthor):
		return "PERMISSION_DENIED"
	default:
		return "INTERNAL_ERROR"
	}
}
