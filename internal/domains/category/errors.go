package category

import (
	"errors"
	"net/http"
)

var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryNameExists = errors.New("a category with this name already exists")
)

// GetHTTPStatusCode maps category errors to HTTP status codes
func GetHTTPStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrCategoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrCategoryNameExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
