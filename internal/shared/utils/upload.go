package utils

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReadFormFile reads an optional multipart file. It returns found=false when
// the field is absent. At most max+1 bytes are read so an oversized file
// still fails size validation downstream.
func ReadFormFile(c *gin.Context, field string, max int64) (filename string, data []byte, found bool, err error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil, false, nil
		}
		return "", nil, false, fmt.Errorf("read form file %s: %w", field, err)
	}

	f, err := header.Open()
	if err != nil {
		return "", nil, false, fmt.Errorf("open form file %s: %w", field, err)
	}
	defer f.Close()

	data, err = io.ReadAll(io.LimitReader(f, max+1))
	if err != nil {
		return "", nil, false, fmt.Errorf("read form file %s: %w", field, err)
	}
	return header.Filename, data, true, nil
}
