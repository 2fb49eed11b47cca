package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

const DefaultMaxImageBytes = 5 * 1024 * 1024

var (
	ErrImageTooLarge   = errors.New("image file too large ( > 5MB )")
	ErrImageNotDecoded = errors.New("file is not a valid image")
	ErrImageFormat     = errors.New("unsupported image format, use jpg, jpeg, png or gif")
)

// Variant widths. Every variant is re-encoded as JPEG.
var variantSizes = map[string]int{
	"large":     1200,
	"medium":    600,
	"thumbnail": 300,
}

type ImageProcessor struct {
	MaxSize int64
}

func NewImageProcessor(maxSize int64) *ImageProcessor {
	if maxSize <= 0 {
		maxSize = DefaultMaxImageBytes
	}
	return &ImageProcessor{MaxSize: maxSize}
}

// ValidateImage checks size first, then that data decodes as jpeg, png or gif.
// It returns the detected format.
func (p *ImageProcessor) ValidateImage(data []byte) (string, error) {
	if int64(len(data)) > p.MaxSize {
		return "", ErrImageTooLarge
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", ErrImageNotDecoded
	}
	switch format {
	case "jpeg", "png", "gif":
		return format, nil
	default:
		return "", ErrImageFormat
	}
}

// ProcessImage returns variant name -> JPEG bytes (quality 90)
func (p *ImageProcessor) ProcessImage(data []byte) (map[string][]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	variants := make(map[string][]byte, len(variantSizes))
	for name, size := range variantSizes {
		resized := imaging.Fit(img, size, size, imaging.Lanczos)
		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: 90}); err != nil {
			return nil, fmt.Errorf("cannot encode %s: %w", name, err)
		}
		variants[name] = buf.Bytes()
	}
	return variants, nil
}

// Extension maps a decoded format to the stored file extension
func Extension(format string) string {
	switch format {
	case "jpeg":
		return "jpg"
	default:
		return format
	}
}

func ContentType(format string) string {
	return "image/" + format
}
