package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidateImage(t *testing.T) {
	p := NewImageProcessor(0)
	data := encodePNG(t, 20, 10)

	format, err := p.ValidateImage(data)
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	_, err = p.ValidateImage([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrImageNotDecoded)

	small := NewImageProcessor(int64(len(data) - 1))
	_, err = small.ValidateImage(data)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestProcessImage_FitsVariants(t *testing.T) {
	p := NewImageProcessor(0)
	variants, err := p.ProcessImage(encodePNG(t, 1600, 800))
	require.NoError(t, err)
	require.Len(t, variants, 3)

	thumb, err := jpeg.DecodeConfig(bytes.NewReader(variants["thumbnail"]))
	require.NoError(t, err)
	assert.Equal(t, 300, thumb.Width)
	assert.Equal(t, 150, thumb.Height)

	large, err := jpeg.DecodeConfig(bytes.NewReader(variants["large"]))
	require.NoError(t, err)
	assert.Equal(t, 1200, large.Width)
}

func TestExtensionAndContentType(t *testing.T) {
	assert.Equal(t, "jpg", Extension("jpeg"))
	assert.Equal(t, "png", Extension("png"))
	assert.Equal(t, "image/gif", ContentType("gif"))
}
