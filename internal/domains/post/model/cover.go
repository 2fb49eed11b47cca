package model

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// CoverVariants are generated by the worker next to the original
var CoverVariants = []string{"large", "medium", "thumbnail"}

// CoverFolder is the object prefix holding every cover of a post
func CoverFolder(postID uuid.UUID) string {
	return "posts/" + postID.String() + "/"
}

// NewCoverKey names a freshly uploaded original. Each upload gets a new key
// so a replaced cover can be deleted without racing the new one.
func NewCoverKey(postID uuid.UUID, ext string) string {
	return CoverFolder(postID) + "cover-" + uuid.NewString()[:8] + "." + ext
}

// CoverVariantKey derives a variant key from its original
func CoverVariantKey(originalKey, variant string) string {
	base := strings.TrimSuffix(originalKey, path.Ext(originalKey))
	return base + "-" + variant + ".jpg"
}

// CoverKeys is the original plus all its variants
func CoverKeys(originalKey string) []string {
	keys := []string{originalKey}
	for _, v := range CoverVariants {
		keys = append(keys, CoverVariantKey(originalKey, v))
	}
	return keys
}
