package category

import (
	"time"

	"github.com/google/uuid"
)

// Category groups posts; deleting one leaves its posts uncategorized
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DateCreated time.Time `json:"date_created"`
	// PostCount counts published posts only
	PostCount int `json:"post_count"`
}

// ListCacheKey holds the name-ordered list with post counts.
// Category writes and post status changes delete it.
const (
	ListCacheKey = "categories:all"
	ListCacheTTL = 10 * time.Minute
)
