package repository

import (
	"context"

	"github.com/google/uuid"

	"blog-backend/internal/domains/post/model"
)

// PostRepository is the data access of posts, their views and audit trail
type PostRepository interface {
	// Create inserts the post and its first status event together
	Create(ctx context.Context, post *model.Post, actorID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	GetSummary(ctx context.Context, id uuid.UUID) (*model.PostSummary, error)

	// Update writes the editable fields and refreshes date_updated
	Update(ctx context.Context, post *model.Post) error
	// SetThumbnail stores a generated thumbnail while key is still the cover
	SetThumbnail(ctx context.Context, id uuid.UUID, key, thumbnailURL string) (bool, error)

	// Transition moves a post from one status to another and records the
	// event in one transaction. It fails with model.ErrInvalidTransition
	// when the post is no longer in from.
	Transition(ctx context.Context, id uuid.UUID, from, to model.Status, actorID uuid.UUID) (*model.Post, error)
	History(ctx context.Context, id uuid.UUID) ([]model.StatusEvent, error)

	// RecordView bumps view_count without touching date_updated and, for a
	// signed-in viewer, records the first view. Returns the new count.
	RecordView(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (int64, error)
	RecentViews(ctx context.Context, userID uuid.UUID, limit int) ([]model.RecentView, error)

	List(ctx context.Context, q model.ListQuery) ([]model.PostSummary, int, error)
	// ListPopular orders published posts by views + 10 x likes
	ListPopular(ctx context.Context, limit int) ([]model.PostSummary, error)
	AuthorStats(ctx context.Context, authorID uuid.UUID) (*model.AuthorStats, error)
	HasLiked(ctx context.Context, postID, userID uuid.UUID) (bool, error)

	// ExistingIDs returns the subset of ids that still have a post row
	ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error)
}
