package repository

import (
	"context"

	"github.com/google/uuid"

	"blog-backend/internal/domains/comment/model"
)

// CommentRepository is the data access of comments
type CommentRepository interface {
	Create(ctx context.Context, c *model.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	UpdateText(ctx context.Context, id uuid.UUID, text string) (*model.Comment, error)
	// Delete removes the comment with its replies and likes
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByPost returns every comment of the post, oldest first. viewerID
	// fills UserHasLiked when set.
	ListByPost(ctx context.Context, postID uuid.UUID, viewerID *uuid.UUID) ([]model.Comment, error)
}
