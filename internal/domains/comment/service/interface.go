package service

import (
	"context"

	"github.com/google/uuid"

	"blog-backend/internal/domains/comment/model"
	postmodel "blog-backend/internal/domains/post/model"
	"blog-backend/internal/shared/access"
)

// CommentService holds the comment authoring and moderation rules
type CommentService interface {
	Add(ctx context.Context, actor access.Principal, postID uuid.UUID, form model.CommentForm) (*model.Comment, error)
	// Reply attaches to the parent's post, at any depth
	Reply(ctx context.Context, actor access.Principal, parentID uuid.UUID, form model.CommentForm) (*model.Comment, error)
	// Delete returns the removed comment so callers can go back to its post
	Delete(ctx context.Context, actor access.Principal, id uuid.UUID) (*model.Comment, error)
	Edit(ctx context.Context, actor access.Principal, id uuid.UUID, form model.CommentForm) (*model.Comment, error)
	// Thread does not check post visibility; callers load the post first
	Thread(ctx context.Context, viewer access.Principal, postID uuid.UUID) (*model.Thread, error)
}

// PostReader is the slice of the post repository comments need
type PostReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*postmodel.Post, error)
}
