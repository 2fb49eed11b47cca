package repository

import (
	"context"

	"github.com/google/uuid"

	"blog-backend/internal/domains/author/model"
)

// ProfileRepository persists author profiles
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.AuthorProfile, error)
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
	Update(ctx context.Context, p *model.AuthorProfile) error
}

// ApplicationRepository persists author applications
type ApplicationRepository interface {
	// Create returns model.ErrOpenApplication when the user or email already
	// has a non-rejected application
	Create(ctx context.Context, app *model.AuthorApplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.AuthorApplication, error)

	// FindOpenByUser / FindOpenByEmail return the newest pending or approved
	// application, nil when there is none
	FindOpenByUser(ctx context.Context, userID uuid.UUID) (*model.AuthorApplication, error)
	FindOpenByEmail(ctx context.Context, email string) (*model.AuthorApplication, error)

	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.AuthorApplication, error)
	List(ctx context.Context, status model.ApplicationStatus, limit, offset int) ([]*model.AuthorApplication, int, error)

	// Approve moves a pending application to approved in one transaction:
	// links an unlinked application to the user with the same email, records
	// the reviewer and materializes the author profile. It returns
	// model.ErrNotPending when the row is no longer pending.
	Approve(ctx context.Context, id, reviewerID uuid.UUID) (*model.AuthorApplication, bool, error)

	// Reject moves a pending application to rejected
	Reject(ctx context.Context, id, reviewerID uuid.UUID) (*model.AuthorApplication, error)
}
