package service

import (
	"context"

	"github.com/google/uuid"

	"blog-backend/internal/domains/author/model"
	"blog-backend/internal/shared/access"
)

// ProfileService reads and edits author profiles
type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.AuthorProfile, error)
	// UpdateProfile edits the caller's own profile; picture may be nil
	UpdateProfile(ctx context.Context, actor access.Principal, req model.UpdateProfileRequest, picture *model.Upload) (*model.AuthorProfile, error)
}

// ApplicationService runs the apply-to-write workflow
type ApplicationService interface {
	Submit(ctx context.Context, actor access.Principal, req model.ApplyRequest) (*model.SubmitResult, error)
	ListMine(ctx context.Context, actor access.Principal) ([]*model.AuthorApplication, error)

	// Staff review
	List(ctx context.Context, actor access.Principal, req model.ListApplicationsRequest) ([]*model.AuthorApplication, int, error)
	Approve(ctx context.Context, actor access.Principal, id uuid.UUID) (*model.ReviewResult, error)
	Reject(ctx context.Context, actor access.Principal, id uuid.UUID) (*model.ReviewResult, error)
}

// PrincipalInvalidator drops a cached principal after its capabilities change.
// user.Service satisfies it.
type PrincipalInvalidator interface {
	InvalidatePrincipal(ctx context.Context, id uuid.UUID)
}
