package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"blog-backend/internal/domains/category"
	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/shared/access"
)

// PostService holds the visibility and moderation rules of posts
type PostService interface {
	// Public listings: published posts only
	Home(ctx context.Context, filter model.ListFilter) (*model.HomePage, error)
	Search(ctx context.Context, query string, page int) (*model.HomePage, error)
	ByCategory(ctx context.Context, name string, page int) (*model.HomePage, error)
	// ByAuthor lists an author's non-archived posts the viewer may see
	ByAuthor(ctx context.Context, viewer access.Principal, authorID uuid.UUID, page int) (*model.PageResult, error)

	// Detail checks visibility, then counts the view
	Detail(ctx context.Context, viewer access.Principal, id uuid.UUID) (*model.PostDetail, error)

	Create(ctx context.Context, actor access.Principal, form model.PostForm, cover *model.Upload) (*model.Post, error)
	Update(ctx context.Context, actor access.Principal, id uuid.UUID, form model.PostForm, cover *model.Upload) (*model.Post, error)
	Archive(ctx context.Context, actor access.Principal, id uuid.UUID) (*model.TransitionResult, error)
	Publish(ctx context.Context, actor access.Principal, id uuid.UUID) (*model.TransitionResult, error)

	Dashboard(ctx context.Context, actor access.Principal) (*model.Dashboard, error)
	Archived(ctx context.Context, actor access.Principal, page int) (*model.PageResult, error)
	History(ctx context.Context, actor access.Principal, id uuid.UUID) ([]model.StatusEvent, error)
}

// CoverService is the background half of cover images
type CoverService interface {
	ProcessCover(ctx context.Context, postID uuid.UUID, originalKey string) error
	DeleteCover(ctx context.Context, keys []string) error
	// CleanupOrphans removes cover folders whose post is gone
	CleanupOrphans(ctx context.Context, limit int) (int, error)
}

// CategoryLookup resolves a category page by name
type CategoryLookup interface {
	GetByName(ctx context.Context, name string) (*category.Category, error)
}

// TaskEnqueuer is satisfied by *asynq.Client
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
