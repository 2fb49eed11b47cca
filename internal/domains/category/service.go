package category

import (
	"context"

	"github.com/google/uuid"

	"blog-backend/internal/shared/access"
)

type Service interface {
	List(ctx context.Context) ([]Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)

	// Staff only
	Create(ctx context.Context, actor access.Principal, req CreateCategoryRequest) (*Category, error)
	Update(ctx context.Context, actor access.Principal, id uuid.UUID, req UpdateCategoryRequest) (*Category, error)
	Delete(ctx context.Context, actor access.Principal, id uuid.UUID) error
}
