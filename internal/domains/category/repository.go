package category

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	// GetByName matches case-insensitively
	GetByName(ctx context.Context, name string) (*Category, error)
	// ListWithCounts returns every category by name with published post counts
	ListWithCounts(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}
