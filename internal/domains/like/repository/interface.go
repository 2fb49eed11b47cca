package repository

import (
	"context"

	"github.com/google/uuid"

	"blog-backend/internal/domains/like/model"
)

type LikeRepository interface {
	// Toggle removes an existing like or adds a missing one, then re-counts
	Toggle(ctx context.Context, kind model.Kind, targetID, userID uuid.UUID) (liked bool, count int64, err error)
}
