package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/post/service"
	"blog-backend/internal/shared"
)

// DefaultCleanupLimit bounds a scheduled run without a payload limit
const DefaultCleanupLimit = 100

// CleanupOrphansHandler drops cover folders left behind by deleted posts
type CleanupOrphansHandler struct {
	covers service.CoverService
}

func NewCleanupOrphansHandler(covers service.CoverService) *CleanupOrphansHandler {
	return &CleanupOrphansHandler{covers: covers}
}

func (h *CleanupOrphansHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload := shared.CleanupOrphanCoversPayload{Limit: DefaultCleanupLimit}

	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			log.Error().Err(err).Msg("Failed to unmarshal CleanupOrphanCovers payload")
			return fmt.Errorf("unmarshal payload: %w: %v", asynq.SkipRetry, err)
		}
	}
	if payload.Limit <= 0 {
		payload.Limit = DefaultCleanupLimit
	}

	removed, err := h.covers.CleanupOrphans(ctx, payload.Limit)
	if err != nil {
		log.Error().Err(err).Int("removed", removed).Msg("Orphan cover cleanup failed")
		return fmt.Errorf("cleanup orphans: %w", err)
	}

	log.Info().Int("removed", removed).Msg("Orphan cover cleanup finished")
	return nil
}
