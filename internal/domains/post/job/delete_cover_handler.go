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

// DeleteCoverHandler removes the objects of a replaced cover
type DeleteCoverHandler struct {
	covers service.CoverService
}

func NewDeleteCoverHandler(covers service.CoverService) *DeleteCoverHandler {
	return &DeleteCoverHandler{covers: covers}
}

func (h *DeleteCoverHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.DeletePostCoverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeletePostCover payload")
		return fmt.Errorf("unmarshal payload: %w: %v", asynq.SkipRetry, err)
	}

	if len(payload.Keys) == 0 {
		return nil
	}

	log.Info().
		Str("post_id", payload.PostID).
		Int("keys", len(payload.Keys)).
		Msg("Deleting replaced post cover")

	if err := h.covers.DeleteCover(ctx, payload.Keys); err != nil {
		log.Error().
			Err(err).
			Str("post_id", payload.PostID).
			Msg("Failed to delete post cover")
		return fmt.Errorf("delete cover: %w", err)
	}

	log.Info().
		Str("post_id", payload.PostID).
		Msg("Post cover deleted successfully")

	return nil
}
