package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/post/service"
	"blog-backend/internal/shared"
)

// ProcessCoverHandler generates the resized variants of a post cover
type ProcessCoverHandler struct {
	covers service.CoverService
}

func NewProcessCoverHandler(covers service.CoverService) *ProcessCoverHandler {
	return &ProcessCoverHandler{covers: covers}
}

func (h *ProcessCoverHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ProcessPostCoverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ProcessPostCover payload")
		return fmt.Errorf("unmarshal payload: %w: %v", asynq.SkipRetry, err)
	}

	postID, err := uuid.Parse(payload.PostID)
	if err != nil || payload.OriginalKey == "" {
		log.Error().Str("post_id", payload.PostID).Msg("Malformed ProcessPostCover payload")
		return fmt.Errorf("malformed payload: %w", asynq.SkipRetry)
	}

	log.Info().
		Str("post_id", payload.PostID).
		Str("key", payload.OriginalKey).
		Msg("Processing post cover variants")

	if err := h.covers.ProcessCover(ctx, postID, payload.OriginalKey); err != nil {
		log.Error().
			Err(err).
			Str("post_id", payload.PostID).
			Msg("Failed to process post cover")
		return fmt.Errorf("process cover: %w", err)
	}

	log.Info().
		Str("post_id", payload.PostID).
		Msg("Post cover processed successfully")

	return nil
}
