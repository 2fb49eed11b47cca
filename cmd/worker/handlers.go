package main

import (
	"github.com/hibiken/asynq"

	postJob "blog-backend/internal/domains/post/job"
	"blog-backend/internal/shared"
	"blog-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Media
	processCover *postJob.ProcessCoverHandler
	deleteCover  *postJob.DeleteCoverHandler

	// Maintenance
	cleanupOrphans *postJob.CleanupOrphansHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		processCover:   postJob.NewProcessCoverHandler(c.CoverService),
		deleteCover:    postJob.NewDeleteCoverHandler(c.CoverService),
		cleanupOrphans: postJob.NewCleanupOrphansHandler(c.CoverService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeProcessPostCover, h.processCover.ProcessTask)
	mux.HandleFunc(shared.TypeDeletePostCover, h.deleteCover.ProcessTask)

	mux.HandleFunc(shared.TypeCleanupOrphanPostCovers, h.cleanupOrphans.ProcessTask)
}
