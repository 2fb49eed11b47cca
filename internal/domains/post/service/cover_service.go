package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/domains/post/repository"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/pkg/logger"
)

const coverRoot = "posts/"

type coverService struct {
	repo      repository.PostRepository
	storage   storage.ObjectStorage
	processor *storage.ImageProcessor
}

func NewCoverService(
	repo repository.PostRepository,
	objects storage.ObjectStorage,
	processor *storage.ImageProcessor,
) CoverService {
	return &coverService{
		repo:      repo,
		storage:   objects,
		processor: processor,
	}
}

// ProcessCover generates the variants of an uploaded original (called from the worker)
func (s *coverService) ProcessCover(ctx context.Context, postID uuid.UUID, originalKey string) error {
	// Step 1: Download the original
	data, err := s.storage.Download(ctx, originalKey)
	if err != nil {
		return fmt.Errorf("download original: %w", err)
	}

	if _, err := s.processor.ValidateImage(data); err != nil {
		return fmt.Errorf("invalid original: %w", err)
	}

	// Step 2: Resize
	variants, err := s.processor.ProcessImage(data)
	if err != nil {
		return fmt.Errorf("process image: %w", err)
	}

	// Step 3: Upload every variant
	uploaded := make([]string, 0, len(variants))
	urls := make(map[string]string, len(variants))
	for name, variant := range variants {
		key := model.CoverVariantKey(originalKey, name)
		url, err := s.storage.Upload(ctx, key, variant, "image/jpeg")
		if err != nil {
			return fmt.Errorf("upload %s variant: %w", name, err)
		}
		uploaded = append(uploaded, key)
		urls[name] = url
	}

	// Step 4: Store the thumbnail unless the cover was replaced meanwhile
	stored, err := s.repo.SetThumbnail(ctx, postID, originalKey, urls["thumbnail"])
	if err != nil {
		return err
	}
	if !stored {
		logger.Warn("[COVER] Cover replaced before processing finished", map[string]interface{}{
			"post_id": postID.String(),
			"key":     originalKey,
		})
		return s.DeleteCover(ctx, uploaded)
	}

	logger.Info("[COVER] Variants generated", map[string]interface{}{
		"post_id":  postID.String(),
		"variants": len(uploaded),
	})
	return nil
}

func (s *coverService) DeleteCover(ctx context.Context, keys []string) error {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}

// CleanupOrphans removes at most limit folders under posts/ without a post row
func (s *coverService) CleanupOrphans(ctx context.Context, limit int) (int, error) {
	folders, err := s.storage.ListFolders(ctx, coverRoot)
	if err != nil {
		return 0, err
	}

	ids := make([]uuid.UUID, 0, len(folders))
	for _, name := range folders {
		id, err := uuid.Parse(name)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	existing, err := s.repo.ExistingIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, id := range ids {
		if limit > 0 && removed >= limit {
			break
		}
		if existing[id] {
			continue
		}
		if err := s.storage.RemoveFolder(ctx, model.CoverFolder(id)); err != nil {
			return removed, err
		}
		removed++
	}

	if removed > 0 {
		logger.Info("[COVER] Orphan folders removed", map[string]interface{}{"count": removed})
	}
	return removed, nil
}
