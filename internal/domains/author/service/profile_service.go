package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"blog-backend/internal/domains/author/model"
	"blog-backend/internal/domains/author/repository"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/internal/shared/access"
	"blog-backend/pkg/logger"
)

type profileService struct {
	repo      repository.ProfileRepository
	storage   storage.ObjectStorage
	processor *storage.ImageProcessor
}

func NewProfileService(
	repo repository.ProfileRepository,
	objects storage.ObjectStorage,
	processor *storage.ImageProcessor,
) ProfileService {
	return &profileService{
		repo:      repo,
		storage:   objects,
		processor: processor,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.AuthorProfile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *profileService) UpdateProfile(
	ctx context.Context,
	actor access.Principal,
	req model.UpdateProfileRequest,
	picture *model.Upload,
) (*model.AuthorProfile, error) {
	// Step 1: Only authors own a profile
	if !actor.IsAuthor() {
		return nil, model.ErrNotAuthor
	}

	// Step 2: Validate fields and picture before touching storage
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var format string
	if picture != nil {
		f, err := s.processor.ValidateImage(picture.Data)
		if err != nil {
			return nil, err
		}
		format = f
	}

	// Step 3: Load current profile
	profile, err := s.repo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	profile.Bio = req.Bio
	profile.Website = req.Website
	profile.LinkedinURL = req.LinkedinURL
	profile.TwitterURL = req.TwitterURL
	profile.FacebookURL = req.FacebookURL
	profile.GithubURL = req.GithubURL

	// Step 4: Upload picture under a stable per-author key
	if picture != nil {
		key := model.ProfilePictureKey(actor.UserID, storage.Extension(format))
		url, err := s.storage.Upload(ctx, key, picture.Data, storage.ContentType(format))
		if err != nil {
			return nil, fmt.Errorf("upload profile picture: %w", err)
		}
		profile.ProfilePictureURL = url
	}

	// Step 5: Persist
	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}

	logger.Info("[AUTHOR] Profile updated", map[string]interface{}{
		"user_id":     actor.UserID.String(),
		"new_picture": picture != nil,
	})
	return profile, nil
}
