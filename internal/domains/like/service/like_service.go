package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	commentmodel "blog-backend/internal/domains/comment/model"
	"blog-backend/internal/domains/like/model"
	"blog-backend/internal/domains/like/repository"
	postmodel "blog-backend/internal/domains/post/model"
	"blog-backend/internal/shared/access"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/logger"
)

// LikeService toggles likes on posts and comments
type LikeService interface {
	TogglePost(ctx context.Context, actor access.Principal, postID uuid.UUID) (*model.ToggleResult, error)
	ToggleComment(ctx context.Context, actor access.Principal, commentID uuid.UUID) (*model.ToggleResult, error)
}

type PostReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*postmodel.Post, error)
}

type CommentReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*commentmodel.Comment, error)
}

const (
	lockAttempts   = 3
	lockRetryDelay = 50 * time.Millisecond
)

type likeService struct {
	repo     repository.LikeRepository
	posts    PostReader
	comments CommentReader
	locks    cache.Cache
}

func NewLikeService(repo repository.LikeRepository, posts PostReader, comments CommentReader, locks cache.Cache) LikeService {
	return &likeService{
		repo:     repo,
		posts:    posts,
		comments: comments,
		locks:    locks,
	}
}

func (s *likeService) TogglePost(ctx context.Context, actor access.Principal, postID uuid.UUID) (*model.ToggleResult, error) {
	if actor.IsAnonymous() {
		return nil, model.NewDeniedError("Please log in to like posts.", "/login/")
	}
	if err := s.checkPost(ctx, actor, postID, model.KindPost); err != nil {
		return nil, err
	}
	return s.toggle(ctx, actor, model.KindPost, postID)
}

func (s *likeService) ToggleComment(ctx context.Context, actor access.Principal, commentID uuid.UUID) (*model.ToggleResult, error) {
	if actor.IsAnonymous() {
		return nil, model.NewDeniedError("Please log in to like comments.", "/login/")
	}

	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, commentmodel.ErrCommentNotFound) {
			return nil, model.NewNotFoundError(model.KindComment)
		}
		return nil, err
	}
	if err := s.checkPost(ctx, actor, c.PostID, model.KindComment); err != nil {
		return nil, err
	}
	return s.toggle(ctx, actor, model.KindComment, commentID)
}

// checkPost requires the actor to be able to see the post
func (s *likeService) checkPost(ctx context.Context, actor access.Principal, postID uuid.UUID, kind model.Kind) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, postmodel.ErrPostNotFound) {
			return model.NewNotFoundError(kind)
		}
		return err
	}
	if !postmodel.CanView(actor, post) {
		return model.NewDeniedError("You do not have permission to view this post.", "/")
	}
	return nil
}

func (s *likeService) toggle(ctx context.Context, actor access.Principal, kind model.Kind, targetID uuid.UUID) (*model.ToggleResult, error) {
	// Step 1: Serialize this user's clicks on this target
	key := model.LockKey(kind, targetID, actor.UserID)
	token := uuid.NewString()
	locked, err := s.acquire(ctx, key, token)
	if err != nil {
		return nil, err
	}
	if locked {
		defer s.release(key, token)
	}

	// Step 2: Flip and re-count in one transaction
	liked, count, err := s.repo.Toggle(ctx, kind, targetID, actor.UserID)
	if err != nil {
		if errors.Is(err, model.ErrTargetNotFound) {
			return nil, model.NewNotFoundError(kind)
		}
		return nil, err
	}

	logger.Debug(fmt.Sprintf("[LIKE] %s %s toggled by %s, liked=%t", kind, targetID, actor.UserID, liked))

	return &model.ToggleResult{
		Liked:      liked,
		LikesCount: count,
		Message:    model.Message(kind, liked),
	}, nil
}

// acquire retries a held lock briefly. A cache failure or a lock that
// stays held proceeds unlocked; the toggle transaction and the composite
// primary key still prevent double likes.
func (s *likeService) acquire(ctx context.Context, key, token string) (bool, error) {
	for attempt := 0; attempt < lockAttempts; attempt++ {
		ok, err := s.locks.SetNX(ctx, key, token, model.LockTTL)
		if err != nil {
			logger.Warn("[LIKE] Lock unavailable, toggling without it", map[string]interface{}{"error": err.Error()})
			return false, nil
		}
		if ok {
			return true, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
	logger.Warn("[LIKE] Lock still held, toggling without it", map[string]interface{}{"key": key})
	return false, nil
}

func (s *likeService) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.locks.CompareAndDelete(ctx, key, token); err != nil {
		logger.Warn("[LIKE] Failed to release lock", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
