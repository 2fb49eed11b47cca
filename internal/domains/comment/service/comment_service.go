package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"blog-backend/internal/domains/comment/model"
	"blog-backend/internal/domains/comment/repository"
	postmodel "blog-backend/internal/domains/post/model"
	"blog-backend/internal/shared/access"
	"blog-backend/internal/shared/utils"
	"blog-backend/pkg/logger"
)

type commentService struct {
	repo  repository.CommentRepository
	posts PostReader
}

func NewCommentService(repo repository.CommentRepository, posts PostReader) CommentService {
	return &commentService{repo: repo, posts: posts}
}

func postURL(id uuid.UUID) string {
	return "/post/" + id.String() + "/"
}

func (s *commentService) Add(ctx context.Context, actor access.Principal, postID uuid.UUID, form model.CommentForm) (*model.Comment, error) {
	if actor.IsAnonymous() {
		return nil, model.NewDeniedError("Please log in to comment.", "/login/")
	}

	post, err := s.openPost(ctx, actor, postID)
	if err != nil {
		return nil, err
	}

	return s.create(ctx, actor, post.ID, nil, form)
}

func (s *commentService) Reply(ctx context.Context, actor access.Principal, parentID uuid.UUID, form model.CommentForm) (*model.Comment, error) {
	if actor.IsAnonymous() {
		return nil, model.NewDeniedError("Please log in to reply.", "/login/")
	}

	// Step 1: The reply lives on the parent's post
	parent, err := s.repo.GetByID(ctx, parentID)
	if err != nil {
		return nil, commentNotFound(err)
	}

	// Step 2: Same gate as a top-level comment
	post, err := s.openPost(ctx, actor, parent.PostID)
	if err != nil {
		return nil, err
	}

	return s.create(ctx, actor, post.ID, &parent.ID, form)
}

// openPost loads a post the actor may comment on
func (s *commentService) openPost(ctx context.Context, actor access.Principal, postID uuid.UUID) (*postmodel.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, postmodel.ErrPostNotFound) {
			return nil, model.NewPostNotFoundError()
		}
		return nil, err
	}
	if !postmodel.CanView(actor, post) {
		return nil, model.NewDeniedError("You do not have permission to view this post.", "/")
	}
	if !model.CanComment(actor, post) {
		return nil, model.NewPostClosedError()
	}
	return post, nil
}

func (s *commentService) create(ctx context.Context, actor access.Principal, postID uuid.UUID, parentID *uuid.UUID, form model.CommentForm) (*model.Comment, error) {
	form.Normalize()
	if err := form.Validate(); err != nil {
		return nil, err
	}

	c := &model.Comment{
		PostID:   postID,
		AuthorID: actor.UserID,
		ParentID: parentID,
		Text:     form.Text,
		Author:   model.Author{ID: actor.UserID, Username: actor.Username},
	}
	if err := s.repo.Create(ctx, c); err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			return nil, model.NewPostNotFoundError()
		case errors.Is(err, model.ErrCommentNotFound):
			return nil, model.NewCommentNotFoundError()
		}
		return nil, err
	}

	fields := map[string]interface{}{
		"comment_id": c.ID.String(),
		"post_id":    postID.String(),
		"author":     actor.UserID.String(),
	}
	if parentID != nil {
		fields["parent_id"] = parentID.String()
	}
	logger.Info("[COMMENT] Created", fields)
	return c, nil
}

func (s *commentService) Delete(ctx context.Context, actor access.Principal, id uuid.UUID) (*model.Comment, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, commentNotFound(err)
	}
	if !model.CanDelete(actor, c) {
		return nil, model.NewDeniedError("You do not have permission to delete this comment.", postURL(c.PostID))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, commentNotFound(err)
	}

	logger.Info("[COMMENT] Deleted", map[string]interface{}{
		"comment_id": id.String(),
		"post_id":    c.PostID.String(),
		"by":         actor.UserID.String(),
	})
	return c, nil
}

func (s *commentService) Edit(ctx context.Context, actor access.Principal, id uuid.UUID, form model.CommentForm) (*model.Comment, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, commentNotFound(err)
	}
	if !model.CanEdit(actor, c) {
		return nil, model.NewDeniedError("You can only edit your own comments.", postURL(c.PostID))
	}

	form.Normalize()
	if err := form.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateText(ctx, id, form.Text)
	if err != nil {
		return nil, commentNotFound(err)
	}
	return updated, nil
}

func (s *commentService) Thread(ctx context.Context, viewer access.Principal, postID uuid.UUID) (*model.Thread, error) {
	var viewerID *uuid.UUID
	if !viewer.IsAnonymous() {
		viewerID = utils.UUIDPtr(viewer.UserID)
	}

	flat, err := s.repo.ListByPost(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}

	return model.BuildThread(flat, func(n *model.Node) {
		n.CanEdit = model.CanEdit(viewer, &n.Comment)
		n.CanDelete = model.CanDelete(viewer, &n.Comment)
	}), nil
}

func commentNotFound(err error) error {
	if errors.Is(err, model.ErrCommentNotFound) {
		return model.NewCommentNotFoundError()
	}
	return err
}
