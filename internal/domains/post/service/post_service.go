package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"blog-backend/internal/domains/category"
	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/domains/post/repository"
	"blog-backend/internal/infrastructure/events"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/internal/shared"
	"blog-backend/internal/shared/access"
	"blog-backend/internal/shared/utils"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/logger"
)

type postService struct {
	repo       repository.PostRepository
	categories CategoryLookup
	storage    storage.ObjectStorage
	processor  *storage.ImageProcessor
	queue      TaskEnqueuer
	publisher  events.Publisher
	cache      cache.Cache
}

func NewPostService(
	repo repository.PostRepository,
	categories CategoryLookup,
	objects storage.ObjectStorage,
	processor *storage.ImageProcessor,
	queue TaskEnqueuer,
	publisher events.Publisher,
	c cache.Cache,
) PostService {
	return &postService{
		repo:       repo,
		categories: categories,
		storage:    objects,
		processor:  processor,
		queue:      queue,
		publisher:  publisher,
		cache:      c,
	}
}

func postURL(id uuid.UUID) string {
	return "/post/" + id.String() + "/"
}

// =====================================================
// PUBLIC LISTINGS
// =====================================================

func (s *postService) Home(ctx context.Context, filter model.ListFilter) (*model.HomePage, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	filter.Category = strings.TrimSpace(filter.Category)

	page, err := s.listPage(ctx, model.ListQuery{
		Statuses:     []model.Status{model.StatusPublished},
		Search:       filter.Query,
		CategoryName: filter.Category,
	}, filter.Page)
	if err != nil {
		return nil, err
	}

	popular, err := s.repo.ListPopular(ctx, model.PopularLimit)
	if err != nil {
		return nil, err
	}

	return &model.HomePage{
		PageResult: *page,
		Query:      filter.Query,
		Category:   filter.Category,
		Popular:    popular,
	}, nil
}

func (s *postService) Search(ctx context.Context, query string, page int) (*model.HomePage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &model.HomePage{
			PageResult: model.PageResult{Posts: []model.PostSummary{}, Page: 1, TotalPages: 1},
			Popular:    []model.PostSummary{},
		}, nil
	}
	return s.Home(ctx, model.ListFilter{Query: query, Page: page})
}

func (s *postService) ByCategory(ctx context.Context, name string, page int) (*model.HomePage, error) {
	cat, err := s.categories.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.Home(ctx, model.ListFilter{Category: cat.Name, Page: page})
}

func (s *postService) ByAuthor(ctx context.Context, viewer access.Principal, authorID uuid.UUID, page int) (*model.PageResult, error) {
	statuses := []model.Status{model.StatusPublished}
	if viewer.Is(authorID) || viewer.IsStaff() {
		statuses = append(statuses, model.StatusDraft)
	}
	return s.listPage(ctx, model.ListQuery{Statuses: statuses, AuthorID: &authorID}, page)
}

func (s *postService) listPage(ctx context.Context, q model.ListQuery, number int) (*model.PageResult, error) {
	page := utils.NewPage(number, model.PageSize)
	q.Limit = page.Limit()
	q.Offset = page.Offset()

	posts, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &model.PageResult{
		Posts:      posts,
		Page:       page.Number,
		Total:      total,
		TotalPages: utils.TotalPages(total, page.Size),
	}, nil
}

// =====================================================
// DETAIL
// =====================================================

func (s *postService) Detail(ctx context.Context, viewer access.Principal, id uuid.UUID) (*model.PostDetail, error) {
	// Step 1: Load with counts
	summary, err := s.repo.GetSummary(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	// Step 2: Denied visits are not counted
	if !model.CanView(viewer, &summary.Post) {
		return nil, model.NewDeniedError("You do not have permission to view this post.", "/")
	}

	// Step 3: Count the view; the per-user record is first-view only
	var viewerID *uuid.UUID
	if !viewer.IsAnonymous() {
		viewerID = utils.UUIDPtr(viewer.UserID)
	}
	views, err := s.repo.RecordView(ctx, id, viewerID)
	if err != nil {
		return nil, notFound(err)
	}
	summary.ViewCount = views

	// Step 4: Viewer-specific flags
	detail := &model.PostDetail{
		Post:       *summary,
		CanEdit:    model.CanEdit(viewer, &summary.Post),
		CanArchive: model.CanArchive(viewer, &summary.Post) && summary.Status != model.StatusArchived,
		CanPublish: model.CanPublish(viewer, &summary.Post) && summary.Status == model.StatusDraft,
	}
	if viewerID != nil {
		liked, err := s.repo.HasLiked(ctx, id, viewer.UserID)
		if err != nil {
			return nil, err
		}
		detail.UserHasLiked = liked
	}
	return detail, nil
}

// =====================================================
// AUTHORING
// =====================================================

func (s *postService) Create(ctx context.Context, actor access.Principal, form model.PostForm, cover *model.Upload) (*model.Post, error) {
	// Step 1: Authors only
	if !model.CanCreate(actor) {
		return nil, model.NewDeniedError("Only authors can create posts. Apply to become an author.", "/apply-to-write/")
	}

	// Step 2: Validate form and image
	form.Normalize()
	if err := form.Validate(); err != nil {
		return nil, err
	}
	format, err := s.validateCover(cover)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		ID:         uuid.New(),
		AuthorID:   utils.UUIDPtr(actor.UserID),
		CategoryID: parseCategory(form.Category),
		Title:      form.Title,
		Body:       form.Body,
		Status:     model.InitialStatus(actor),
	}

	// Step 3: Upload the original before the row exists, undo on failure
	if cover != nil {
		if err := s.uploadCover(ctx, post, cover, format); err != nil {
			return nil, err
		}
	}

	// Step 4: Insert post with its first audit event
	if err := s.repo.Create(ctx, post, actor.UserID); err != nil {
		if post.ImageKey != "" {
			if delErr := s.storage.Delete(ctx, post.ImageKey); delErr != nil {
				logger.Error("[POST] Failed to remove cover of failed create", delErr)
			}
		}
		return nil, err
	}

	// Step 5: Side effects
	if post.ImageKey != "" {
		s.enqueueProcessCover(ctx, post.ID, post.ImageKey)
	}
	if post.Status == model.StatusPublished {
		s.invalidateCategoryCounts(ctx)
	}
	s.publish(ctx, events.PostCreated, post, actor)

	logger.Info("[POST] Created", map[string]interface{}{
		"post_id": post.ID.String(),
		"author":  actor.UserID.String(),
		"status":  string(post.Status),
	})
	return post, nil
}

func (s *postService) Update(ctx context.Context, actor access.Principal, id uuid.UUID, form model.PostForm, cover *model.Upload) (*model.Post, error) {
	// Step 1: Load and authorize
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if !model.CanEdit(actor, post) {
		return nil, model.NewDeniedError("You do not have permission to edit this post.", postURL(id))
	}

	// Step 2: Validate
	form.Normalize()
	if err := form.Validate(); err != nil {
		return nil, err
	}
	format, err := s.validateCover(cover)
	if err != nil {
		return nil, err
	}

	// Step 3: Apply edits; status is never touched here
	oldKey := post.ImageKey
	oldCategory := post.CategoryID
	post.Title = form.Title
	post.Body = form.Body
	post.CategoryID = parseCategory(form.Category)

	if cover != nil {
		if err := s.uploadCover(ctx, post, cover, format); err != nil {
			return nil, err
		}
		post.ThumbnailURL = ""
	}

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}

	// Step 4: Replace cover in the background
	if cover != nil {
		s.enqueueProcessCover(ctx, post.ID, post.ImageKey)
		if oldKey != "" && oldKey != post.ImageKey {
			s.enqueueDeleteCover(ctx, post.ID, model.CoverKeys(oldKey))
		}
	}
	if post.Status == model.StatusPublished && !sameCategory(oldCategory, post.CategoryID) {
		s.invalidateCategoryCounts(ctx)
	}

	logger.Info("[POST] Updated", map[string]interface{}{
		"post_id": post.ID.String(),
		"by":      actor.UserID.String(),
	})
	return post, nil
}

func (s *postService) validateCover(cover *model.Upload) (string, error) {
	if cover == nil {
		return "", nil
	}
	return s.processor.ValidateImage(cover.Data)
}

func (s *postService) uploadCover(ctx context.Context, post *model.Post, cover *model.Upload, format string) error {
	key := model.NewCoverKey(post.ID, storage.Extension(format))
	url, err := s.storage.Upload(ctx, key, cover.Data, storage.ContentType(format))
	if err != nil {
		return fmt.Errorf("upload cover: %w", err)
	}
	post.ImageKey = key
	post.ImageURL = url
	return nil
}

func parseCategory(raw string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

func sameCategory(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// =====================================================
// LIFECYCLE
// =====================================================

// Archive is the soft delete. Archiving twice is a no-op.
func (s *postService) Archive(ctx context.Context, actor access.Principal, id uuid.UUID) (*model.TransitionResult, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if !model.CanArchive(actor, post) {
		return nil, model.NewDeniedError("You do not have permission to delete this post.", postURL(id))
	}
	return s.transition(ctx, actor, post, model.StatusArchived, events.PostArchived)
}

// Publish is the staff moderation action on drafts
func (s *postService) Publish(ctx context.Context, actor access.Principal, id uuid.UUID) (*model.TransitionResult, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if !model.CanPublish(actor, post) {
		return nil, model.NewDeniedError("Only staff can publish posts.", postURL(id))
	}
	return s.transition(ctx, actor, post, model.StatusPublished, events.PostPublished)
}

func (s *postService) transition(ctx context.Context, actor access.Principal, post *model.Post, to model.Status, eventType string) (*model.TransitionResult, error) {
	noop, err := model.CheckTransition(post.Status, to)
	if err != nil {
		return nil, err
	}
	if noop {
		return &model.TransitionResult{Post: post}, nil
	}

	from := post.Status
	updated, err := s.repo.Transition(ctx, post.ID, from, to, actor.UserID)
	if err != nil {
		return nil, err
	}

	// Either side of the move may be the published count
	s.invalidateCategoryCounts(ctx)
	s.publish(ctx, eventType, updated, actor)

	logger.Info("[POST] Status changed", map[string]interface{}{
		"post_id": post.ID.String(),
		"from":    string(from),
		"to":      string(to),
		"by":      actor.UserID.String(),
	})
	return &model.TransitionResult{Post: updated, Changed: true}, nil
}

// =====================================================
// DASHBOARD & STAFF VIEWS
// =====================================================

func (s *postService) Dashboard(ctx context.Context, actor access.Principal) (*model.Dashboard, error) {
	if actor.IsAnonymous() {
		return nil, model.NewDeniedError("Please log in to see your dashboard.", "/login/")
	}

	dash := &model.Dashboard{Posts: []model.PostSummary{}, RecentlyViewed: []model.RecentView{}}

	if actor.IsAuthor() {
		posts, _, err := s.repo.List(ctx, model.ListQuery{AuthorID: &actor.UserID, Limit: 100})
		if err != nil {
			return nil, err
		}
		dash.Posts = posts

		stats, err := s.repo.AuthorStats(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		dash.Stats = *stats
	}

	recent, err := s.repo.RecentViews(ctx, actor.UserID, model.RecentLimit*2)
	if err != nil {
		return nil, err
	}
	for _, v := range recent {
		if len(dash.RecentlyViewed) == model.RecentLimit {
			break
		}
		if model.CanView(actor, &model.Post{Status: v.Status, AuthorID: v.AuthorID}) {
			dash.RecentlyViewed = append(dash.RecentlyViewed, v)
		}
	}
	return dash, nil
}

func (s *postService) Archived(ctx context.Context, actor access.Principal, page int) (*model.PageResult, error) {
	if !model.CanViewArchive(actor) {
		return nil, model.NewDeniedError("Only staff can view archived posts.", "/")
	}
	return s.listPage(ctx, model.ListQuery{Statuses: []model.Status{model.StatusArchived}}, page)
}

func (s *postService) History(ctx context.Context, actor access.Principal, id uuid.UUID) ([]model.StatusEvent, error) {
	if !model.CanViewArchive(actor) {
		return nil, model.NewDeniedError("Only staff can view post history.", "/")
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, notFound(err)
	}
	return s.repo.History(ctx, id)
}

// =====================================================
// SIDE EFFECTS
// =====================================================

func (s *postService) enqueueProcessCover(ctx context.Context, postID uuid.UUID, key string) {
	payload, _ := json.Marshal(shared.ProcessPostCoverPayload{PostID: postID.String(), OriginalKey: key})
	task := asynq.NewTask(shared.TypeProcessPostCover, payload)
	if _, err := s.queue.EnqueueContext(ctx, task, asynq.Queue(shared.QueueMedia), asynq.MaxRetry(3)); err != nil {
		logger.Error("[POST] Failed to enqueue cover processing", err)
	}
}

func (s *postService) enqueueDeleteCover(ctx context.Context, postID uuid.UUID, keys []string) {
	payload, _ := json.Marshal(shared.DeletePostCoverPayload{PostID: postID.String(), Keys: keys})
	task := asynq.NewTask(shared.TypeDeletePostCover, payload)
	if _, err := s.queue.EnqueueContext(ctx, task, asynq.Queue(shared.QueueMedia), asynq.MaxRetry(5)); err != nil {
		logger.Error("[POST] Failed to enqueue cover deletion", err)
	}
}

func (s *postService) invalidateCategoryCounts(ctx context.Context) {
	if err := s.cache.Delete(ctx, category.ListCacheKey); err != nil {
		logger.Warn("[POST] Failed to invalidate category counts", map[string]interface{}{"error": err.Error()})
	}
}

func (s *postService) publish(ctx context.Context, eventType string, post *model.Post, actor access.Principal) {
	data := map[string]interface{}{
		"title":  post.Title,
		"status": string(post.Status),
	}
	if post.AuthorID != nil {
		data["author_id"] = post.AuthorID.String()
	}
	err := s.publisher.Publish(ctx, events.Event{
		Type:       eventType,
		EntityID:   post.ID.String(),
		ActorID:    actor.UserID.String(),
		OccurredAt: time.Now(),
		Data:       data,
	})
	if err != nil {
		logger.Error(fmt.Sprintf("[POST] Failed to publish %s", eventType), err)
	}
}

// notFound turns the repository sentinel into the coded error
func notFound(err error) error {
	if errors.Is(err, model.ErrPostNotFound) {
		return model.NewPostNotFoundError()
	}
	return err
}
