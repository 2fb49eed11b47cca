package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"blog-backend/internal/domains/category"
	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/infrastructure/events"
)

type fakePostRepo struct {
	mu         sync.Mutex
	posts      map[uuid.UUID]*model.Post
	likes      map[uuid.UUID]map[uuid.UUID]bool
	comments   map[uuid.UUID]int64
	views      map[uuid.UUID]map[uuid.UUID]time.Time
	history    map[uuid.UUID][]model.StatusEvent
	categories map[uuid.UUID]string
	clock      time.Time
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts:      make(map[uuid.UUID]*model.Post),
		likes:      make(map[uuid.UUID]map[uuid.UUID]bool),
		comments:   make(map[uuid.UUID]int64),
		views:      make(map[uuid.UUID]map[uuid.UUID]time.Time),
		history:    make(map[uuid.UUID][]model.StatusEvent),
		categories: make(map[uuid.UUID]string),
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick hands out strictly increasing timestamps
func (r *fakePostRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *fakePostRepo) snapshot(p *model.Post) *model.Post {
	cp := *p
	if p.CategoryID != nil {
		cp.CategoryName = r.categories[*p.CategoryID]
	}
	return &cp
}

func (r *fakePostRepo) summary(p *model.Post) model.PostSummary {
	return model.PostSummary{
		Post:         *r.snapshot(p),
		LikesCount:   int64(len(r.likes[p.ID])),
		CommentCount: r.comments[p.ID],
	}
}

func (r *fakePostRepo) addEvent(id uuid.UUID, from *model.Status, to model.Status, actor uuid.UUID) {
	a := actor
	r.history[id] = append(r.history[id], model.StatusEvent{
		ID:         int64(len(r.history[id]) + 1),
		PostID:     id,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    &a,
		CreatedAt:  r.tick(),
	})
}

func (r *fakePostRepo) Create(_ context.Context, post *model.Post, actorID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if post.CategoryID != nil {
		if _, ok := r.categories[*post.CategoryID]; !ok {
			return model.ErrCategoryNotFound
		}
	}
	now := r.tick()
	post.DateCreated = now
	post.DateUpdated = now
	r.posts[post.ID] = r.snapshot(post)
	r.addEvent(post.ID, nil, post.Status, actorID)
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, model.ErrPostNotFound
	}
	return r.snapshot(p), nil
}

func (r *fakePostRepo) GetSummary(_ context.Context, id uuid.UUID) (*model.PostSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, model.ErrPostNotFound
	}
	s := r.summary(p)
	return &s, nil
}

func (r *fakePostRepo) Update(_ context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[post.ID]
	if !ok {
		return model.ErrPostNotFound
	}
	if post.CategoryID != nil {
		if _, ok := r.categories[*post.CategoryID]; !ok {
			return model.ErrCategoryNotFound
		}
	}
	post.DateUpdated = r.tick()
	p.Title, p.Body, p.CategoryID = post.Title, post.Body, post.CategoryID
	p.ImageURL, p.ImageKey, p.ThumbnailURL = post.ImageURL, post.ImageKey, post.ThumbnailURL
	p.DateUpdated = post.DateUpdated
	return nil
}

func (r *fakePostRepo) SetThumbnail(_ context.Context, id uuid.UUID, key, thumbnailURL string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || p.ImageKey != key {
		return false, nil
	}
	p.ThumbnailURL = thumbnailURL
	return true, nil
}

func (r *fakePostRepo) Transition(_ context.Context, id uuid.UUID, from, to model.Status, actorID uuid.UUID) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || p.Status != from {
		return nil, model.NewInvalidTransitionError(from, to)
	}
	p.Status = to
	p.DateUpdated = r.tick()
	if to == model.StatusArchived {
		at := p.DateUpdated
		by := actorID
		p.ArchivedAt, p.ArchivedBy = &at, &by
	}
	f := from
	r.addEvent(id, &f, to, actorID)
	return r.snapshot(p), nil
}

func (r *fakePostRepo) History(_ context.Context, id uuid.UUID) ([]model.StatusEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.StatusEvent{}, r.history[id]...), nil
}

func (r *fakePostRepo) RecordView(_ context.Context, id uuid.UUID, viewerID *uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return 0, model.ErrPostNotFound
	}
	p.ViewCount++
	if viewerID != nil {
		if r.views[*viewerID] == nil {
			r.views[*viewerID] = make(map[uuid.UUID]time.Time)
		}
		if _, seen := r.views[*viewerID][id]; !seen {
			r.views[*viewerID][id] = r.tick()
		}
	}
	return p.ViewCount, nil
}

func (r *fakePostRepo) RecentViews(_ context.Context, userID uuid.UUID, limit int) ([]model.RecentView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.RecentView, 0)
	for postID, at := range r.views[userID] {
		p := r.posts[postID]
		if p == nil || p.Status == model.StatusArchived {
			continue
		}
		out = append(out, model.RecentView{PostID: postID, Title: p.Title, Status: p.Status, AuthorID: p.AuthorID, ViewedAt: at})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ViewedAt.After(out[j].ViewedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePostRepo) List(_ context.Context, q model.ListQuery) ([]model.PostSummary, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []model.PostSummary
	for _, p := range r.posts {
		if len(q.Statuses) > 0 && !hasStatus(q.Statuses, p.Status) {
			continue
		}
		if q.AuthorID != nil && (p.AuthorID == nil || *p.AuthorID != *q.AuthorID) {
			continue
		}
		if q.CategoryName != "" && (p.CategoryID == nil || !strings.EqualFold(r.categories[*p.CategoryID], q.CategoryName)) {
			continue
		}
		if q.Search != "" {
			needle := strings.ToLower(q.Search)
			if !strings.Contains(strings.ToLower(p.Title), needle) && !strings.Contains(strings.ToLower(p.Body), needle) {
				continue
			}
		}
		matched = append(matched, r.summary(p))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].DateUpdated.After(matched[j].DateUpdated) })

	total := len(matched)
	if q.Offset >= total {
		return []model.PostSummary{}, total, nil
	}
	end := q.Offset + q.Limit
	if q.Limit <= 0 || end > total {
		end = total
	}
	return matched[q.Offset:end], total, nil
}

func hasStatus(list []model.Status, s model.Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (r *fakePostRepo) ListPopular(_ context.Context, limit int) ([]model.PostSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.PostSummary
	for _, p := range r.posts {
		if p.Status == model.StatusPublished {
			out = append(out, r.summary(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score() > out[j].Score() })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePostRepo) AuthorStats(_ context.Context, authorID uuid.UUID) (*model.AuthorStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var s model.AuthorStats
	for _, p := range r.posts {
		if p.AuthorID == nil || *p.AuthorID != authorID {
			continue
		}
		s.TotalPosts++
		switch p.Status {
		case model.StatusPublished:
			s.PublishedPosts++
		case model.StatusDraft:
			s.DraftPosts++
		case model.StatusArchived:
			s.ArchivedPosts++
		}
		s.TotalViews += p.ViewCount
		s.TotalLikes += int64(len(r.likes[p.ID]))
		s.TotalComments += r.comments[p.ID]
	}
	return &s, nil
}

func (r *fakePostRepo) HasLiked(_ context.Context, postID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.likes[postID][userID], nil
}

func (r *fakePostRepo) ExistingIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uuid.UUID]bool)
	for _, id := range ids {
		if _, ok := r.posts[id]; ok {
			out[id] = true
		}
	}
	return out, nil
}

type fakeCategories struct {
	byName map[string]*category.Category
}

func (f *fakeCategories) GetByName(_ context.Context, name string) (*category.Category, error) {
	for n, c := range f.byName {
		if strings.EqualFold(n, name) {
			return c, nil
		}
	}
	return nil, category.ErrCategoryNotFound
}

type fakeObjectStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{objects: make(map[string][]byte)}
}

func (s *fakeObjectStorage) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return "http://objects.test/blog/" + key, nil
}

func (s *fakeObjectStorage) Download(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, model.ErrPostNotFound
	}
	return data, nil
}

func (s *fakeObjectStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *fakeObjectStorage) RemoveFolder(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			delete(s.objects, k)
		}
	}
	return nil
}

func (s *fakeObjectStorage) ListFolders(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for k := range s.objects {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := strings.TrimPrefix(k, prefix)
		if i := strings.Index(rest, "/"); i > 0 && !seen[rest[:i]] {
			seen[rest[:i]] = true
			out = append(out, rest[:i])
		}
	}
	return out, nil
}

type fakeQueue struct {
	mu    sync.Mutex
	tasks []*asynq.Task
}

func (q *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func (q *fakeQueue) types() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, 0, len(q.tasks))
	for _, t := range q.tasks {
		out = append(out, t.Type())
	}
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
