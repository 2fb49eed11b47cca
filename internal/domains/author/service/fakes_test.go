package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"blog-backend/internal/domains/author/model"
	"blog-backend/internal/infrastructure/events"
)

// fakeStore backs both repositories so approval can materialize profiles
type fakeStore struct {
	mu       sync.Mutex
	apps     map[uuid.UUID]*model.AuthorApplication
	profiles map[uuid.UUID]*model.AuthorProfile
	// usersByEmail stands in for the users table lookup done on approval
	usersByEmail map[string]uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		apps:         make(map[uuid.UUID]*model.AuthorApplication),
		profiles:     make(map[uuid.UUID]*model.AuthorProfile),
		usersByEmail: make(map[string]uuid.UUID),
	}
}

type fakeApplicationRepo struct{ *fakeStore }

type fakeProfileRepo struct{ *fakeStore }

func copyApp(a *model.AuthorApplication) *model.AuthorApplication {
	cp := *a
	return &cp
}

func (r fakeApplicationRepo) Create(_ context.Context, app *model.AuthorApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if !a.Status.IsOpen() {
			continue
		}
		if strings.EqualFold(a.Email, app.Email) {
			return model.ErrOpenApplication
		}
		if a.UserID != nil && app.UserID != nil && *a.UserID == *app.UserID {
			return model.ErrOpenApplication
		}
	}
	app.ID = uuid.New()
	app.Status = model.StatusPending
	app.DateApplied = time.Now()
	r.apps[app.ID] = copyApp(app)
	return nil
}

func (r fakeApplicationRepo) GetByID(_ context.Context, id uuid.UUID) (*model.AuthorApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return nil, model.ErrApplicationNotFound
	}
	return copyApp(a), nil
}

func (r fakeApplicationRepo) findOpen(match func(*model.AuthorApplication) bool) *model.AuthorApplication {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.Status.IsOpen() && match(a) {
			return copyApp(a)
		}
	}
	return nil
}

func (r fakeApplicationRepo) FindOpenByUser(_ context.Context, userID uuid.UUID) (*model.AuthorApplication, error) {
	return r.findOpen(func(a *model.AuthorApplication) bool { return a.UserID != nil && *a.UserID == userID }), nil
}

func (r fakeApplicationRepo) FindOpenByEmail(_ context.Context, email string) (*model.AuthorApplication, error) {
	return r.findOpen(func(a *model.AuthorApplication) bool { return strings.EqualFold(a.Email, email) }), nil
}

func (r fakeApplicationRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*model.AuthorApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.AuthorApplication
	for _, a := range r.apps {
		if a.UserID != nil && *a.UserID == userID {
			out = append(out, copyApp(a))
		}
	}
	return out, nil
}

func (r fakeApplicationRepo) List(_ context.Context, status model.ApplicationStatus, limit, offset int) ([]*model.AuthorApplication, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*model.AuthorApplication
	for _, a := range r.apps {
		if status == "" || a.Status == status {
			all = append(all, copyApp(a))
		}
	}
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r fakeApplicationRepo) Approve(_ context.Context, id, reviewerID uuid.UUID) (*model.AuthorApplication, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok || a.Status != model.StatusPending {
		return nil, false, model.ErrNotPending
	}
	now := time.Now()
	a.Status = model.StatusApproved
	a.ReviewedBy = &reviewerID
	a.ReviewedAt = &now
	if a.UserID == nil {
		if uid, ok := r.usersByEmail[strings.ToLower(a.Email)]; ok {
			a.UserID = &uid
		}
	}
	if a.UserID == nil {
		return copyApp(a), false, nil
	}
	if _, exists := r.profiles[*a.UserID]; exists {
		return copyApp(a), false, nil
	}
	r.profiles[*a.UserID] = &model.AuthorProfile{UserID: *a.UserID, CreatedAt: now, UpdatedAt: now}
	return copyApp(a), true, nil
}

func (r fakeApplicationRepo) Reject(_ context.Context, id, reviewerID uuid.UUID) (*model.AuthorApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok || a.Status != model.StatusPending {
		return nil, model.ErrNotPending
	}
	now := time.Now()
	a.Status = model.StatusRejected
	a.ReviewedBy = &reviewerID
	a.ReviewedAt = &now
	return copyApp(a), nil
}

func (r fakeProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.AuthorProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (r fakeProfileRepo) Exists(_ context.Context, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.profiles[userID]
	return ok, nil
}

func (r fakeProfileRepo) Update(_ context.Context, p *model.AuthorProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.UserID]; !ok {
		return model.ErrProfileNotFound
	}
	p.UpdatedAt = time.Now()
	cp := *p
	r.profiles[p.UserID] = &cp
	return nil
}

type recordingInvalidator struct {
	ids []uuid.UUID
}

func (r *recordingInvalidator) InvalidatePrincipal(_ context.Context, id uuid.UUID) {
	r.ids = append(r.ids, id)
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
	return s.objects[key], nil
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
	return nil, nil
}
