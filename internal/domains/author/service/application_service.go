package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"blog-backend/internal/domains/author/model"
	"blog-backend/internal/domains/author/repository"
	"blog-backend/internal/infrastructure/events"
	"blog-backend/internal/shared/access"
	"blog-backend/internal/shared/utils"
	"blog-backend/pkg/logger"
)

// Informational answers to a submission that creates nothing
const (
	msgAlreadyAuthor   = "You are already an author."
	msgAlreadyPending  = "Your application is already under review."
	msgAlreadyApproved = "Your application has already been approved."
	msgSubmitted       = "Your application has been submitted. We will review it shortly."
)

type applicationService struct {
	repo       repository.ApplicationRepository
	principals PrincipalInvalidator
	publisher  events.Publisher
}

func NewApplicationService(
	repo repository.ApplicationRepository,
	principals PrincipalInvalidator,
	publisher events.Publisher,
) ApplicationService {
	return &applicationService{
		repo:       repo,
		principals: principals,
		publisher:  publisher,
	}
}

// =====================================================
// SUBMIT
// =====================================================

func (s *applicationService) Submit(ctx context.Context, actor access.Principal, req model.ApplyRequest) (*model.SubmitResult, error) {
	// Step 1: Authors have nothing to apply for
	if actor.IsAuthor() {
		return &model.SubmitResult{Message: msgAlreadyAuthor}, nil
	}

	// Step 2: Validate form
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 3: One open application per user and per email
	if !actor.IsAnonymous() {
		open, err := s.repo.FindOpenByUser(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		if open != nil {
			return alreadyOpen(open), nil
		}
	}
	open, err := s.repo.FindOpenByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return alreadyOpen(open), nil
	}

	// Step 4: Create, linking the signed-in user
	app := &model.AuthorApplication{
		Name:           req.Name,
		Email:          req.Email,
		Bio:            req.Bio,
		SampleWorkLink: req.SampleWorkLink,
	}
	if !actor.IsAnonymous() {
		app.UserID = utils.UUIDPtr(actor.UserID)
	}

	if err := s.repo.Create(ctx, app); err != nil {
		// Lost a race with a concurrent submission
		if errors.Is(err, model.ErrOpenApplication) {
			return &model.SubmitResult{Message: msgAlreadyPending}, nil
		}
		return nil, err
	}

	logger.Info("[AUTHOR] Application submitted", map[string]interface{}{
		"application_id": app.ID.String(),
		"email":          app.Email,
	})

	return &model.SubmitResult{Submitted: true, Message: msgSubmitted, Application: app}, nil
}

func alreadyOpen(app *model.AuthorApplication) *model.SubmitResult {
	msg := msgAlreadyPending
	if app.Status == model.StatusApproved {
		msg = msgAlreadyApproved
	}
	return &model.SubmitResult{Message: msg, Application: app}
}

func (s *applicationService) ListMine(ctx context.Context, actor access.Principal) ([]*model.AuthorApplication, error) {
	if actor.IsAnonymous() {
		return []*model.AuthorApplication{}, nil
	}
	apps, err := s.repo.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []*model.AuthorApplication{}
	}
	return apps, nil
}

// =====================================================
// STAFF REVIEW
// =====================================================

func (s *applicationService) List(ctx context.Context, actor access.Principal, req model.ListApplicationsRequest) ([]*model.AuthorApplication, int, error) {
	if !actor.IsStaff() {
		return nil, 0, access.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return nil, 0, err
	}

	req.Normalize()
	page := utils.NewPage(req.Page, req.Limit)

	apps, total, err := s.repo.List(ctx, req.Status, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	if apps == nil {
		apps = []*model.AuthorApplication{}
	}
	return apps, total, nil
}

func (s *applicationService) Approve(ctx context.Context, actor access.Principal, id uuid.UUID) (*model.ReviewResult, error) {
	if !actor.IsStaff() {
		return nil, access.ErrForbidden
	}

	// Step 1: Approving twice is a no-op; rejected applications stay rejected
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch app.Status {
	case model.StatusApproved:
		return &model.ReviewResult{Application: app}, nil
	case model.StatusRejected:
		return nil, model.ErrNotPending
	}

	// Step 2: Status, reviewer and profile in one transaction
	approved, created, err := s.repo.Approve(ctx, id, actor.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotPending) {
			// A concurrent review won; report its outcome
			current, getErr := s.repo.GetByID(ctx, id)
			if getErr == nil && current.Status == model.StatusApproved {
				return &model.ReviewResult{Application: current}, nil
			}
		}
		return nil, err
	}

	// Step 3: The applicant's cached capabilities are stale now
	if approved.UserID != nil {
		s.principals.InvalidatePrincipal(ctx, *approved.UserID)
	}

	s.publish(ctx, events.ApplicationApproved, approved, actor)

	logger.Info("[AUTHOR] Application approved", map[string]interface{}{
		"application_id":  approved.ID.String(),
		"reviewed_by":     actor.UserID.String(),
		"profile_created": created,
	})

	return &model.ReviewResult{Application: approved, Changed: true, ProfileCreated: created}, nil
}

func (s *applicationService) Reject(ctx context.Context, actor access.Principal, id uuid.UUID) (*model.ReviewResult, error) {
	if !actor.IsStaff() {
		return nil, access.ErrForbidden
	}

	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Status == model.StatusRejected {
		return &model.ReviewResult{Application: app}, nil
	}
	if app.Status != model.StatusPending {
		return nil, model.ErrNotPending
	}

	rejected, err := s.repo.Reject(ctx, id, actor.UserID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.ApplicationRejected, rejected, actor)

	logger.Info("[AUTHOR] Application rejected", map[string]interface{}{
		"application_id": rejected.ID.String(),
		"reviewed_by":    actor.UserID.String(),
	})

	return &model.ReviewResult{Application: rejected, Changed: true}, nil
}

// publish is best effort; the decision is already committed
func (s *applicationService) publish(ctx context.Context, eventType string, app *model.AuthorApplication, actor access.Principal) {
	data := map[string]interface{}{"email": app.Email, "status": string(app.Status)}
	if app.UserID != nil {
		data["user_id"] = app.UserID.String()
	}
	err := s.publisher.Publish(ctx, events.Event{
		Type:       eventType,
		EntityID:   app.ID.String(),
		ActorID:    actor.UserID.String(),
		OccurredAt: time.Now(),
		Data:       data,
	})
	if err != nil {
		logger.Error(fmt.Sprintf("[AUTHOR] Failed to publish %s", eventType), err)
	}
}
