package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"blog-backend/internal/domains/category"
	"blog-backend/internal/shared/access"
	"blog-backend/pkg/logger"
)

type categoryService struct {
	repo category.Repository
}

func NewCategoryService(repo category.Repository) category.Service {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context) ([]category.Category, error) {
	return s.repo.ListWithCounts(ctx)
}

func (s *categoryService) GetByName(ctx context.Context, name string) (*category.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, category.ErrCategoryNotFound
	}
	return s.repo.GetByName(ctx, name)
}

func (s *categoryService) Create(ctx context.Context, actor access.Principal, req category.CreateCategoryRequest) (*category.Category, error) {
	if !actor.IsStaff() {
		return nil, access.ErrForbidden
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := &category.Category{Name: req.Name, Description: req.Description}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	logger.Info("[CATEGORY] Created", map[string]interface{}{"id": c.ID.String(), "name": c.Name})
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, actor access.Principal, id uuid.UUID, req category.UpdateCategoryRequest) (*category.Category, error) {
	if !actor.IsStaff() {
		return nil, access.ErrForbidden
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = *req.Description
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) Delete(ctx context.Context, actor access.Principal, id uuid.UUID) error {
	if !actor.IsStaff() {
		return access.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("[CATEGORY] Deleted", map[string]interface{}{"id": id.String(), "by": actor.UserID.String()})
	return nil
}
