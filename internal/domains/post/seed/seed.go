package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"blog-backend/internal/domains/category"
	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/domains/user"
	"blog-backend/internal/shared/utils"
	"blog-backend/pkg/logger"
)

// ErrNoStaffUser means there is nobody to author the sample posts
var ErrNoStaffUser = errors.New("no staff user found, create one with create-superuser first")

// CategoryNames are created when missing, in this order
var CategoryNames = []string{"Technology", "Science", "Travel", "Food", "Lifestyle"}

type StaffFinder interface {
	FindFirstStaff(ctx context.Context) (*user.User, error)
}

type CategoryStore interface {
	GetByName(ctx context.Context, name string) (*category.Category, error)
	Create(ctx context.Context, c *category.Category) error
}

type PostCreator interface {
	Create(ctx context.Context, post *model.Post, actorID uuid.UUID) error
}

// Result reports what one run created
type Result struct {
	Author            string
	CreatedCategories []string
	CreatedPosts      []string
	Failed            []string
}

// Seeder loads the sample content used for local development
type Seeder struct {
	users      StaffFinder
	categories CategoryStore
	posts      PostCreator
}

func NewSeeder(users StaffFinder, categories CategoryStore, posts PostCreator) *Seeder {
	return &Seeder{users: users, categories: categories, posts: posts}
}

// Run creates the sample categories and published posts. A post that
// fails is reported and skipped; the run goes on with the next one.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	// Step 1: The earliest staff user authors everything
	author, err := s.users.FindFirstStaff(ctx)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrNoStaffUser
		}
		return nil, fmt.Errorf("find staff user: %w", err)
	}

	res := &Result{Author: author.Username}

	// Step 2: Get or create categories
	cats := make([]*category.Category, 0, len(CategoryNames))
	for _, name := range CategoryNames {
		c, created, err := s.getOrCreateCategory(ctx, name)
		if err != nil {
			return res, err
		}
		if created {
			res.CreatedCategories = append(res.CreatedCategories, name)
		}
		cats = append(cats, c)
	}

	// Step 3: Posts, spread over the categories in turn
	for i, sample := range SamplePosts {
		cat := cats[i%len(cats)]
		post := &model.Post{
			ID:         uuid.New(),
			AuthorID:   utils.UUIDPtr(author.ID),
			CategoryID: utils.UUIDPtr(cat.ID),
			Title:      sample.Title,
			Body:       sample.Body,
			Status:     model.StatusPublished,
			ViewCount:  sample.ViewCount,
		}
		if err := s.posts.Create(ctx, post, author.ID); err != nil {
			logger.Error(fmt.Sprintf("Failed to create sample post %q", sample.Title), err)
			res.Failed = append(res.Failed, sample.Title)
			continue
		}
		res.CreatedPosts = append(res.CreatedPosts, sample.Title)
	}

	logger.Info("[SEED] Sample posts created", map[string]interface{}{
		"author":     res.Author,
		"categories": len(res.CreatedCategories),
		"posts":      len(res.CreatedPosts),
		"failed":     len(res.Failed),
	})
	return res, nil
}

func (s *Seeder) getOrCreateCategory(ctx context.Context, name string) (*category.Category, bool, error) {
	c, err := s.categories.GetByName(ctx, name)
	if err == nil {
		return c, false, nil
	}
	if !errors.Is(err, category.ErrCategoryNotFound) {
		return nil, false, fmt.Errorf("get category %s: %w", name, err)
	}

	c = &category.Category{Name: name}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, false, fmt.Errorf("create category %s: %w", name, err)
	}
	return c, true, nil
}
