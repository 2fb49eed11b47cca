package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"blog-backend/internal/domains/category"
	categoryRepo "blog-backend/internal/domains/category/repository"
	postRepo "blog-backend/internal/domains/post/repository"
	"blog-backend/internal/domains/post/seed"
	userRepo "blog-backend/internal/domains/user/repository"
	"blog-backend/pkg/logger"
)

func newSeedSamplePostsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-sample-posts",
		Short: "Create sample categories and ten published posts by the first staff user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connectPool(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			shared := openCache(cmd.Context())

			seeder := seed.NewSeeder(
				userRepo.NewPostgresRepository(db.Pool),
				categoryRepo.NewPostgresRepository(db.Pool, shared),
				postRepo.NewPostgresRepository(db.Pool),
			)

			res, err := seeder.Run(cmd.Context())
			if err != nil {
				return err
			}

			// Post counts in the cached category list are stale now
			if err := shared.Delete(cmd.Context(), category.ListCacheKey); err != nil {
				logger.Warn("Failed to invalidate category list", map[string]interface{}{"error": err.Error()})
			}

			out := cmd.OutOrStdout()
			for _, name := range res.CreatedCategories {
				fmt.Fprintf(out, "Created category: %s\n", name)
			}
			for i, title := range res.CreatedPosts {
				fmt.Fprintf(out, "Created post #%d: %s\n", i+1, title)
			}
			for _, title := range res.Failed {
				fmt.Fprintf(out, "Failed to create post: %s\n", title)
			}
			fmt.Fprintf(out, "Created %d sample posts as %s.\n", len(res.CreatedPosts), res.Author)
			return nil
		},
	}
}
