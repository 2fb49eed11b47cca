// Command blogctl runs operator tasks against the blog database: schema
// migrations, superuser creation and sample content.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"blog-backend/internal/config"
	infraCache "blog-backend/internal/infrastructure/cache"
	"blog-backend/internal/infrastructure/database"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:          "blogctl",
		Short:        "Operator commands for the blog backend",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("load %s: %w", envFile, err)
				}
			} else {
				_ = godotenv.Load()
			}
			env := os.Getenv("APP_ENV")
			if env == "" {
				env = "development"
			}
			logger.Init(env)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env when present)")

	cmd.AddCommand(
		newMigrateCmd(),
		newCreateSuperuserCmd(),
		newSeedSamplePostsCmd(),
	)
	return cmd
}

// connectPool opens the pgx pool the domain repositories run on
func connectPool(ctx context.Context) (*database.PostgresDB, error) {
	cfg, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	db := database.NewPostgresDB(cfg)
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.Connect(connectCtx); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

// openCache reaches the API's Redis so cached listings can be dropped after
// writes. Without Redis there is nothing shared to invalidate.
func openCache(ctx context.Context) cache.Cache {
	cfg, err := config.Load()
	if err != nil {
		return cache.NewMemoryCache()
	}
	rc := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := rc.Connect(ctx); err != nil {
		_ = rc.Close()
		return cache.NewMemoryCache()
	}
	return rc
}
