package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"blog-backend/internal/config"
	infraCache "blog-backend/internal/infrastructure/cache"
	"blog-backend/internal/infrastructure/database"
	"blog-backend/internal/infrastructure/events"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/jwt"
	"blog-backend/pkg/logger"

	// User domain
	"blog-backend/internal/domains/user"
	userHandler "blog-backend/internal/domains/user/handler"
	userRepo "blog-backend/internal/domains/user/repository"
	userService "blog-backend/internal/domains/user/service"

	// Author domain
	authorHandler "blog-backend/internal/domains/author/handler"
	authorRepo "blog-backend/internal/domains/author/repository"
	authorService "blog-backend/internal/domains/author/service"

	// Category domain
	"blog-backend/internal/domains/category"
	categoryHandler "blog-backend/internal/domains/category/handler"
	categoryRepo "blog-backend/internal/domains/category/repository"
	categoryService "blog-backend/internal/domains/category/service"

	// Post domain
	postHandler "blog-backend/internal/domains/post/handler"
	postRepo "blog-backend/internal/domains/post/repository"
	postService "blog-backend/internal/domains/post/service"

	// Comment and like domains
	commentHandler "blog-backend/internal/domains/comment/handler"
	commentRepo "blog-backend/internal/domains/comment/repository"
	commentService "blog-backend/internal/domains/comment/service"
	likeHandler "blog-backend/internal/domains/like/handler"
	likeRepo "blog-backend/internal/domains/like/repository"
	likeService "blog-backend/internal/domains/like/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the API process.
// Build order: config, infrastructure, repositories, services, handlers.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager
	Storage    storage.ObjectStorage
	Images     *storage.ImageProcessor
	Queue      *asynq.Client
	Publisher  events.Publisher

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	UserRepo        user.Repository
	ProfileRepo     authorRepo.ProfileRepository
	ApplicationRepo authorRepo.ApplicationRepository
	CategoryRepo    category.Repository
	PostRepo        postRepo.PostRepository
	CommentRepo     commentRepo.CommentRepository
	LikeRepo        likeRepo.LikeRepository

	// ========================================
	// SERVICE LAYER
	// ========================================
	UserService        user.Service
	ProfileService     authorService.ProfileService
	ApplicationService authorService.ApplicationService
	CategoryService    category.Service
	PostService        postService.PostService
	CoverService       postService.CoverService
	CommentService     commentService.CommentService
	LikeService        likeService.LikeService

	// ========================================
	// HANDLER LAYER
	// ========================================
	UserHandler        *userHandler.UserHandler
	ApplicationHandler *authorHandler.ApplicationHandler
	AuthorHandler      *authorHandler.AuthorHandler
	CategoryHandler    *categoryHandler.CategoryHandler
	PostHandler        *postHandler.PostHandler
	CommentHandler     *commentHandler.CommentHandler
	LikeHandler        *likeHandler.LikeHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the whole dependency graph. Postgres and MinIO are
// required; Redis degrades to an in-process cache and Kafka to a no-op
// publisher.
func NewContainer() (*Container, error) {
	logger.Info("[CONTAINER] Initializing", map[string]interface{}{})

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Info("[CONTAINER] Config loaded", map[string]interface{}{"environment": cfg.App.Environment})

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	db := database.NewPostgresDB(cfg.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(ctx); err != nil {
		// Redis is not critical: locks and cache-aside fall back to process memory
		logger.Warn("[CONTAINER] Redis unavailable, using in-memory cache", map[string]interface{}{"error": err.Error()})
		_ = redisCache.Close()
		c.Cache = cache.NewMemoryCache()
	} else {
		c.Cache = redisCache
	}

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Hour,
	)

	// ========================================
	// STEP 4: OBJECT STORAGE, QUEUE, EVENTS
	// ========================================
	objects, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = objects
	c.Images = storage.NewImageProcessor(cfg.Content.MaxImageBytes)

	c.Queue = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Queue.RedisAddr,
		Password: cfg.Redis.Password,
	})

	c.Publisher = events.NewPublisher(events.KafkaConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.Topic,
		WriteTimeout: 5 * time.Second,
	})
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("[CONTAINER] Kafka brokers not configured, lifecycle events disabled", map[string]interface{}{})
	}

	// ========================================
	// STEP 5: REPOSITORIES, SERVICES, HANDLERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("[CONTAINER] Initialized", map[string]interface{}{})
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.ProfileRepo = authorRepo.NewProfileRepository(pool)
	c.ApplicationRepo = authorRepo.NewApplicationRepository(pool)
	c.CategoryRepo = categoryRepo.NewPostgresRepository(pool, c.Cache)
	c.PostRepo = postRepo.NewPostgresRepository(pool)
	c.CommentRepo = commentRepo.NewPostgresRepository(pool)
	c.LikeRepo = likeRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.Cache, c.JWTManager)

	c.ProfileService = authorService.NewProfileService(c.ProfileRepo, c.Storage, c.Images)

	// Approval changes the applicant's capabilities, so the user service
	// drops its cached principal
	c.ApplicationService = authorService.NewApplicationService(
		c.ApplicationRepo,
		c.UserService,
		c.Publisher,
	)

	c.CategoryService = categoryService.NewCategoryService(c.CategoryRepo)

	c.PostService = postService.NewPostService(
		c.PostRepo,
		c.CategoryService,
		c.Storage,
		c.Images,
		c.Queue,
		c.Publisher,
		c.Cache,
	)
	c.CoverService = postService.NewCoverService(c.PostRepo, c.Storage, c.Images)

	c.CommentService = commentService.NewCommentService(c.CommentRepo, c.PostRepo)
	c.LikeService = likeService.NewLikeService(c.LikeRepo, c.PostRepo, c.CommentRepo, c.Cache)
}

func (c *Container) initHandlers() {
	maxImage := c.Config.Content.MaxImageBytes

	c.UserHandler = userHandler.NewUserHandler(c.UserService, c.Config.JWT.CookieSecure)
	c.ApplicationHandler = authorHandler.NewApplicationHandler(c.ApplicationService)
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.UserService, c.ProfileService, c.PostService, maxImage)
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.PostHandler = postHandler.NewPostHandler(
		c.PostService,
		c.CommentService,
		c.CategoryService,
		c.ApplicationService,
		maxImage,
	)
	c.CommentHandler = commentHandler.NewCommentHandler(c.CommentService)
	c.LikeHandler = likeHandler.NewLikeHandler(c.LikeService)
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases connections on shutdown; safe on a partially built container
func (c *Container) Cleanup() {
	logger.Info("[CONTAINER] Cleaning up", map[string]interface{}{})

	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", err)
		}
	}

	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			logger.Error("Failed to close queue client", err)
		}
	}

	if c.DB != nil {
		_ = c.DB.Close()
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Error("Failed to close Redis", err)
		}
	}

	logger.Info("[CONTAINER] Cleanup completed", map[string]interface{}{})
}
