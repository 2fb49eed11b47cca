package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/shared/middleware"
	"blog-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = true

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CORS(),
		middleware.Identity(c.JWTManager, c.Cache, c.UserService),
		middleware.Logger(),
		middleware.Flash(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))
	}

	setupAuthRoutes(router, c)
	setupPostRoutes(router, c)
	setupCommentRoutes(router, c)
	setupAuthorRoutes(router, c)
	setupCategoryRoutes(router, c)
	setupAdminRoutes(router, c)

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(r *gin.Engine, c *container.Container) {
	r.POST("/signup/", c.UserHandler.Signup)
	r.POST("/login/", c.UserHandler.Login)
	r.POST("/token/refresh/", c.UserHandler.RefreshToken)
	r.POST("/logout/", middleware.RequireAuth(), c.UserHandler.Logout)
}

// ========================================
// POST ROUTES
// ========================================
// Comment and like actions answer anonymous callers themselves with a soft
// redirect to /login/, so only owner-bound actions carry RequireAuth.
func setupPostRoutes(r *gin.Engine, c *container.Container) {
	r.GET("/", c.PostHandler.Home)
	r.GET("/search/", c.PostHandler.Search)
	r.GET("/dashboard/", middleware.RequireAuth(), c.PostHandler.Dashboard)
	r.GET("/archived-posts/", middleware.RequireStaff(), c.PostHandler.Archived)

	post := r.Group("/post")
	{
		post.POST("/create/", middleware.RequireAuthor(), c.PostHandler.Create)

		post.GET("/:id/", c.PostHandler.Detail)
		post.POST("/:id/", c.CommentHandler.AddComment)
		post.POST("/:id/comment/", c.CommentHandler.AddComment)
		post.POST("/:id/like/", c.LikeHandler.TogglePost)

		post.POST("/:id/update/", middleware.RequireAuth(), c.PostHandler.Update)
		post.POST("/:id/delete/", middleware.RequireAuth(), c.PostHandler.Delete)
		post.POST("/:id/publish/", middleware.RequireStaff(), c.PostHandler.Publish)
	}
}

// ========================================
// COMMENT ROUTES
// ========================================
func setupCommentRoutes(r *gin.Engine, c *container.Container) {
	comment := r.Group("/comment")
	{
		comment.POST("/:id/reply/", c.CommentHandler.Reply)
		comment.POST("/:id/delete/", c.CommentHandler.Delete)
		comment.POST("/:id/edit/", c.CommentHandler.Edit)
		comment.POST("/:id/like/", c.LikeHandler.ToggleComment)
	}
}

// ========================================
// AUTHOR ROUTES
// ========================================
func setupAuthorRoutes(r *gin.Engine, c *container.Container) {
	r.GET("/apply-to-write/", c.ApplicationHandler.MyApplications)
	r.POST("/apply-to-write/", c.ApplicationHandler.Apply)

	author := r.Group("/author")
	{
		author.POST("/profile/", middleware.RequireAuthor(), c.AuthorHandler.UpdateProfile)
		author.GET("/:username/", c.AuthorHandler.Page)
	}
}

// ========================================
// CATEGORY ROUTES
// ========================================
func setupCategoryRoutes(r *gin.Engine, c *container.Container) {
	r.GET("/categories/", c.CategoryHandler.List)
	r.GET("/category/:name/", c.PostHandler.Category)
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(r *gin.Engine, c *container.Container) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireStaff())
	{
		admin.GET("/applications/", c.ApplicationHandler.List)
		admin.POST("/applications/:id/approve/", c.ApplicationHandler.Approve)
		admin.POST("/applications/:id/reject/", c.ApplicationHandler.Reject)

		admin.POST("/categories/", c.CategoryHandler.Create)
		admin.POST("/categories/:id/update/", c.CategoryHandler.Update)
		admin.POST("/categories/:id/delete/", c.CategoryHandler.Delete)

		admin.GET("/posts/:id/history/", c.PostHandler.History)

		admin.POST("/users/:id/delete/", middleware.RequireSuperuser(), c.UserHandler.DeleteUser)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		// Check database
		dbStatus := "ok"
		var pool interface{}
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
			if stats, err := appCtx.DB.Stats(); err == nil {
				pool = stats
			}
		}

		// Check redis (or the in-memory fallback)
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}
		if pool != nil {
			health["pool"] = pool
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
