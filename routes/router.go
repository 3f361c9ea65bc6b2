package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hackernest/hackernest/config"
	"github.com/hackernest/hackernest/controllers"
	"github.com/hackernest/hackernest/hn"
	"github.com/hackernest/hackernest/middleware"
	"github.com/hackernest/hackernest/services"
	"github.com/hackernest/hackernest/utils"
)

var startedAt = time.Now()

// SetupRouter wires routes, middlewares, services, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Shared infrastructure and domain services
	store := services.NewGormStore(db)
	hnClient := hn.NewClient(cfg.HNSearchBaseURL, cfg.HNUserBaseURL, time.Duration(cfg.HNTimeoutSeconds)*time.Second)
	trees := services.NewTreeBuilder(store, hnClient, utils.Logger)
	moderation := services.NewModeration(store, utils.Logger)
	likes := services.NewLikes(store, store)
	reports := services.NewReports(store, store, store, store)
	accounts := services.NewAccounts(store)

	userController := controllers.NewUserController(db, accounts, hnClient)
	storyController := controllers.NewStoryController(db, moderation, trees)
	commentController := controllers.NewCommentController(db, moderation, trees)
	likeController := controllers.NewLikeController(likes)
	reportController := controllers.NewReportController(db, reports)
	searchController := controllers.NewSearchController(db, hnClient)
	adminController := controllers.NewAdminController(db, moderation)

	r.GET("/", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"name": "hackernest", "status": "ok"})
	})
	r.GET("/health", func(ctx *gin.Context) {
		dbState := "up"
		if err := config.Ping(); err != nil {
			dbState = "down"
		}
		utils.Success(ctx, gin.H{
			"status":   "ok",
			"database": dbState,
			"uptime":   time.Since(startedAt).String(),
			"pid":      os.Getpid(),
		})
	})

	usersGroup := r.Group("/users")
	usersGroup.Use(middleware.RateLimitMiddleware())
	usersGroup.POST("/register", userController.Register)
	usersGroup.POST("/login", userController.Login)
	usersGroup.GET("/check-username/:username", userController.CheckUsername)
	usersGroup.GET("/check-hn-username/:username", userController.CheckHNUsername)
	usersGroup.GET("/id/:username", userController.IDByUsername)
	usersGroup.POST("/logout", middleware.AuthRequired(), userController.Logout)
	usersGroup.GET("/me", middleware.AuthRequired(), userController.Me)
	usersGroup.PATCH("/me", middleware.AuthRequired(), userController.UpdateProfile)
	usersGroup.GET("/me/bookmarks", middleware.AuthRequired(), userController.Bookmarks)
	usersGroup.POST("/me/bookmarks/:itemId", middleware.AuthRequired(), userController.AddBookmark)
	usersGroup.DELETE("/me/bookmarks/:itemId", middleware.AuthRequired(), userController.RemoveBookmark)
	usersGroup.GET("/:id", userController.PublicProfile)
	usersGroup.POST("/:id/follow", middleware.AuthRequired(), userController.Follow)
	usersGroup.PATCH("/:id/unfollow", middleware.AuthRequired(), userController.Unfollow)
	usersGroup.DELETE("/:id/follow", middleware.AuthRequired(), userController.Unfollow)
	usersGroup.GET("/:id/is-following", middleware.AuthRequired(), userController.IsFollowing)

	storyGroup := r.Group("/story")
	storyGroup.GET("", storyController.ListStories)
	storyGroup.GET("/type/:type", storyController.ListStoriesByType)
	storyGroup.GET("/:storyId", storyController.GetStory)
	storyGroup.GET("/:storyId/full", storyController.GetStoryFull)
	storyGroup.POST("", middleware.AuthRequired(), middleware.RateLimitMiddleware(), storyController.CreateStory)
	storyGroup.PATCH("/:storyId", middleware.AuthRequired(), storyController.UpdateStory)
	storyGroup.PUT("/:storyId", middleware.AuthRequired(), storyController.UpdateStory)
	storyGroup.DELETE("/:storyId", middleware.AuthRequired(), storyController.DeleteStory)

	commentGroup := r.Group("/comment")
	commentGroup.GET("/story/:storyId", commentController.Thread)
	commentGroup.GET("/:commentId", commentController.GetComment)
	commentGroup.POST("", middleware.AuthRequired(), middleware.RateLimitMiddleware(), commentController.CreateComment)
	commentGroup.PATCH("/:commentId", middleware.AuthRequired(), commentController.UpdateComment)
	commentGroup.PUT("/:commentId", middleware.AuthRequired(), commentController.UpdateComment)
	commentGroup.DELETE("/:commentId", middleware.AuthRequired(), commentController.DeleteComment)

	likesGroup := r.Group("/likes")
	likesGroup.Use(middleware.AuthRequired())
	likesGroup.POST("/:itemId/toggle", likeController.Toggle)
	likesGroup.GET("/:itemId/status", likeController.Status)
	likesGroup.GET("/user/my-likes", likeController.MyLikes)

	reportGroup := r.Group("/report")
	reportGroup.Use(middleware.AuthRequired())
	reportGroup.POST("", middleware.RateLimitMiddleware(), reportController.Create)
	reportGroup.GET("/count/content/:contentId", reportController.CountByContent)
	reportGroup.GET("/count/author/:username", reportController.CountByAuthor)
	reportGroup.GET("", middleware.AdminRequired(), reportController.ListAll)
	reportGroup.GET("/status/:status", middleware.AdminRequired(), reportController.ListByStatus)
	reportGroup.GET("/content/:contentId", middleware.AdminRequired(), reportController.ListByContent)
	reportGroup.GET("/author/:username", middleware.AdminRequired(), reportController.ListByAuthor)
	reportGroup.PATCH("/:reportId/status", middleware.AdminRequired(), reportController.UpdateStatus)
	reportGroup.DELETE("/:reportId", middleware.AdminRequired(), reportController.Delete)

	r.GET("/search", searchController.Search)
	r.GET("/items/:id", searchController.Item)
	r.GET("/front-page", searchController.FrontPage)
	r.GET("/tag/:storyType", searchController.Tag)

	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.AuthRequired(), middleware.AdminRequired())
	adminGroup.POST("/users/:id/block", adminController.BlockUser)
	adminGroup.POST("/users/:id/unblock", adminController.UnblockUser)
	adminGroup.GET("/users", adminController.ListUsers)
	adminGroup.GET("/users/:id", adminController.GetUser)
	adminGroup.POST("/emails/block", adminController.BlockEmail)
	adminGroup.DELETE("/emails/:email", adminController.UnblockEmail)
	adminGroup.GET("/emails", adminController.ListBlockedEmails)
	adminGroup.GET("/stories", adminController.ListStories)
	adminGroup.GET("/comments", adminController.ListComments)
	adminGroup.GET("/stories/deleted", adminController.DeletedStories)
	adminGroup.GET("/comments/deleted", adminController.DeletedComments)
	adminGroup.POST("/stories/:id/restore", adminController.RestoreStory)
	adminGroup.POST("/comments/:id/restore", adminController.RestoreComment)
	adminGroup.GET("/analytics/problematic-users", adminController.ProblematicUsers)
	adminGroup.GET("/analytics/top-contributors", adminController.TopContributors)
	adminGroup.GET("/analytics/trending", adminController.Trending)
	adminGroup.GET("/stats/dashboard", adminController.DashboardStats)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
