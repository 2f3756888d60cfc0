package server

import (
	"log"
	"net/http"
	"strings"
	"time"

	"anoa.com/alumninetwork/internal/config"
	"anoa.com/alumninetwork/internal/entity"
	"anoa.com/alumninetwork/internal/middleware"
	"anoa.com/alumninetwork/pkg/storage"

	adminHttp "anoa.com/alumninetwork/internal/modules/admin/delivery/http"
	adminService "anoa.com/alumninetwork/internal/modules/admin/service"

	commentHttp "anoa.com/alumninetwork/internal/modules/comment/delivery/http"
	commentRepo "anoa.com/alumninetwork/internal/modules/comment/repository"
	commentService "anoa.com/alumninetwork/internal/modules/comment/service"

	notiHttp "anoa.com/alumninetwork/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/alumninetwork/internal/modules/notification/repository"
	notifService "anoa.com/alumninetwork/internal/modules/notification/service"

	postHttp "anoa.com/alumninetwork/internal/modules/post/delivery/http"
	postRepo "anoa.com/alumninetwork/internal/modules/post/repository"
	postService "anoa.com/alumninetwork/internal/modules/post/service"

	reactionHttp "anoa.com/alumninetwork/internal/modules/reaction/delivery/http"
	reactionRepo "anoa.com/alumninetwork/internal/modules/reaction/repository"
	reactionService "anoa.com/alumninetwork/internal/modules/reaction/service"

	searchService "anoa.com/alumninetwork/internal/modules/search/service"

	statHttp "anoa.com/alumninetwork/internal/modules/stat/delivery/http"
	statRepo "anoa.com/alumninetwork/internal/modules/stat/repository"
	statService "anoa.com/alumninetwork/internal/modules/stat/service"

	surveyHttp "anoa.com/alumninetwork/internal/modules/survey/delivery/http"
	surveyRepo "anoa.com/alumninetwork/internal/modules/survey/repository"
	surveyService "anoa.com/alumninetwork/internal/modules/survey/service"

	userHttp "anoa.com/alumninetwork/internal/modules/user/delivery/http"
	userRepo "anoa.com/alumninetwork/internal/modules/user/repository"
	userService "anoa.com/alumninetwork/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

// NewServer wires every module. redisClient may be nil; rate limiting, the reaction counts
// cache and live notifications are then disabled.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := userRepo.NewUserRepository(db)

	var mediaStorage storage.MediaStorage
	if ms, err := storage.NewCloudinaryStorage(storage.Options{
		URL:       cfg.CloudinaryURL,
		CloudName: cfg.CloudinaryCloudName,
		Folder:    cfg.CloudinaryUploadFolder,
	}); err != nil {
		log.Printf("Cloudinary disabled, avatar uploads will be rejected: %v", err)
	} else {
		mediaStorage = ms
	}

	var meiliSvc searchService.MeiliSearchService
	if cfg.MeiliSearchHost != "" {
		meiliHost := cfg.MeiliSearchHost
		if !strings.HasPrefix(meiliHost, "http") {
			meiliHost = "http://" + meiliHost + ":7700"
		}
		meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		meiliSvc = searchService.NewMeiliSearchService(meiliClient)
	}

	userSvc := userService.NewUserService(userRepo, mediaStorage)
	authSvc := userService.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL, meiliSvc)
	userHandler := userHttp.NewUserHandler(userSvc, authSvc)

	adminSvc := adminService.NewAdminService(userRepo, userSvc)
	adminHandler := adminHttp.NewAdminHandler(adminSvc)

	// Notification Module
	notificationRepository := notifRepo.NewNotificationRepository(db)
	notificationSvc := notifService.NewNotificationService(notificationRepository, redisClient)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, redisClient, originChecker(cfg.AllowedOrigins))

	postRepo := postRepo.NewPostRepository(db)

	reactionRepo := reactionRepo.NewReactionRepository(db)
	reactionSvc := reactionService.NewReactionService(reactionRepo, redisClient)
	reactionHandler := reactionHttp.NewReactionHandler(reactionSvc)

	postSvc := postService.NewPostService(postRepo, userRepo, reactionSvc, meiliSvc, redisClient, cfg.RateLimitGlobal)
	postHandler := postHttp.NewPostHandler(postSvc)

	commentRepo := commentRepo.NewCommentRepository(db)
	commentSvc := commentService.NewCommentService(commentRepo, postRepo, userRepo, notificationSvc, redisClient, cfg.RateLimitComment)
	commentHandler := commentHttp.NewCommentHandler(commentSvc)

	surveyRepo := surveyRepo.NewSurveyRepository(db)
	surveySvc := surveyService.NewSurveyService(surveyRepo, userRepo, meiliSvc)
	surveyHandler := surveyHttp.NewSurveyHandler(surveySvc)

	statSvc := statService.NewStatService(statRepo.NewStatRepository(db), postRepo, reactionSvc)
	statHandler := statHttp.NewStatHandler(statSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/api/notifications/ws"},
	}))

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)
	staffOnly := authMiddleware.RequireRole(entity.RoleAdmin, entity.RoleLecturer)

	api := router.Group("/api")

	// Public routes (no auth required)
	api.POST("/users", userHandler.Register)
	api.POST("/auth/login", userHandler.Login)

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.POST("/users", adminHandler.CreateUser)
			adminGroup.GET("/users/pending", adminHandler.GetPendingUsers)
			adminGroup.PUT("/users/:id/approve", adminHandler.ApproveUser)
			adminGroup.PUT("/users/:id/deactivate", adminHandler.DeactivateUser)
			adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)
		}

		// User routes
		protected.GET("/users", userHandler.ListUsers)
		protected.GET("/users/me", userHandler.GetMe)
		protected.PUT("/users/me", userHandler.UpdateMe)
		protected.DELETE("/users/me", userHandler.DeleteMe)
		protected.PUT("/users/me/interactions", userHandler.ReplaceInteractions)
		protected.GET("/users/:id", userHandler.GetUser)
		protected.GET("/users/:id/interactions", userHandler.GetInteractions)
		protected.GET("/users/:id/interacted-by", userHandler.GetInteractedBy)

		// Post routes
		protected.POST("/posts", postHandler.CreatePost)
		protected.GET("/posts", postHandler.GetPosts)
		protected.GET("/posts/:post_id", postHandler.GetPostByID)
		protected.PUT("/posts/:post_id", postHandler.UpdatePost)
		protected.PUT("/posts/:post_id/comment-lock", postHandler.SetCommentLock)
		protected.DELETE("/posts/:post_id", postHandler.DeletePost)

		// Comment routes
		protected.POST("/posts/:post_id/comments", commentHandler.CreateComment)
		protected.GET("/posts/:post_id/comments", commentHandler.GetComments)
		protected.PUT("/comments/:id", commentHandler.UpdateComment)
		protected.DELETE("/comments/:id", commentHandler.DeleteComment)

		// Reaction routes
		protected.POST("/posts/:post_id/reactions", reactionHandler.CreateReaction)
		protected.PUT("/posts/:post_id/reactions", reactionHandler.UpdateReaction)
		protected.DELETE("/posts/:post_id/reactions", reactionHandler.DeleteReaction)
		protected.GET("/posts/:post_id/reactions", reactionHandler.GetReactions)

		// Survey routes
		protected.POST("/surveys", staffOnly, surveyHandler.CreateSurvey)
		protected.GET("/surveys", surveyHandler.GetSurveys)
		protected.GET("/surveys/:id", surveyHandler.GetSurvey)
		protected.PUT("/surveys/:id", staffOnly, surveyHandler.UpdateSurvey)
		protected.DELETE("/surveys/:id", staffOnly, surveyHandler.DeleteSurvey)
		protected.POST("/surveys/:id/questions", staffOnly, surveyHandler.CreateQuestion)
		protected.POST("/surveys/:id/answers", surveyHandler.SubmitAnswer)
		protected.GET("/surveys/:id/answers/me", surveyHandler.GetMyAnswers)
		protected.POST("/surveys/:id/stats", staffOnly, surveyHandler.TakeSnapshot)
		protected.GET("/surveys/:id/stats", staffOnly, surveyHandler.GetStats)
		protected.GET("/questions/:id", surveyHandler.GetQuestion)
		protected.PUT("/questions/:id", staffOnly, surveyHandler.UpdateQuestion)
		protected.DELETE("/questions/:id", staffOnly, surveyHandler.DeleteQuestion)
		protected.POST("/questions/:id/choices", staffOnly, surveyHandler.CreateChoice)
		protected.PUT("/choices/:id", staffOnly, surveyHandler.UpdateChoice)
		protected.DELETE("/choices/:id", staffOnly, surveyHandler.DeleteChoice)

		// Notification routes
		protected.POST("/notifications", staffOnly, notificationHandler.Send)
		protected.GET("/notifications", notificationHandler.GetReceived)
		protected.GET("/notifications/sent", notificationHandler.GetSent)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		// Stat routes
		stats := protected.Group("/stats")
		stats.Use(staffOnly)
		{
			stats.GET("/users", statHandler.GetUserStats)
			stats.GET("/posts", statHandler.GetPostStats)
			stats.GET("/years", statHandler.GetAvailableYears)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func splitOrigins(allowedOrigins string) []string {
	var origins []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return origins
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitOrigins(allowedOrigins),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

// originChecker accepts websocket upgrades from the CORS origins and from clients that send
// no Origin header at all.
func originChecker(allowedOrigins string) func(r *http.Request) bool {
	allowed := make(map[string]bool)
	for _, o := range splitOrigins(allowedOrigins) {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed[origin]
	}
}
