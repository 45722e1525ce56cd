package router

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/career-hub/backend/internal/cache"
	"github.com/anonto42/career-hub/backend/internal/handlers"
	"github.com/anonto42/career-hub/backend/internal/middleware"
	"github.com/anonto42/career-hub/backend/internal/models"
	"github.com/anonto42/career-hub/backend/internal/realtime"
	"github.com/anonto42/career-hub/backend/internal/repositories"
	"github.com/anonto42/career-hub/backend/internal/services"
	"github.com/anonto42/career-hub/backend/pkg/config"
	"github.com/anonto42/career-hub/backend/pkg/firebase"
	"github.com/anonto42/career-hub/backend/pkg/logger"
)

// App exposes the pieces main needs after the routes are wired
type App struct {
	Notifications        *services.NotificationService
	NotificationRegistry *realtime.Registry
	ChatRegistry         *realtime.Registry
}

// SetupRoutes migrates the schema, builds every dependency and registers
// all routes. verifier may be nil when Firebase is not configured.
func SetupRoutes(e *echo.Echo, cfg *config.Config, db *config.DB, verifier firebase.TokenVerifier) (*App, error) {
	// AutoMigrate PostgreSQL models
	if err := db.Postgres.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to auto migrate models: %w", err)
	}
	logger.Log.Info("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	pgdb := db.Postgres
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	var postRepo repositories.PostRepository = repositories.NewPostgresPostRepository(pgdb)
	if cfg.PostStore == config.PostStoreMongo {
		if db.Mongo == nil {
			return nil, fmt.Errorf("POST_STORE=mongo requires a MongoDB connection")
		}
		postRepo = repositories.NewMongoPostRepository(db.Mongo.Database(cfg.MongoDatabase), pgdb)
		logger.Log.Info("Posts are stored in MongoDB.")
	}
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	commentLikeRepo := repositories.NewPostgresCommentLikeRepository(pgdb)
	connectionRepo := repositories.NewPostgresConnectionRepository(pgdb)
	messageRepo := repositories.NewPostgresMessageRepository(pgdb)
	applicationRepo := repositories.NewPostgresApplicationRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)

	// --- Push channels and notification pipeline ---
	notificationRegistry := realtime.NewRegistry("notifications")
	chatRegistry := realtime.NewRegistry("chat")
	unreadCache := cache.NewUnreadCache(db.Redis, cfg.UnreadCacheTTL)
	dispatcher := services.NewDispatcher(notificationRegistry, chatRegistry, unreadCache)
	notifier := services.NewNotifier(services.NewComposer(notificationRepo), dispatcher)

	// --- Services ---
	authService := services.NewAuthService(userRepo, verifier, cfg.JWTSecret, cfg.JWTTTL)
	postService := services.NewPostService(postRepo, likeRepo, userRepo)
	likeService := services.NewLikeService(postRepo, commentRepo, likeRepo, commentLikeRepo, userRepo, notifier)
	commentService := services.NewCommentService(commentRepo, commentLikeRepo, postRepo, userRepo, notifier)
	connectionService := services.NewConnectionService(connectionRepo, userRepo, notifier)
	applicationService := services.NewApplicationService(applicationRepo, postRepo, userRepo, notifier)
	notificationService := services.NewNotificationService(notificationRepo, unreadCache)
	chatService := services.NewChatService(messageRepo, userRepo, notifier, dispatcher)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	handlers.NewAuthHandler(authService).RegisterAuthRoutes(authGroup)

	// --- Protected routes (require JWT authentication) ---
	jwtAuth := middleware.JWTAuthMiddleware(cfg.JWTSecret)
	api := e.Group("/api/v1", jwtAuth)

	handlers.NewUserHandler(userRepo).RegisterProfileRoutes(api)
	handlers.NewPostHandler(postService).RegisterPostRoutes(api)
	handlers.NewLikeHandler(likeService).RegisterLikeRoutes(api)
	handlers.NewCommentHandler(commentService).RegisterCommentRoutes(api)
	handlers.NewConnectionHandler(connectionService).RegisterConnectionRoutes(api)
	handlers.NewApplicationHandler(applicationService).RegisterApplicationRoutes(api)
	handlers.NewNotificationHandler(notificationService).RegisterNotificationRoutes(api)
	chatHandler := handlers.NewChatHandler(chatService)
	chatHandler.RegisterChatRoutes(api)

	// --- Websocket push channels ---
	ws := e.Group("/ws", jwtAuth)
	wsHandler := handlers.NewWebSocketHandler(
		realtime.NewHub(notificationRegistry, cfg.CORSOrigins, nil),
		realtime.NewHub(chatRegistry, cfg.CORSOrigins, chatHandler.HandleFrame),
	)
	wsHandler.RegisterWebSocketRoutes(ws)

	logger.Log.Info("All routes configured.")
	return &App{
		Notifications:        notificationService,
		NotificationRegistry: notificationRegistry,
		ChatRegistry:         chatRegistry,
	}, nil
}
