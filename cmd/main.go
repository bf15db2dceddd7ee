package main

import (
	"context"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/zinhocoder/Aproovi-Back-end/internal/handler"
	"github.com/zinhocoder/Aproovi-Back-end/internal/middleware"
	"github.com/zinhocoder/Aproovi-Back-end/internal/model"
	"github.com/zinhocoder/Aproovi-Back-end/internal/service"
	"github.com/zinhocoder/Aproovi-Back-end/internal/store/postgres"
	"github.com/zinhocoder/Aproovi-Back-end/pkg/config"
	"github.com/zinhocoder/Aproovi-Back-end/pkg/database"
	"github.com/zinhocoder/Aproovi-Back-end/pkg/jwtutil"
	"github.com/zinhocoder/Aproovi-Back-end/pkg/logger"
	"github.com/zinhocoder/Aproovi-Back-end/pkg/objectstore"
	"github.com/zinhocoder/Aproovi-Back-end/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting creative approval service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(db,
		&model.Account{},
		&model.Company{},
		&model.Creative{},
		&model.CreativeVersion{},
		&model.CreativeComment{},
		&model.CreativeFile{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)

	// Initialize the object store client. No ambient global: the client is
	// constructed here and injected into the services that need it.
	assets, err := objectstore.NewS3Store(context.Background(), objectstore.S3Config{
		Bucket:        cfg.ObjectStore.Bucket,
		Region:        cfg.ObjectStore.Region,
		Endpoint:      cfg.ObjectStore.Endpoint,
		PublicBaseURL: cfg.ObjectStore.PublicBaseURL,
	})
	if err != nil {
		log.Fatal("Failed to initialize object store", zap.Error(err))
	}
	log.Info("Object store client initialized", zap.String("bucket", cfg.ObjectStore.Bucket))

	// Initialize Prometheus metrics
	prometheus.InitMetrics()

	// Wire stores, services and handlers
	st := postgres.New(db)
	authService := service.NewAuthService(st)
	tenancyService := service.NewTenancyService(st, assets, log)
	creativeService := service.NewCreativeService(st, assets, log)

	handler.Init(cfg.Server.Development())
	authHandler := handler.NewAuthHandler(authService)
	companyHandler := handler.NewCompanyHandler(tenancyService, creativeService)
	creativeHandler := handler.NewCreativeHandler(creativeService)

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.Metrics)

	// Authentication routes
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Public client-email verification, used before account creation
	e.GET("/api/companies/verify-email/:email", companyHandler.VerifyClientEmail)

	requireAuth := middleware.Auth(authService)

	// Company routes
	companies := e.Group("/api/companies", requireAuth)
	companies.GET("", companyHandler.List)
	companies.POST("", companyHandler.Create)
	companies.GET("/client/:email", companyHandler.GetByClientEmail)
	companies.GET("/:id", companyHandler.GetByID)
	companies.PUT("/:id", companyHandler.Update)
	companies.DELETE("/:id", companyHandler.Deactivate)
	companies.GET("/:id/creatives", companyHandler.ListCreatives)

	// Creative routes
	creatives := e.Group("/api/creatives", requireAuth)
	creatives.GET("", creativeHandler.List)
	creatives.POST("/upload", creativeHandler.Upload)
	creatives.POST("/upload-multiple", creativeHandler.UploadMultiple)
	creatives.GET("/:id", creativeHandler.GetByID)
	creatives.PUT("/:id/status", creativeHandler.SetStatus)
	creatives.PUT("/:id/comment", creativeHandler.SetComment) // legacy single-comment route
	creatives.POST("/:id/comments", creativeHandler.AddComment)
	creatives.POST("/:id/versions", creativeHandler.AddVersion)
	creatives.PUT("/:id/image", creativeHandler.UpdateImage)
	creatives.DELETE("/:id", creativeHandler.Delete)
	creatives.PUT("/:id", creativeHandler.SetStatus) // kept for old clients

	// Start server
	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
