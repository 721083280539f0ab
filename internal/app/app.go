package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	_ "taskpilot/docs"
	"taskpilot/internal/config"
	"taskpilot/internal/handlers"
	"taskpilot/internal/logger"
	"taskpilot/internal/middleware"
	"taskpilot/internal/pdf"
	"taskpilot/internal/realtime"
	"taskpilot/internal/repositories"
	"taskpilot/internal/routes"
	"taskpilot/internal/services"
)

// Run serves the API until SIGINT/SIGTERM and returns the process exit code.
func Run(cfg *config.Config) int {
	log := logger.Setup(cfg.Log)
	if cfg.Auth.JWTSecret == "" {
		log.Error("[app] auth.jwt_secret (or AUTH_JWT_SECRET) is required")
		return 1
	}

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.WithError(err).Error("[app] open database")
		return 1
	}
	if cfg.Database.AutoMigrate {
		if err := repositories.EnsureSchema(context.Background(), db); err != nil {
			log.WithError(err).Error("[app] ensure schema")
			_ = db.Close()
			return 1
		}
	}

	// === Repos / services ===
	taskRepo := repositories.NewTaskRepository(db)
	hub := realtime.NewHub(log)
	taskService := services.NewTaskService(taskRepo, hub)

	gemini := services.NewGeminiService(cfg.Generator, log)
	generator := services.NewTaskGenerator(gemini, log)

	// === Handlers ===
	handlers.RegisterValidators()
	taskHandler := handlers.NewTaskHandler(taskService, log)
	generateHandler := handlers.NewGenerateHandler(generator, log)
	reportHandler := handlers.NewReportHandler(taskService, pdf.NewReportRenderer(cfg.Reports.FontPath), log)
	eventsHandler := handlers.NewEventsHandler(hub, log)
	healthHandler := handlers.NewHealthHandler(taskRepo, generator, cfg.Generator.APIKey != "", log)

	// === Gin ===
	router := NewRouter(log)
	routes.SetupRoutes(
		router,
		middleware.AuthMiddleware(cfg.Auth, log),
		taskHandler,
		generateHandler,
		reportHandler,
		eventsHandler,
		healthHandler,
	)

	// === Run ===
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}
	go func() {
		log.WithField("addr", srv.Addr).Info("[app] server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("[app] server failed")
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.Server.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			// operations run concurrently, so the pool is closed after the server drains
			"http-server": func(ctx context.Context) error {
				// subscriptions are hijacked connections, Shutdown does not wait for them
				_ = hub.Close()
				err := srv.Shutdown(ctx)
				return errors.Join(err, db.Close())
			},
		},
	)

	exitCode := <-wait
	log.WithField("code", exitCode).Info("[app] exited")
	return exitCode
}

// Migrate creates the schema in the configured database.
func Migrate(ctx context.Context, cfg *config.Config) error {
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	return repositories.EnsureSchema(ctx, db)
}

// NewRouter builds the engine with the shared middleware chain.
func NewRouter(log logrus.FieldLogger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(corsMiddleware())
	return router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
