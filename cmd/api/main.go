package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mike2377/gestion-stage-sub000/internal/app"
	"github.com/mike2377/gestion-stage-sub000/internal/config"
	"github.com/mike2377/gestion-stage-sub000/internal/database"
	"github.com/mike2377/gestion-stage-sub000/internal/domain/audit"
	apphttp "github.com/mike2377/gestion-stage-sub000/internal/http"
	"github.com/mike2377/gestion-stage-sub000/internal/http/handlers"
	httpmw "github.com/mike2377/gestion-stage-sub000/internal/http/middleware"
	"github.com/mike2377/gestion-stage-sub000/internal/notify"
	"github.com/mike2377/gestion-stage-sub000/internal/observability"
	"github.com/mike2377/gestion-stage-sub000/internal/repository/postgres"
	"github.com/mike2377/gestion-stage-sub000/internal/security"
	"github.com/mike2377/gestion-stage-sub000/internal/store"
	"github.com/mike2377/gestion-stage-sub000/internal/store/memory"
	"github.com/mike2377/gestion-stage-sub000/internal/workflow"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger()

	var (
		entityStore store.EntityStore
		auditRepo   audit.Repository
	)
	if cfg.PostgresDSN != "" {
		connectCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := database.NewPostgres(connectCtx, database.PostgresConfig{
			DSN:             cfg.PostgresDSN,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxIdle:     cfg.DBConnMaxIdle,
			ConnMaxLifetime: cfg.DBConnMaxLife,
		})
		cancel()
		if err != nil {
			logger.Error("postgres connect failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := database.EnsureSchema(db); err != nil {
			logger.Error("schema bootstrap failed", "error", err)
			os.Exit(1)
		}
		entityStore = postgres.NewRecordStore(db)
		auditRepo = postgres.NewAuditRepository(db)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory store")
		entityStore = memory.New()
		auditRepo = memory.NewAuditLog()
	}

	var limiter httpmw.Limiter = httpmw.NewRateLimiter()
	notifier := workflow.Notifier(notify.NewLogNotifier(logger))
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		limiter = httpmw.NewRedisLimiter(redisClient)
		notifier = notify.Fanout{
			notify.NewLogNotifier(logger),
			notify.NewRedisNotifier(redisClient, cfg.EventChannel, logger),
		}
	}

	engine := workflow.NewEngine(entityStore, auditRepo, notifier)

	stageService := app.NewStageService(entityStore, engine)
	applicationService := app.NewApplicationService(entityStore, engine)
	conventionService := app.NewConventionService(entityStore, engine)
	taskService := app.NewTaskService(entityStore, engine)
	evaluationService := app.NewEvaluationService(entityStore, engine)
	statsService := app.NewStatsService(entityStore)

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		StageHandler:       handlers.NewStageHandler(stageService, limiter),
		ApplicationHandler: handlers.NewApplicationHandler(applicationService, limiter),
		ConventionHandler:  handlers.NewConventionHandler(conventionService),
		TaskHandler:        handlers.NewTaskHandler(taskService),
		EvaluationHandler:  handlers.NewEvaluationHandler(evaluationService),
		ReportHandler:      handlers.NewReportHandler(evaluationService),
		StatsHandler:       handlers.NewStatsHandler(statsService, engine),
		AuthMiddleware:     httpmw.NewAuthMiddleware(jwtProvider),
		Logger:             logger,
		RequestTimeout:     cfg.RequestTimeout,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
