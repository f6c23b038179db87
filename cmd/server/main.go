package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dealdesk/server/config"
	"dealdesk/server/internal/api"
	"dealdesk/server/internal/cache"
	"dealdesk/server/internal/database"
	"dealdesk/server/internal/processor"
	"dealdesk/server/internal/queue"
	"dealdesk/server/internal/scheduler"
	"dealdesk/server/internal/underwriting"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	logger.SetLevel(cfg.Level())

	profiles, err := config.LoadAssumptionProfile(cfg.Underwriting.ProfilePath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load assumptions profile")
	}
	logger.WithField("profile", profiles.Get().Name).Info("Assumptions profile loaded")

	dbPath, err := filepath.Abs(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to resolve database path")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.WithError(err).Fatal("Failed to create database directory")
	}
	logger.Infof("Using database at: %s", dbPath)

	db, err := database.NewDatabase(dbPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	store := cache.NewCache(cfg.Cache.RedisURL, logger)
	defer store.Close()
	logger.WithField("backend", store.Backend()).Info("Run cache ready")

	runQueue := queue.NewRunQueue(cfg.BatchProcessing.QueueSize, logger)
	recorder := processor.NewBatchProcessor(db.GetDB(), runQueue, cfg, logger)
	recorder.Start()
	defer recorder.Stop()

	retention := scheduler.NewScheduler(db, cfg.Underwriting.RunRetentionDays, cfg.Underwriting.RunRetentionSchedule, logger)
	if err := retention.Start(); err != nil {
		logger.WithError(err).Fatal("Failed to start run retention")
	}
	defer retention.Stop()

	service := underwriting.NewService(db, underwriting.Settings{
		MaxProjectionYears: cfg.Underwriting.MaxProjectionYears,
	}, logger)
	if err := service.SetBaseline(profiles.Get().Assumptions); err != nil {
		logger.WithError(err).Fatal("Assumptions profile does not fit the projection limit")
	}

	limiter := api.NewRateLimiter(cfg.Underwriting.RateLimitPerMinute, time.Minute)
	defer limiter.Stop()

	handler := api.NewHandler(api.Dependencies{
		Service:      service,
		Profiles:     profiles,
		Cache:        cache.NewRunCache(store, cfg.CacheTTL(), logger),
		Recorder:     recorder,
		Store:        db,
		Limiter:      limiter,
		BatchWorkers: cfg.Underwriting.BatchWorkers,
		BatchMax:     cfg.Underwriting.BatchMax,
	}, logger)

	if cfg.Level() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, handler, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
}
