package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soma-study/exam-service/internal/ai"
	"github.com/soma-study/exam-service/internal/cache"
	"github.com/soma-study/exam-service/internal/config"
	"github.com/soma-study/exam-service/internal/evaluator"
	"github.com/soma-study/exam-service/internal/handlers"
	"github.com/soma-study/exam-service/internal/repositories/postgres"
	"github.com/soma-study/exam-service/internal/services"
	"github.com/soma-study/exam-service/internal/utils"
	"github.com/soma-study/exam-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}

	var store cache.Store
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		// Sessions survive in memory only; resumption across restarts is lost.
		logger.Warn("Redis unavailable, session snapshots disabled", "error", err)
		store = cache.NoopStore{}
	} else {
		defer redisClient.Close()
		store = cache.NewRedisStore(redisClient, slogger)
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.LogError(err, "Failed to create event publisher")
		os.Exit(1)
	}
	defer publisher.Close()

	gateway, err := ai.NewClient(ai.Config{
		APIKeys: cfg.AI.APIKeys,
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
	}, slogger)
	if err != nil {
		logger.LogError(err, "Failed to create AI gateway")
		os.Exit(1)
	}

	manager := services.NewServiceManager(services.Deps{
		Gateway:   gateway,
		Evaluator: evaluator.New(gateway, slogger),
		Repo:      postgres.NewRepository(db),
		Cache:     store,
		Publisher: publisher,
		Validator: utils.NewValidator(),
		Logger:    slogger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Countdown loop; expired exams are auto-submitted in the background.
	go manager.Exam().Run(ctx)

	router := gin.New()
	handlers.SetupRoutes(router, handlers.NewHandlerManager(manager, logger), cfg, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting exam service", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError(err, "Server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.LogError(err, "Graceful shutdown failed")
	}
}
