package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Prithwi32/vidyastraa-exam-engine/internal/cache"
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/config"
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/handlers"
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/repositories/postgres"
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/services"
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/utils"
	"github.com/Prithwi32/vidyastraa-exam-engine/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := pkg.AutoMigrate(db); err != nil {
		logger.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("event publisher setup failed", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	repo := postgres.NewRepository(db)
	checkpoints := cache.NewRedisCheckpointStore(redisClient, slogger)
	validator := utils.NewValidator()

	serviceManager := services.NewServiceManager(repo, publisher, checkpoints, validator, slogger)
	serviceManager.Sessions().SetCheckpointGrace(
		time.Duration(cfg.CheckpointTTLGraceMinutes) * time.Minute)

	if err := serviceManager.Sessions().Start(); err != nil {
		logger.Error("session manager start failed", "error", err)
		os.Exit(1)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(serviceManager, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("exam engine listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	// Final checkpoint pass runs inside Stop so in-flight sessions
	// survive the restart.
	serviceManager.Sessions().Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	logger.Info("stopped")
}
