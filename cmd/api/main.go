package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Michela-Labianco/timetable-simulation/internal/cache"
	"github.com/Michela-Labianco/timetable-simulation/internal/config"
	"github.com/Michela-Labianco/timetable-simulation/internal/database"
	"github.com/Michela-Labianco/timetable-simulation/internal/handlers"
	"github.com/Michela-Labianco/timetable-simulation/internal/jobs"
	"github.com/Michela-Labianco/timetable-simulation/internal/log"
	"github.com/Michela-Labianco/timetable-simulation/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect mongo")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	handlerSet := handlers.NewHandlerSet(logger, db, redisClient, cfg)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	auditor := jobs.NewAuditor(db, logger)
	if err := auditor.Start(); err != nil {
		logger.Error().Err(err).Msg("auditor start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, auditor, db, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, auditor *jobs.Auditor, db *mongo.Database, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	auditor.Stop()

	if err := database.Disconnect(shutdownCtx, db); err != nil {
		logger.Error().Err(err).Msg("mongo disconnect error")
	}
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
