package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"view-analytics-service/internal/config"
	"view-analytics-service/internal/controller"
	"view-analytics-service/internal/db"
	httpserver "view-analytics-service/internal/http"
	"view-analytics-service/internal/repository"
	"view-analytics-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.NewConnection(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect db")
	}
	defer conn.Close()

	if err := db.RunMigrations(ctx, conn); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	views := repository.NewViewRepository(conn)
	players := repository.NewPlayerRepository(conn)
	worker := service.NewBatchViewWorker(views, cfg.WorkerBufferSize, cfg.WorkerBatchSize, cfg.WorkerFlushEvery)
	analytics := service.NewAnalyticsService(views, players, worker, cfg.RecentViewersLimit, cfg.LeaderboardDefaultLimit)
	viewController := controller.NewViewController(analytics)

	server := httpserver.NewServer(cfg, viewController)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := server.Shutdown(); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTPPort).Msg("starting server")
	if err := server.Listen(cfg.HTTPPort); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}

	worker.Shutdown()
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.AppMode == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}
}
