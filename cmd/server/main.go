// Package main is the entry point for the hindsight backtesting service.
// It loads historical prices from CSV files into a local store and exposes
// the simulation engine over a small REST API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aristath/hindsight/internal/config"
	"github.com/aristath/hindsight/internal/modules/pricestore"
	"github.com/aristath/hindsight/internal/modules/ranking"
	"github.com/aristath/hindsight/internal/modules/returns"
	"github.com/aristath/hindsight/internal/modules/simulation"
	"github.com/aristath/hindsight/internal/modules/statistics"
	"github.com/aristath/hindsight/internal/modules/trend"
	"github.com/aristath/hindsight/internal/modules/withdrawal"
	"github.com/aristath/hindsight/internal/scheduler"
	"github.com/aristath/hindsight/internal/server"
	"github.com/aristath/hindsight/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	store, err := pricestore.Open(cfg.DBPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open price store")
	}
	defer store.Close()

	if err := store.ImportDir(cfg.DataDir); err != nil {
		log.Warn().Err(err).Str("dir", cfg.DataDir).Msg("Initial price import failed")
	}

	stats := statistics.NewCalculator(log)
	aggregator := returns.NewAggregator(log)

	srv := server.New(
		store,
		simulation.NewSimulator(log),
		stats,
		aggregator,
		withdrawal.NewOverlay(log),
		trend.NewSimulator(stats, log),
		ranking.NewService(aggregator, log),
		log,
	)

	sched := scheduler.New(log)
	if cfg.RefreshCron != "" {
		err := sched.Add(cfg.RefreshCron, "price-import", func() {
			if err := store.ImportDir(cfg.DataDir); err != nil {
				log.Warn().Err(err).Msg("Scheduled price import failed")
			}
		})
		if err != nil {
			log.Fatal().Err(err).Str("spec", cfg.RefreshCron).Msg("Invalid refresh cron spec")
		}
		sched.Start()
		defer sched.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx, cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("HTTP server failed")
	}

	log.Info().Msg("Shutdown complete")
}
