package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"apt_reviews/internal/adapters/jotform"
	"apt_reviews/internal/adapters/observability"
	"apt_reviews/internal/app"
	"apt_reviews/internal/shared"
	"apt_reviews/internal/storage/files"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel).
		With().Str("run_id", uuid.NewString()).Str("cmd", "fetcher").Logger()

	observability.Serve(cfg.MetricsAddr, observability.InitRegistry())

	client, err := jotform.New(cfg.JotformBase, cfg.JotformForm, cfg.JotformKey, cfg.JotformRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize forms client")
	}
	store := files.NewBatchStore(cfg.BatchDir)
	svc := app.NewFetchService(client, store, cfg.BatchSize, cfg.FetchMax, cfg.Workers)

	log.Info().
		Str("dir", store.Dir()).
		Int("batch", cfg.BatchSize).
		Int("max", cfg.FetchMax).
		Int("workers", cfg.Workers).
		Msg("fetch starting")

	start := time.Now()
	sum, err := svc.Run(ctx)
	ev := log.Info()
	if err != nil {
		ev = log.Error().Err(err)
	}
	ev.Int("pages", sum.Pages).
		Int("written", sum.Written).
		Int("empty", sum.Empty).
		Int("failed", sum.Failed).
		Dur("took", time.Since(start)).
		Msg("fetch finished")
	if err != nil {
		os.Exit(1)
	}
}
