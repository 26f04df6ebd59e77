package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"apt_reviews/internal/adapters/google"
	"apt_reviews/internal/adapters/observability"
	"apt_reviews/internal/app"
	"apt_reviews/internal/shared"
	"apt_reviews/internal/storage/files"
	mysqlrepo "apt_reviews/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel).
		With().Str("run_id", uuid.NewString()).Str("cmd", "ingestor").Logger()
	cfg.Warn()

	observability.Serve(cfg.MetricsAddr, observability.InitRegistry())

	db, err := shared.OpenDB(ctx, cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	defer db.Close()
	log.Info().Msg("db ping ok")

	cache, closeCache, err := shared.OpenCache(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("cache unavailable")
	}
	defer closeCache()

	// Both Google APIs draw on one pace.
	limiter := rate.NewLimiter(rate.Limit(cfg.GoogleRPS), 1)
	geo := app.NewCachedGeocoder(google.NewGeocoder(cfg.GeoKey, google.WithLimiter(limiter)), cache, cfg.CacheTTL)
	street := google.NewStreetView(cfg.StreetKey, google.WithLimiter(limiter))
	assets := files.NewAssetStore(cfg.AssetsDir, cfg.StorageURL, cfg.StorageBucket)

	ing := app.NewIngestionService(geo, street, assets, mysqlrepo.New(db), app.DedupPolicy(cfg.DedupOnError))
	runner := app.NewBatchRunner(files.NewBatchStore(cfg.BatchDir), ing)

	log.Info().
		Str("batch_dir", cfg.BatchDir).
		Float64("google_rps", cfg.GoogleRPS).
		Str("dedup_on_error", cfg.DedupOnError).
		Msg("ingestor starting")

	start := time.Now()
	sum, err := runner.Run(ctx)
	ev := log.Info()
	if err != nil {
		ev = log.Error().Err(err)
	}
	ev.Int("files", sum.Files).
		Int("bad_files", sum.BadFiles).
		Int("submissions", sum.Submissions).
		Int("created", sum.Created).
		Int("inactive", sum.Inactive).
		Int("geocode_miss", sum.GeocodeMiss).
		Int("duplicate", sum.Duplicate).
		Int("failed", sum.Failed).
		Dur("took", time.Since(start)).
		Msg("ingestion completed")
	if err != nil {
		closeCache()
		db.Close()
		os.Exit(1)
	}
}
