package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"animatic/api"
	"animatic/config"
	"animatic/media"
	"animatic/processor"
	"animatic/renderer"
	"animatic/storage"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	engine, err := media.NewEngine(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("media engine unavailable")
	}

	proc := processor.NewVideoProcessor(engine, logger, config.OutputDir)
	runner := renderer.NewRunner(logger, cfg)

	// Uploads are optional; without a bucket the export endpoint reports 503.
	var uploader api.ExportUploader
	if cfg.S3Bucket != "" {
		up, err := storage.NewUploader(context.Background(), logger, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot initialize S3 uploader")
		}
		uploader = up
	} else {
		logger.Warn().Msg("S3_BUCKET not set, uploads disabled")
	}

	srv := api.NewServer(logger, proc, runner, engine, uploader, nil)
	r := api.NewRouter(srv)

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Msg("starting API server")
	logger.Info().Msg("endpoints: GET /health, POST /processor/export, POST /animations")

	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
