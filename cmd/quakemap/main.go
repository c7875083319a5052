package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/quake-map/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quake-map/internal/adapter/kafka"
	"github.com/couchcryptid/quake-map/internal/adapter/leaflet"
	"github.com/couchcryptid/quake-map/internal/adapter/usgs"
	"github.com/couchcryptid/quake-map/internal/config"
	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/couchcryptid/quake-map/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher := usgs.NewClient(cfg.FeedURL, cfg.FeedTimeout, metrics, logger)
	renderer := leaflet.NewRenderer()

	var publishers []pipeline.Publisher
	if cfg.OutputDir != "" {
		publishers = append(publishers, leaflet.NewDirPublisher(cfg.OutputDir, renderer, logger))
	}

	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, renderer, logger)
		publishers = append(publishers, srv)

		// Serve health and metrics while the feed loads.
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publishers = append(publishers, writer)
		logger.Info("kafka marker publishing enabled", "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(fetcher, publishers, pipeline.Settings{
		Strict:   cfg.FeedStrict,
		Location: cfg.DisplayLocation,
		Source:   cfg.FeedURL,
	}, logger, metrics)

	_, runErr := p.Run(ctx)
	if runErr != nil {
		logger.Error("map load failed", "url", cfg.FeedURL, "error", runErr)
	}

	// Without a server there is nothing left to do once the map is written.
	if srv != nil && runErr == nil {
		<-ctx.Done()
		logger.Info("shutting down")
	}

	shutdown(cfg, srv, writer, logger)

	if runErr != nil {
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func shutdown(cfg *config.Config, srv *httpadapter.Server, writer *kafkaadapter.Writer, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
}
