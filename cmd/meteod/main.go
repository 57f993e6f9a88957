package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/wolkenbruch/swissmeteo-etl/internal/adapter/http"
	kafkaadapter "github.com/wolkenbruch/swissmeteo-etl/internal/adapter/kafka"
	"github.com/wolkenbruch/swissmeteo-etl/internal/adapter/meteoswiss"
	"github.com/wolkenbruch/swissmeteo-etl/internal/config"
	"github.com/wolkenbruch/swissmeteo-etl/internal/observability"
	"github.com/wolkenbruch/swissmeteo-etl/internal/poller"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	stations := meteoswiss.NewStationClient(cfg.StationFeedURL, cfg.FetchTimeout, metrics, logger)
	forecasts := meteoswiss.NewForecastClient(cfg.ForecastBaseURL, cfg.ForecastLanguage, cfg.FetchTimeout, metrics, logger)

	// Optional Kafka sink (feature-flagged via KAFKA_BROKERS).
	var sink poller.SnapshotSink
	var writer *kafkaadapter.Writer
	if cfg.SinkEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		sink = writer
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("kafka sink disabled")
	}

	p := poller.New(cfg, stations, forecasts, sink, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the poll loop.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("poller error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
