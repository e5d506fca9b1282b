package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/sabia-monitor/fire-risk-etl/internal/adapter/http"
	kafkaadapter "github.com/sabia-monitor/fire-risk-etl/internal/adapter/kafka"
	"github.com/sabia-monitor/fire-risk-etl/internal/config"
	"github.com/sabia-monitor/fire-risk-etl/internal/ingest"
	"github.com/sabia-monitor/fire-risk-etl/internal/observability"
	"github.com/sabia-monitor/fire-risk-etl/internal/pipeline"
	"github.com/sabia-monitor/fire-risk-etl/internal/scoring"
	"github.com/sabia-monitor/fire-risk-etl/internal/terrain"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Score publishing is feature-flagged via KAFKA_ENABLED. The scored
	// table is always returned to the uploader either way.
	var publisher pipeline.Publisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		metrics.PublisherEnabled.Set(1)
		logger.Info("kafka score publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaScoresTopic)
	} else {
		logger.Info("kafka score publishing disabled")
	}

	engine := scoring.NewEngine(terrain.Registry(), terrain.DefaultWeights(), logger)

	p := pipeline.New(
		pipeline.IngestorFunc(ingest.ReadWorkbook),
		engine,
		publisher,
		logger,
		metrics,
	)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, cfg.MaxUploadBytes, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
