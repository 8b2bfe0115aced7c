// Command weather-analyzer cleans the raw weather observations, writes the
// cleaned CSV and renders the daily, monthly and scatter charts. It takes no
// arguments; paths and behaviour come from the environment (see internal/config).
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/weather-analysis/internal/adapter/csvfile"
	kafkaadapter "github.com/couchcryptid/weather-analysis/internal/adapter/kafka"
	"github.com/couchcryptid/weather-analysis/internal/adapter/plot"
	"github.com/couchcryptid/weather-analysis/internal/config"
	"github.com/couchcryptid/weather-analysis/internal/observability"
	"github.com/couchcryptid/weather-analysis/internal/pipeline"
)

const exportTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	exporter := observability.NewExporter(cfg.PushgatewayURL, cfg.MetricsTextfile, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Summary publishing is feature-flagged via KAFKA_BROKERS.
	var publisher pipeline.SummaryPublisher
	if cfg.PublishEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = writer
		logger.Info("summary publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSummaryTopic)
	}

	p := pipeline.New(
		csvfile.NewReader(cfg.InputPath, logger),
		csvfile.NewWriter(cfg.CleanedPath, logger),
		plot.NewRenderer(cfg.PlotsDir, cfg.PlotWidth, cfg.PlotHeight, cfg.Columns, logger),
		publisher,
		pipeline.Options{Columns: cfg.Columns, MissingPolicy: cfg.MissingColumnPolicy},
		logger,
		metrics,
	)

	runErr := p.Run(ctx)
	if runErr != nil {
		logger.Error("pipeline failed", "error", runErr)
	}

	// Failed and interrupted runs still export their metrics.
	if exporter.Enabled() {
		exportCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), exportTimeout)
		defer cancel()
		if err := exporter.Export(exportCtx, metrics.Registry); err != nil {
			logger.Error("metrics export failed", "error", err)
		}
	}

	if runErr != nil {
		return 1
	}
	logger.Info("analysis complete",
		"cleaned", cfg.CleanedPath,
		"plots", cfg.PlotsDir,
	)
	return 0
}
