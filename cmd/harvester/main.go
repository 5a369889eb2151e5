// Command harvester runs the harvest requests described by one or more YAML
// configuration files and prints the flattened records to stdout as JSON
// lines. Logs go to stderr.
//
// Usage:
//
//	go run ./cmd/harvester request.yaml [more.yaml ...]
//
// HTTP_ADDR enables the health and metrics endpoint for the duration of the
// run; KAFKA_BROKERS with KAFKA_TOPIC additionally publishes every record
// to Kafka.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/noaa-psd/score-hv/internal/adapter/http"
	kafkaadapter "github.com/noaa-psd/score-hv/internal/adapter/kafka"
	"github.com/noaa-psd/score-hv/internal/config"
	"github.com/noaa-psd/score-hv/internal/fileutil"
	"github.com/noaa-psd/score-hv/internal/harvester"
	"github.com/noaa-psd/score-hv/internal/observability"
)

func main() {
	if err := run(); err != nil {
		slog.Error("harvester failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	paths := os.Args[1:]
	if len(paths) == 0 {
		return fmt.Errorf("usage: harvester <config.yaml> [more.yaml ...]")
	}
	for _, path := range paths {
		if err := fileutil.CheckReadableFile(path); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	runner := harvester.NewRunner(logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, runner, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	var writer *kafkaadapter.Writer
	if cfg.SinkEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger, metrics)
		logger.Info("kafka sink enabled", "topic", cfg.KafkaTopic)
	}

	err = harvestAll(ctx, runner, writer, paths)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if serr := srv.Shutdown(shutdownCtx); serr != nil {
			logger.Error("http server shutdown error", "error", serr)
		}
	}
	if writer != nil {
		if cerr := writer.Close(); cerr != nil {
			logger.Error("kafka writer close error", "error", cerr)
		}
	}
	return err
}

func harvestAll(ctx context.Context, runner *harvester.Runner, writer *kafkaadapter.Writer, paths []string) error {
	enc := json.NewEncoder(os.Stdout)
	for _, path := range paths {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		ds, err := runner.RunFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for _, rec := range ds.Records {
			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("encode record: %w", err)
			}
		}
		if writer != nil {
			if err := writer.PublishRecords(ctx, ds.Records); err != nil {
				return fmt.Errorf("%s: publish records: %w", path, err)
			}
		}
	}
	return nil
}
