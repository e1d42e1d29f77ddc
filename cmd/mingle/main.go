// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

// Package main is the entry point for the Mingle command-line application.
//
// Mingle reads a registration sheet export of checked-in guests, builds a
// label codebook, encodes guest features, and computes association and
// similarity artifacts for the event displays.
//
// # Run Phases
//
// A run executes the following phases in order:
//
//  1. Configuration: Load settings from config file and environment (Koanf v2)
//  2. Fetch: Read eligible (checked-in) records from the input CSV
//  3. Codebook: Assign stable integer codes to categorical labels
//  4. Encode: Produce one feature row per eligible guest
//  5. Association: Cramér's V matrix over categorical variable pairs
//  6. Similarity: Guest-to-guest scores (dense matrix or top-N edges)
//  7. Wall (optional): Connection lists grouped by a categorical field
//
// Artifacts are written as CSV tables under the configured output directory,
// and a JSON run summary is printed to stdout.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority
// wins):
//   - Environment variables (MINGLE_* prefix)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the run context; in-flight table writes finish or
// roll back atomically.
//
// # Exit Codes
//
//	0  run completed, all artifacts written
//	1  run failed or completed partially (see stderr and the summary)
//	2  configuration error
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/mingle/internal/config"
	"github.com/tomtom215/mingle/internal/logging"
	"github.com/tomtom215/mingle/internal/pipeline"
	"github.com/tomtom215/mingle/internal/schema"
	"github.com/tomtom215/mingle/internal/tabular"
	"github.com/tomtom215/mingle/internal/wall"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return 2
	}

	logging.Init(cfg.Logging)
	logger := logging.With().Str("component", "main").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		startMetricsServer(ctx, cfg.Metrics.Listen, logger)
	}

	source := tabular.NewCSVSource(cfg.Input.Path, logger)
	sink := tabular.NewCSVSink(cfg.Output.Dir, logger)

	p := pipeline.New(cfg.Pipeline, source, sink, logger)
	p.SetEventLogger(pipeline.NewZerologEvents(logger))

	summary, runErr := p.Run(ctx)
	if runErr != nil {
		logger.Error().Err(runErr).Msg("Run finished with errors")
	}

	if summary != nil && cfg.Wall.Enabled {
		if err := writeWallTables(ctx, cfg, source, sink, logger); err != nil {
			logger.Error().Err(err).Msg("Wall connection tables failed")
			runErr = err
		}
	}

	if summary != nil {
		out, err := json.Marshal(summary)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to encode run summary")
		} else {
			fmt.Println(string(out))
		}
	}

	if runErr != nil {
		return 1
	}
	return 0
}

// startMetricsServer exposes /metrics for the duration of the run. Scrape
// failures never affect the run itself.
func startMetricsServer(ctx context.Context, listen string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("listen", listen).Msg("Metrics endpoint listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn().Err(err).Msg("Metrics endpoint stopped")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}

// writeWallTables re-reads the eligible records and writes one connection
// table per configured grouping field.
func writeWallTables(ctx context.Context, cfg *config.Config, source pipeline.RecordSource, sink pipeline.TableSink, logger zerolog.Logger) error {
	records, err := source.FetchEligibleRecords(ctx)
	if err != nil {
		return fmt.Errorf("fetch records for wall: %w", err)
	}

	for _, field := range cfg.Wall.Fields {
		conns, err := wall.Connections(records, schema.FieldKey(field))
		if err != nil {
			return fmt.Errorf("wall connections for %q: %w", field, err)
		}
		name := "wall_" + field
		if err := sink.WriteTable(ctx, name, wall.Header(), wall.Rows(conns)); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		logger.Info().Str("field", field).Int("connections", len(conns)).Msg("Wall table written")
	}
	return nil
}
