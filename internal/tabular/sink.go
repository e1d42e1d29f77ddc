// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

package tabular

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// CSVSink writes each artifact table to <dir>/<name>.csv, replacing any
// prior file of the same name. Artifacts are fully recomputed each run, so
// replacement is the contract, not an accident.
type CSVSink struct {
	dir    string
	logger zerolog.Logger
}

// NewCSVSink creates a sink rooted at dir. The directory is created on first
// write.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCSVSink(dir string, logger zerolog.Logger) *CSVSink {
	return &CSVSink{
		dir:    dir,
		logger: logger.With().Str("component", "tabular").Str("dir", dir).Logger(),
	}
}

// WriteTable writes one named table. The write goes through a temp file and
// rename so a crash never leaves a half-written artifact behind.
func (s *CSVSink) WriteTable(ctx context.Context, name string, header []string, rows [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create sink dir: %w", err)
	}

	target := filepath.Join(s.dir, name+".csv")
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp table: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush table: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp table: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("replace table: %w", err)
	}

	s.logger.Debug().Str("table", name).Int("rows", len(rows)).Msg("table written")
	return nil
}
