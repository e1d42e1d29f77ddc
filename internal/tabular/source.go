// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

// Package tabular provides file-backed implementations of the pipeline's
// collaborator interfaces: a CSV record source reading the registration
// sheet export, and a CSV sink writing one file per artifact table. The
// engine itself only ever sees the interfaces.
package tabular

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mingle/internal/schema"
)

// CSVSource reads eligible records from a registration sheet export. Column
// names must match the canonical schema field keys (case-insensitive). Rows
// not flagged checked-in are filtered here: this source owns the eligibility
// gate the engine trusts.
type CSVSource struct {
	path   string
	logger zerolog.Logger
}

// NewCSVSource creates a source for the given CSV file.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCSVSource(path string, logger zerolog.Logger) *CSVSource {
	return &CSVSource{
		path:   path,
		logger: logger.With().Str("component", "tabular").Str("path", path).Logger(),
	}
}

// FetchEligibleRecords reads the sheet and returns checked-in records in
// file order. Rows without a UID are skipped with a warning; they cannot key
// a feature row. Rows the CSV parser rejects are likewise skipped with a
// warning; only I/O failures abort the fetch.
func (s *CSVSource) FetchEligibleRecords(ctx context.Context) ([]schema.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open record source: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged sheets happen; absent cells become missing fields

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var (
		records      []schema.Record
		unknownSeen  = make(map[string]struct{})
		skippedNoUID int
		filtered     int
		malformed    int
	)

	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			// One bad row must not cost the rows after it.
			malformed++
			s.logger.Warn().Int("line", parseErr.Line).Err(err).Msg("malformed row skipped")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		raw := make(map[string]string, len(header))
		for i, name := range header {
			if i >= len(row) {
				break
			}
			raw[strings.TrimSpace(name)] = row[i]
		}

		rec, unknown := schema.ParseRecord(raw)
		for _, name := range unknown {
			if _, seen := unknownSeen[name]; seen {
				continue
			}
			unknownSeen[name] = struct{}{}
			s.logger.Warn().Str("column", name).Msg("unknown column ignored")
		}

		if rec.UID == "" {
			skippedNoUID++
			s.logger.Warn().Int("line", line).Msg("row without uid skipped")
			continue
		}
		if !rec.CheckedIn {
			filtered++
			continue
		}

		records = append(records, rec)
	}

	s.logger.Info().
		Int("eligible", len(records)).
		Int("filtered", filtered).
		Int("no_uid", skippedNoUID).
		Int("malformed", malformed).
		Msg("records loaded")

	return records, nil
}
