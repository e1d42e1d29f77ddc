// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

// Package pipeline orchestrates the four-stage analytics run: codebook,
// feature encoding, association matrix, similarity graph. Each stage is a
// pure function of the previous stage's output plus the codebook; the whole
// run is sequential, single-threaded, and fully recomputes every artifact.
//
// Collaborators are interfaces at this boundary: a RecordSource yields the
// checked-in-only records, a TableSink accepts the produced artifacts, and
// an EventLogger receives audit events. Event logging is best-effort by
// contract; a failing EventLogger never aborts the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/mingle/internal/assoc"
	"github.com/tomtom215/mingle/internal/codebook"
	"github.com/tomtom215/mingle/internal/encode"
	"github.com/tomtom215/mingle/internal/metrics"
	"github.com/tomtom215/mingle/internal/schema"
	"github.com/tomtom215/mingle/internal/similarity"
)

// Artifact table names passed to the sink.
const (
	TableCodebook               = "codebook"
	TableFeatures               = "features"
	TableAssociation            = "association"
	TableAssociationDiagnostics = "association_diagnostics"
	TableSimilarityEdges        = "similarity_edges"
	TableSimilarityMatrix       = "similarity_matrix"
)

// Pipeline phases, as reported in logs and metrics.
const (
	PhaseFetch      = "fetch"
	PhaseCodebook   = "codebook"
	PhaseEncode     = "encode"
	PhaseAssoc      = "association"
	PhaseSimilarity = "similarity"
)

// RecordSource yields the eligible record set. The provider pre-filters to
// checked-in-only records; the pipeline asserts the gate with a cheap sanity
// check but does not re-validate it.
type RecordSource interface {
	FetchEligibleRecords(ctx context.Context) ([]schema.Record, error)
}

// TableSink accepts one named table per produced artifact.
type TableSink interface {
	WriteTable(ctx context.Context, name string, header []string, rows [][]string) error
}

// EventLogger receives summary events for external audit. Implementations
// may fail; the pipeline swallows those failures.
type EventLogger interface {
	LogEvent(message string, fields map[string]interface{})
}

// Config bundles the per-stage configuration.
type Config struct {
	Codebook    codebook.Policy   `json:"codebook" koanf:"codebook"`
	Association assoc.Config      `json:"association" koanf:"association"`
	Similarity  similarity.Config `json:"similarity" koanf:"similarity"`
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Codebook:    codebook.DefaultPolicy(),
		Association: assoc.DefaultConfig(),
		Similarity:  similarity.DefaultConfig(),
	}
}

// Summary reports what one run produced.
type Summary struct {
	RunID              string       `json:"run_id"`
	Records            int          `json:"records"`
	NotCheckedIn       int          `json:"not_checked_in"`
	CodebookEntries    int          `json:"codebook_entries"`
	Encode             encode.Stats `json:"encode"`
	AssociationPairs   int          `json:"association_pairs"`
	AssociationSkipped int          `json:"association_skipped"`
	SimilarityEdges    int          `json:"similarity_edges"`
	DenseSimilarity    bool         `json:"dense_similarity"`
	DurationMS         int64        `json:"duration_ms"`
}

// Pipeline runs the four stages against a source and sink.
type Pipeline struct {
	cfg    Config
	source RecordSource
	sink   TableSink
	events EventLogger
	scorer similarity.Scorer
	logger zerolog.Logger
}

// New creates a Pipeline. Events and scorer are optional; see SetEventLogger
// and SetScorer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg Config, source RecordSource, sink TableSink, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		source: source,
		sink:   sink,
		logger: logger.With().Str("component", "pipeline").Logger(),
	}
}

// SetEventLogger sets the audit event collaborator.
func (p *Pipeline) SetEventLogger(ev EventLogger) { p.events = ev }

// SetScorer replaces the default similarity scoring policy.
func (p *Pipeline) SetScorer(s similarity.Scorer) { p.scorer = s }

// Run executes one full pipeline pass. Per-record, per-pair and per-guest
// errors recover locally; only source/sink failures and configuration errors
// surface, and a configuration error in one stage does not stop the stages
// that can still run.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := p.logger.With().Str("run_id", runID).Logger()
	summary := &Summary{RunID: runID}

	var errs []error

	records, err := p.fetchRecords(ctx, logger, summary)
	if err != nil {
		metrics.PipelineRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	book, err := p.buildCodebook(ctx, logger, records, summary)
	if err != nil {
		metrics.PipelineRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	rows, err := p.encodeFeatures(ctx, logger, book, records, summary)
	if err != nil {
		metrics.PipelineRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	// A bad association scope is surfaced but must not stop the similarity
	// stage, which is already scheduled.
	if err := p.computeAssociation(ctx, logger, rows, summary); err != nil {
		errs = append(errs, err)
	}

	if err := p.computeSimilarity(ctx, logger, rows, summary); err != nil {
		errs = append(errs, err)
	}

	summary.DurationMS = time.Since(start).Milliseconds()

	outcome := "ok"
	if len(errs) > 0 {
		outcome = "partial"
	}
	metrics.PipelineRuns.WithLabelValues(outcome).Inc()

	p.logEvent("pipeline run complete", map[string]interface{}{
		"run_id":      runID,
		"records":     summary.Records,
		"duration_ms": summary.DurationMS,
		"outcome":     outcome,
	})
	logger.Info().
		Int("records", summary.Records).
		Int64("duration_ms", summary.DurationMS).
		Str("outcome", outcome).
		Msg("pipeline run complete")

	return summary, errors.Join(errs...)
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (p *Pipeline) fetchRecords(ctx context.Context, logger zerolog.Logger, summary *Summary) ([]schema.Record, error) {
	phaseStart := time.Now()

	records, err := p.source.FetchEligibleRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch eligible records: %w", err)
	}

	// Sanity check only: the provider owns the checked-in gate.
	for i := range records {
		if !records[i].CheckedIn {
			summary.NotCheckedIn++
		}
	}
	if summary.NotCheckedIn > 0 {
		logger.Warn().
			Int("count", summary.NotCheckedIn).
			Msg("provider yielded records not flagged checked-in")
	}

	summary.Records = len(records)
	metrics.EligibleRecords.Set(float64(len(records)))
	p.finishPhase(logger, PhaseFetch, phaseStart, map[string]interface{}{"records": len(records)})

	return records, nil
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (p *Pipeline) buildCodebook(ctx context.Context, logger zerolog.Logger, records []schema.Record, summary *Summary) (*codebook.Codebook, error) {
	phaseStart := time.Now()

	builder, err := codebook.NewBuilder(p.cfg.Codebook, logger)
	if err != nil {
		return nil, fmt.Errorf("codebook policy: %w", err)
	}

	book := builder.Build(records)
	entries := book.Entries()
	summary.CodebookEntries = len(entries)

	for _, v := range schema.Variables() {
		metrics.CodebookEntries.WithLabelValues(string(v)).Set(float64(book.Size(v)))
	}

	if err := p.sink.WriteTable(ctx, TableCodebook, codebookHeader(), renderCodebook(entries)); err != nil {
		return nil, fmt.Errorf("write %s: %w", TableCodebook, err)
	}

	p.finishPhase(logger, PhaseCodebook, phaseStart, map[string]interface{}{"entries": len(entries)})
	return book, nil
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (p *Pipeline) encodeFeatures(ctx context.Context, logger zerolog.Logger, book *codebook.Codebook, records []schema.Record, summary *Summary) ([]encode.FeatureRow, error) {
	phaseStart := time.Now()

	rows, stats := encode.NewEncoder(book, logger).Encode(records)
	summary.Encode = stats

	if err := p.sink.WriteTable(ctx, TableFeatures, featureHeader(), renderFeatures(rows)); err != nil {
		return nil, fmt.Errorf("write %s: %w", TableFeatures, err)
	}

	p.finishPhase(logger, PhaseEncode, phaseStart, map[string]interface{}{
		"rows":          stats.Rows,
		"valid_cells":   stats.ValidCells,
		"na_cells":      stats.NACells,
		"missing_cells": stats.MissingCells,
	})
	return rows, nil
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (p *Pipeline) computeAssociation(ctx context.Context, logger zerolog.Logger, rows []encode.FeatureRow, summary *Summary) error {
	phaseStart := time.Now()

	m, diagnostics, err := assoc.NewEngine(p.cfg.Association, logger).Compute(rows)
	if err != nil {
		return fmt.Errorf("association: %w", err)
	}

	for _, d := range diagnostics {
		metrics.AssociationPairsSkipped.WithLabelValues(d.Reason).Inc()
	}

	vars := m.Vars()
	summary.AssociationPairs = len(vars) * (len(vars) - 1) / 2
	summary.AssociationSkipped = len(diagnostics)

	if err := p.sink.WriteTable(ctx, TableAssociation, associationHeader(vars), renderAssociation(m)); err != nil {
		return fmt.Errorf("write %s: %w", TableAssociation, err)
	}
	if err := p.sink.WriteTable(ctx, TableAssociationDiagnostics, diagnosticsHeader(), renderDiagnostics(diagnostics)); err != nil {
		return fmt.Errorf("write %s: %w", TableAssociationDiagnostics, err)
	}

	p.finishPhase(logger, PhaseAssoc, phaseStart, map[string]interface{}{
		"pairs":   summary.AssociationPairs,
		"skipped": summary.AssociationSkipped,
	})
	return nil
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (p *Pipeline) computeSimilarity(ctx context.Context, logger zerolog.Logger, rows []encode.FeatureRow, summary *Summary) error {
	phaseStart := time.Now()

	engine := similarity.NewEngine(p.cfg.Similarity, p.scorer, logger)

	if engine.UseDense(len(rows)) {
		summary.DenseSimilarity = true
		m := engine.Dense(rows)
		if err := p.sink.WriteTable(ctx, TableSimilarityMatrix, similarityMatrixHeader(m), renderSimilarityMatrix(m)); err != nil {
			return fmt.Errorf("write %s: %w", TableSimilarityMatrix, err)
		}
		n := len(m.UIDs())
		summary.SimilarityEdges = n * (n - 1) / 2
	} else {
		edges := engine.TopEdges(rows)
		summary.SimilarityEdges = len(edges)
		if err := p.sink.WriteTable(ctx, TableSimilarityEdges, edgesHeader(), renderEdges(edges)); err != nil {
			return fmt.Errorf("write %s: %w", TableSimilarityEdges, err)
		}
	}

	metrics.SimilarityEdges.Set(float64(summary.SimilarityEdges))
	p.finishPhase(logger, PhaseSimilarity, phaseStart, map[string]interface{}{
		"edges": summary.SimilarityEdges,
		"dense": summary.DenseSimilarity,
	})
	return nil
}

// finishPhase records phase timing in metrics, logs, and audit events.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (p *Pipeline) finishPhase(logger zerolog.Logger, phase string, start time.Time, fields map[string]interface{}) {
	d := time.Since(start)
	metrics.ObservePhase(phase, d)

	fields["phase"] = phase
	fields["duration_ms"] = d.Milliseconds()
	p.logEvent("phase complete", fields)

	logger.Debug().Str("phase", phase).Int64("duration_ms", d.Milliseconds()).Msg("phase complete")
}

// logEvent forwards to the audit collaborator. Failures there, including
// panics, never abort the pipeline.
func (p *Pipeline) logEvent(message string, fields map[string]interface{}) {
	if p.events == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn().Interface("panic", r).Msg("event logger failed")
		}
	}()

	p.events.LogEvent(message, fields)
}
