// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

// Package metrics provides Prometheus instrumentation for pipeline runs:
// phase durations, record and artifact counts, and skipped association
// pairs. The collectors are registered on the default registry; exposure is
// the CLI's concern.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PhaseDuration observes per-phase wall time for a pipeline run.
	PhaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mingle_phase_duration_seconds",
			Help:    "Duration of pipeline phases in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"phase"},
	)

	// EligibleRecords tracks the eligible record count of the last run.
	EligibleRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mingle_eligible_records",
			Help: "Number of eligible (checked-in) records in the last pipeline run",
		},
	)

	// CodebookEntries tracks codebook size per variable for the last run.
	CodebookEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mingle_codebook_entries",
			Help: "Number of codebook entries per categorical variable",
		},
		[]string{"variable"},
	)

	// AssociationPairsSkipped counts association pairs degraded to the
	// missing sentinel, by reason.
	AssociationPairsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mingle_association_pairs_skipped_total",
			Help: "Association pairs skipped (missing sentinel emitted), by reason",
		},
		[]string{"reason"},
	)

	// SimilarityEdges tracks the emitted edge count of the last run.
	SimilarityEdges = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mingle_similarity_edges",
			Help: "Number of similarity edges emitted in the last pipeline run",
		},
	)

	// PipelineRuns counts completed pipeline runs by outcome.
	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mingle_pipeline_runs_total",
			Help: "Completed pipeline runs by outcome",
		},
		[]string{"outcome"},
	)
)

// ObservePhase records one phase duration.
func ObservePhase(phase string, d time.Duration) {
	PhaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}
