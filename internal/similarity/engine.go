// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

// Package similarity scores every unordered pair of eligible guests and
// emits either a dense symmetric matrix or a sparse top-N edge list.
//
// The pair enumeration is genuinely quadratic in guest count, so the sparse
// mode is the one that scales; dense mode exists for small parties where the
// full matrix is the nicer artifact. Scoring itself is pluggable: the engine
// owns iteration and ranking, a Scorer owns the policy.
package similarity

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mingle/internal/encode"
)

// Output modes.
const (
	ModeAuto   = "auto"
	ModeDense  = "dense"
	ModeSparse = "sparse"
)

// Config controls pair enumeration and output shape.
type Config struct {
	// TopN is how many edges to keep per guest in sparse mode.
	TopN int `json:"top_n" koanf:"top_n"`

	// Mode selects the output shape: dense, sparse, or auto (dense up to
	// DenseMaxGuests, sparse beyond).
	Mode string `json:"mode" koanf:"mode" validate:"omitempty,oneof=auto dense sparse"`

	// DenseMaxGuests is the auto-mode cutover point.
	DenseMaxGuests int `json:"dense_max_guests" koanf:"dense_max_guests"`

	// Weights configures the default scorer. Ignored when a custom Scorer is
	// supplied.
	Weights Weights `json:"weights" koanf:"weights"`
}

// DefaultConfig returns the default similarity configuration.
func DefaultConfig() Config {
	return Config{
		TopN:           5,
		Mode:           ModeAuto,
		DenseMaxGuests: 25,
		Weights:        DefaultWeights(),
	}
}

// Edge is one undirected guest pair with its score and reason tags.
// UIDA < UIDB lexicographically, so a pair appears at most once.
type Edge struct {
	UIDA    string   `json:"uid_a"`
	UIDB    string   `json:"uid_b"`
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
}

// Matrix is the dense symmetric similarity matrix. The diagonal is fixed at
// 1.0 by convention.
type Matrix struct {
	uids   []string
	scores [][]float64
}

// UIDs returns the guest ordering, identical for rows and columns.
func (m *Matrix) UIDs() []string {
	out := make([]string, len(m.uids))
	copy(out, m.uids)
	return out
}

// At returns the score at matrix position (i, j).
func (m *Matrix) At(i, j int) float64 { return m.scores[i][j] }

// Engine enumerates guest pairs and ranks the results.
type Engine struct {
	cfg    Config
	scorer Scorer
	logger zerolog.Logger
}

// NewEngine creates a similarity engine. A nil scorer gets the default
// weighted policy with cfg.Weights.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg Config, scorer Scorer, logger zerolog.Logger) *Engine {
	def := DefaultConfig()
	if cfg.TopN <= 0 {
		cfg.TopN = def.TopN
	}
	if cfg.Mode == "" {
		cfg.Mode = def.Mode
	}
	if cfg.DenseMaxGuests <= 0 {
		cfg.DenseMaxGuests = def.DenseMaxGuests
	}
	if scorer == nil {
		scorer = NewWeightedScorer(cfg.Weights)
	}

	return &Engine{
		cfg:    cfg,
		scorer: scorer,
		logger: logger.With().Str("component", "similarity").Str("scorer", scorer.Name()).Logger(),
	}
}

// UseDense reports whether the configured mode resolves to the dense matrix
// for the given guest count.
func (e *Engine) UseDense(guests int) bool {
	switch e.cfg.Mode {
	case ModeDense:
		return true
	case ModeSparse:
		return false
	default:
		return guests <= e.cfg.DenseMaxGuests
	}
}

// Dense computes the full symmetric matrix. Guest order follows row order
// after duplicate-UID filtering.
func (e *Engine) Dense(rows []encode.FeatureRow) *Matrix {
	guests := dedupeGuests(rows, e.logger)
	n := len(guests)

	m := &Matrix{
		uids:   make([]string, n),
		scores: make([][]float64, n),
	}
	for i := range guests {
		m.uids[i] = guests[i].UID
		m.scores[i] = make([]float64, n)
		m.scores[i][i] = 1.0
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			score, _ := e.scorer.Score(guests[i], guests[j])
			m.scores[i][j] = score
			m.scores[j][i] = score
		}
	}

	e.logger.Info().Int("guests", n).Msg("dense similarity matrix computed")
	return m
}

// scoredNeighbor is one candidate counterpart during per-guest ranking.
type scoredNeighbor struct {
	uid     string
	score   float64
	reasons []string
}

// TopEdges computes the sparse top-N edge list. For each guest in input
// order, counterparts are ranked by descending score with ties broken by the
// lexicographically smaller counterpart UID; edges selected by more than one
// guest are emitted once, at their first selection. Zero-score pairs carry
// no signal and are not emitted.
func (e *Engine) TopEdges(rows []encode.FeatureRow) []Edge {
	guests := dedupeGuests(rows, e.logger)
	n := len(guests)

	// Score every unordered pair once; the per-guest rankings reuse these.
	type pairResult struct {
		score   float64
		reasons []string
	}
	pairs := make([][]pairResult, n)
	for i := range pairs {
		pairs[i] = make([]pairResult, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			score, reasons := e.scorer.Score(guests[i], guests[j])
			pairs[i][j] = pairResult{score, reasons}
			pairs[j][i] = pairResult{score, reasons}
		}
	}

	seen := make(map[[2]string]struct{}, n*e.cfg.TopN)
	edges := make([]Edge, 0, n*e.cfg.TopN)

	for i := 0; i < n; i++ {
		neighbors := make([]scoredNeighbor, 0, n-1)
		for j := 0; j < n; j++ {
			if j == i || pairs[i][j].score == 0 {
				continue
			}
			neighbors = append(neighbors, scoredNeighbor{
				uid:     guests[j].UID,
				score:   pairs[i][j].score,
				reasons: pairs[i][j].reasons,
			})
		}

		sort.SliceStable(neighbors, func(a, b int) bool {
			if neighbors[a].score != neighbors[b].score {
				return neighbors[a].score > neighbors[b].score
			}
			return neighbors[a].uid < neighbors[b].uid
		})

		if len(neighbors) > e.cfg.TopN {
			neighbors = neighbors[:e.cfg.TopN]
		}

		for _, nb := range neighbors {
			uidA, uidB := orderPair(guests[i].UID, nb.uid)
			key := [2]string{uidA, uidB}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, Edge{
				UIDA:    uidA,
				UIDB:    uidB,
				Score:   nb.score,
				Reasons: nb.reasons,
			})
		}
	}

	e.logger.Info().
		Int("guests", n).
		Int("edges", len(edges)).
		Int("top_n", e.cfg.TopN).
		Msg("sparse similarity edges computed")

	return edges
}

// orderPair returns the UIDs with the lexicographically smaller one first.
func orderPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// dedupeGuests drops rows with empty or repeated UIDs. A repeated UID would
// otherwise produce self-pairs after normalization.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func dedupeGuests(rows []encode.FeatureRow, logger zerolog.Logger) []*encode.FeatureRow {
	seen := make(map[string]struct{}, len(rows))
	out := make([]*encode.FeatureRow, 0, len(rows))

	for i := range rows {
		uid := rows[i].UID
		if uid == "" {
			logger.Warn().Int("row", i).Msg("feature row without uid skipped")
			continue
		}
		if _, dup := seen[uid]; dup {
			logger.Warn().Str("uid", uid).Msg("duplicate uid skipped")
			continue
		}
		seen[uid] = struct{}{}
		out = append(out, &rows[i])
	}

	return out
}
