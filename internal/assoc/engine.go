// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

package assoc

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mingle/internal/encode"
	"github.com/tomtom215/mingle/internal/schema"
)

// ErrUnknownVariable reports a scope entry that is not a categorical column
// of the feature table. This is a configuration error surfaced to the caller,
// not silently swallowed, since it indicates a schema/config mismatch.
var ErrUnknownVariable = errors.New("unknown variable in association scope")

// Skip reasons recorded in diagnostics.
const (
	ReasonEmptyTable  = "empty_table"
	ReasonLowSample   = "low_sample"
	ReasonNoVariation = "no_variation"
)

// Config controls the association computation.
type Config struct {
	// Scope lists the categorical columns to cross. Every unordered pair
	// drawn from this list gets a matrix cell. Empty means all categorical
	// columns.
	Scope []schema.FieldKey `json:"scope" koanf:"scope"`

	// MinSampleSize is the smallest valid-pair count for which V is
	// computed. Pairs below it report the missing sentinel.
	MinSampleSize int `json:"min_sample_size" koanf:"min_sample_size"`
}

// DefaultConfig returns the default association configuration.
func DefaultConfig() Config {
	return Config{
		Scope:         schema.CategoricalFields(),
		MinSampleSize: 10,
	}
}

// Diagnostic records one skipped pair: which, how many valid rows it had, and
// why it was skipped.
type Diagnostic struct {
	VarA       schema.FieldKey `json:"var_a"`
	VarB       schema.FieldKey `json:"var_b"`
	SampleSize int             `json:"sample_size"`
	Reason     string          `json:"reason"`
}

// Matrix is the symmetric association-strength matrix. The diagonal is fixed
// at 1.0 (self-association); off-diagonal cells are either a V in [0, 1] or
// the missing sentinel.
type Matrix struct {
	vars    []schema.FieldKey
	index   map[schema.FieldKey]int
	values  [][]float64
	missing [][]bool
	samples [][]int
}

func newMatrix(scope []schema.FieldKey) *Matrix {
	n := len(scope)
	m := &Matrix{
		vars:    scope,
		index:   make(map[schema.FieldKey]int, n),
		values:  make([][]float64, n),
		missing: make([][]bool, n),
		samples: make([][]int, n),
	}
	for i, v := range scope {
		m.index[v] = i
		m.values[i] = make([]float64, n)
		m.missing[i] = make([]bool, n)
		m.samples[i] = make([]int, n)
		m.values[i][i] = 1.0
	}
	return m
}

// Vars returns the matrix variable ordering, identical for rows and columns.
func (m *Matrix) Vars() []schema.FieldKey {
	out := make([]schema.FieldKey, len(m.vars))
	copy(out, m.vars)
	return out
}

// Value returns the cell for a variable pair. ok is false when the cell is
// the missing sentinel or either variable is outside the matrix.
func (m *Matrix) Value(a, b schema.FieldKey) (v float64, ok bool) {
	i, iok := m.index[a]
	j, jok := m.index[b]
	if !iok || !jok || m.missing[i][j] {
		return 0, false
	}
	return m.values[i][j], true
}

// SampleSize returns the valid-pair count behind a cell. Diagonal cells
// report zero; their value is fixed by convention, not computed.
func (m *Matrix) SampleSize(a, b schema.FieldKey) int {
	i, iok := m.index[a]
	j, jok := m.index[b]
	if !iok || !jok {
		return 0
	}
	return m.samples[i][j]
}

func (m *Matrix) set(i, j int, v float64, n int) {
	m.values[i][j] = v
	m.values[j][i] = v
	m.samples[i][j] = n
	m.samples[j][i] = n
}

func (m *Matrix) setMissing(i, j, n int) {
	m.missing[i][j] = true
	m.missing[j][i] = true
	m.samples[i][j] = n
	m.samples[j][i] = n
}

// Engine computes the association matrix over feature rows.
type Engine struct {
	cfg    Config
	logger zerolog.Logger
}

// NewEngine creates an association engine. Zero config fields fall back to
// defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg Config, logger zerolog.Logger) *Engine {
	if len(cfg.Scope) == 0 {
		cfg.Scope = schema.CategoricalFields()
	}
	if cfg.MinSampleSize <= 0 {
		cfg.MinSampleSize = DefaultConfig().MinSampleSize
	}

	return &Engine{
		cfg:    cfg,
		logger: logger.With().Str("component", "assoc").Logger(),
	}
}

// Compute builds the full matrix. The only error is a bad scope; skipped
// pairs degrade to the missing sentinel and a diagnostic, never an abort.
func (e *Engine) Compute(rows []encode.FeatureRow) (*Matrix, []Diagnostic, error) {
	scope, err := validateScope(e.cfg.Scope)
	if err != nil {
		return nil, nil, err
	}

	m := newMatrix(scope)
	diagnostics := make([]Diagnostic, 0)

	for i := 0; i < len(scope); i++ {
		for j := i + 1; j < len(scope); j++ {
			v, n, reason := e.pairValue(rows, scope[i], scope[j])
			if reason != "" {
				m.setMissing(i, j, n)
				diagnostics = append(diagnostics, Diagnostic{
					VarA:       scope[i],
					VarB:       scope[j],
					SampleSize: n,
					Reason:     reason,
				})
				continue
			}
			m.set(i, j, v, n)
		}
	}

	e.logger.Info().
		Int("variables", len(scope)).
		Int("pairs", len(scope)*(len(scope)-1)/2).
		Int("skipped", len(diagnostics)).
		Msg("association matrix computed")

	return m, diagnostics, nil
}

// pairValue computes Cramér's V for one unordered pair, or a skip reason.
func (e *Engine) pairValue(rows []encode.FeatureRow, x, y schema.FieldKey) (v float64, n int, reason string) {
	t := buildContingency(rows, x, y)

	switch {
	case t.n == 0:
		return 0, 0, ReasonEmptyTable
	case t.n < e.cfg.MinSampleSize:
		return 0, t.n, ReasonLowSample
	case t.rows() < 2 || t.cols() < 2:
		return 0, t.n, ReasonNoVariation
	}

	return t.cramersV(), t.n, ""
}

// validateScope checks every scope entry is a categorical column and drops
// duplicates while preserving order.
func validateScope(scope []schema.FieldKey) ([]schema.FieldKey, error) {
	seen := make(map[schema.FieldKey]struct{}, len(scope))
	out := make([]schema.FieldKey, 0, len(scope))

	for _, f := range scope {
		if _, ok := schema.VariableFor(f); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownVariable, f)
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}

	return out, nil
}
