// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

package codebook

import (
	"fmt"
	"regexp"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mingle/internal/schema"
)

// Policy controls which labels are considered valid. Invalid labels are still
// coded so they remain representable downstream.
type Policy struct {
	// MaxLabelLength is the longest (in runes) a label may be and still be
	// valid. Zero means no limit.
	MaxLabelLength int `json:"max_label_length" koanf:"max_label_length"`

	// AllowedPattern is a regular expression the whole label must match to be
	// valid. Empty means any printable text is allowed.
	AllowedPattern string `json:"allowed_pattern" koanf:"allowed_pattern"`
}

// DefaultPolicy returns the policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{
		MaxLabelLength: 80,
		AllowedPattern: "",
	}
}

// Builder constructs a Codebook from eligible records.
type Builder struct {
	policy  Policy
	allowed *regexp.Regexp
	logger  zerolog.Logger
}

// NewBuilder creates a Builder with the given policy. An invalid
// AllowedPattern is a configuration error.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBuilder(policy Policy, logger zerolog.Logger) (*Builder, error) {
	var allowed *regexp.Regexp
	if policy.AllowedPattern != "" {
		re, err := regexp.Compile(policy.AllowedPattern)
		if err != nil {
			return nil, fmt.Errorf("compile allowed pattern: %w", err)
		}
		allowed = re
	}

	return &Builder{
		policy:  policy,
		allowed: allowed,
		logger:  logger.With().Str("component", "codebook").Logger(),
	}, nil
}

// Build scans records in the given order and assigns codes to distinct
// normalized labels in first-seen order. Fields the provider did not supply
// contribute nothing; empty values fold into the N/A entry.
func (b *Builder) Build(records []schema.Record) *Codebook {
	cb := &Codebook{
		spaces: make(map[schema.VariableKey]*space, len(schema.Variables())),
	}
	for _, v := range schema.Variables() {
		cb.spaces[v] = &space{codes: make(map[string]int)}
	}

	for i := range records {
		for _, f := range schema.CategoricalFields() {
			raw, present := records[i].Field(f)
			if !present {
				continue
			}

			v, _ := schema.VariableFor(f)
			b.observe(cb, v, raw)
		}
	}

	b.logCounts(cb)
	return cb
}

// observe folds one raw label into the variable's code space, assigning a new
// code if the normalized label has not been seen.
func (b *Builder) observe(cb *Codebook, v schema.VariableKey, raw string) {
	label := Normalize(raw)
	sp := cb.spaces[v]

	if _, seen := sp.codes[Fold(label)]; seen {
		return
	}

	code := len(sp.labels) + 1
	valid := b.labelValid(label)

	sp.codes[Fold(label)] = code
	sp.labels = append(sp.labels, label)
	sp.valid = append(sp.valid, valid)

	cb.entries = append(cb.entries, Entry{
		Variable: v,
		Label:    label,
		Code:     code,
		Valid:    valid,
	})
}

// labelValid applies the validity policy to a normalized label. The N/A entry
// is always valid since it is the explicit not-applicable answer.
func (b *Builder) labelValid(label string) bool {
	if label == NotApplicable {
		return true
	}
	if label == "" {
		return false
	}
	if b.policy.MaxLabelLength > 0 && len([]rune(label)) > b.policy.MaxLabelLength {
		return false
	}

	if b.allowed != nil {
		return b.allowed.MatchString(label)
	}

	for _, r := range label {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

// logCounts reports per-variable entry counts for external audit.
func (b *Builder) logCounts(cb *Codebook) {
	for _, v := range schema.Variables() {
		b.logger.Debug().
			Str("variable", string(v)).
			Int("entries", cb.Size(v)).
			Int("valid", cb.ValidSize(v)).
			Msg("codebook variable built")
	}

	b.logger.Info().
		Int("entries", len(cb.entries)).
		Int("variables", len(cb.spaces)).
		Msg("codebook built")
}
