// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

package codebook

import (
	"github.com/tomtom215/mingle/internal/schema"
)

// Entry is one categorical label with its assigned code.
type Entry struct {
	// Variable is the codebook variable this entry belongs to.
	Variable schema.VariableKey `json:"variable"`

	// Label is the display label: the first-seen casing of the normalized
	// label.
	Label string `json:"label"`

	// Code is the positive integer assigned to this label. Codes are unique
	// and stable within one build; they are never reused across builds.
	Code int `json:"code"`

	// Valid reports whether the label passed the validity policy. Invalid
	// labels keep their code but are excluded from numeric analysis.
	Valid bool `json:"valid"`
}

// Codebook maps categorical labels to codes for one pipeline run. It is
// immutable once built and safe for concurrent reads.
type Codebook struct {
	entries []Entry
	spaces  map[schema.VariableKey]*space
}

// space holds the code assignments for one variable.
type space struct {
	codes  map[string]int // Fold(label) -> code
	labels []string       // display labels, indexed by code-1
	valid  []bool         // validity flags, indexed by code-1
}

// Lookup resolves a raw label to its code within a variable. The raw value is
// normalized with the same rule the builder used. The last return is false
// when the variable or label is unknown to this codebook.
func (c *Codebook) Lookup(v schema.VariableKey, raw string) (code int, valid bool, ok bool) {
	sp, ok := c.spaces[v]
	if !ok {
		return 0, false, false
	}

	code, ok = sp.codes[Fold(Normalize(raw))]
	if !ok {
		return 0, false, false
	}

	return code, sp.valid[code-1], true
}

// Decode returns the display label for a code within a variable. This is the
// inverse of Lookup for every entry in the codebook.
func (c *Codebook) Decode(v schema.VariableKey, code int) (string, bool) {
	sp, ok := c.spaces[v]
	if !ok || code < 1 || code > len(sp.labels) {
		return "", false
	}
	return sp.labels[code-1], true
}

// Entries returns all entries in assignment order (first-seen over the full
// record scan). The slice is a copy.
func (c *Codebook) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Size returns the number of entries for a variable.
func (c *Codebook) Size(v schema.VariableKey) int {
	sp, ok := c.spaces[v]
	if !ok {
		return 0
	}
	return len(sp.labels)
}

// ValidSize returns the number of valid entries for a variable.
func (c *Codebook) ValidSize(v schema.VariableKey) int {
	sp, ok := c.spaces[v]
	if !ok {
		return 0
	}

	n := 0
	for _, valid := range sp.valid {
		if valid {
			n++
		}
	}
	return n
}
