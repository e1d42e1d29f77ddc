// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

package codebook

import "strings"

// NotApplicable is the canonical label every recognized "not applicable"
// spelling folds into. It is a real codebook entry, not the missing sentinel:
// a guest who answered "none" is data, a guest who skipped the question is not.
const NotApplicable = "N/A"

// notApplicableSpellings are the spellings folded into NotApplicable, compared
// after fold-casing the normalized label.
var notApplicableSpellings = map[string]struct{}{
	"":     {},
	"n/a":  {},
	"na":   {},
	"n.a.": {},
	"none": {},
	"nil":  {},
	"-":    {},
}

// Normalize canonicalizes a raw categorical label: leading/trailing
// whitespace is trimmed, internal whitespace runs collapse to a single space,
// and recognized not-applicable spellings (including the empty string) map to
// NotApplicable. Casing is preserved; equality between labels is decided by
// Fold.
func Normalize(raw string) string {
	label := strings.Join(strings.Fields(raw), " ")
	if _, ok := notApplicableSpellings[strings.ToLower(label)]; ok {
		return NotApplicable
	}
	return label
}

// Fold returns the case-insensitive comparison key for a normalized label.
// Two labels with equal Fold results share one codebook entry; the first-seen
// casing is kept as the display label.
func Fold(normalized string) string {
	return strings.ToLower(normalized)
}
