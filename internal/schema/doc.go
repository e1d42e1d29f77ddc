// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

// Package schema defines the typed record model for guest registration data.
//
// Upstream providers hand the engine loosely shaped name/value rows. This
// package is the boundary where those rows become strict, typed Records:
// every known column has a named field, unknown columns are reported back to
// the caller instead of being carried along, and the categorical fields are
// mapped onto the codebook variables they draw codes from.
//
// The three interest columns are the one deliberate many-to-one mapping:
// interest_1, interest_2 and interest_3 all draw from the shared "interest"
// variable space, so a label appearing in any of them resolves to the same
// code.
package schema
