// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

// Package assoc computes pairwise association strength between categorical
// columns of the feature table using Cramér's V.
//
// For every unordered pair in the configured scope the engine cross-tabulates
// the codes observed where both columns are non-missing, computes the Pearson
// chi-square statistic over observed versus expected counts, and normalizes
// it to [0, 1]:
//
//	phi2 = chi2 / n
//	V    = sqrt(phi2 / min(r-1, c-1))
//
// Small samples are the central hazard. A pair whose table is empty, under
// the minimum sample threshold, or degenerate (fewer than two observed
// categories on either axis) reports the explicit missing sentinel with a
// diagnostic entry. It never reports 0 or NaN: a missing cell and a genuine
// V of zero must stay distinguishable. phi2 can also overshoot on small
// samples, so V is clipped to [0, 1].
//
// One bad pair never aborts the matrix; every skipped pair lands in the
// diagnostics list instead.
package assoc
