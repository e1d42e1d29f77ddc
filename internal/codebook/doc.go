// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

// Package codebook builds the categorical code dictionary for a pipeline run.
//
// The builder scans eligible records in provider order and assigns each
// distinct normalized label a positive integer code, per variable, in
// first-seen order. The same input therefore always produces the same
// codebook, which is what makes full-pipeline reruns byte-reproducible.
//
// Labels that fail the validity policy (too long, disallowed characters)
// still receive a code so they stay representable downstream, but are
// flagged invalid; the encoder maps them to the missing sentinel so they
// never leak into statistics.
//
// Normalization lives here (see Normalize) and is the single definition used
// everywhere labels are compared.
package codebook
