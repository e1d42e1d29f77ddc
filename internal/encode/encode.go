// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

// Package encode turns eligible records into numeric feature rows using the
// codebook built in the same pipeline run.
//
// The policy split matters here: labels the codebook flagged invalid are
// visible in the codebook artifact but encode as the missing sentinel, so
// downstream statistics only ever see valid categories.
package encode

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mingle/internal/codebook"
	"github.com/tomtom215/mingle/internal/schema"
)

// MissingCode is the sentinel for a categorical cell with no resolvable valid
// code. Real codes are positive, so zero is out of band.
const MissingCode = 0

// MissingNumber is the sentinel for a numeric cell that failed to parse or
// fell outside its expected range.
const MissingNumber = -1

// Expected ranges for the numeric survey fields.
const (
	minZip   = 1
	maxZip   = 99999
	minScore = 1
	maxScore = 10
)

// FeatureRow is one fully numeric-encoded record, keyed by guest UID. A row
// is emitted for every eligible record, even when every cell is missing, so
// guest counts stay consistent across artifacts.
type FeatureRow struct {
	// UID is the unique guest identifier.
	UID string `json:"uid"`

	// Codes holds one code per categorical column (MissingCode when the cell
	// could not be resolved to a valid codebook entry).
	Codes map[schema.FieldKey]int `json:"codes"`

	// Interests holds the distinct interest codes across the three interest
	// columns, sorted ascending. The N/A category is excluded here even though
	// it carries a code: a blank interest is not a shared interest.
	Interests []int `json:"interests"`

	// NAFields lists the categorical columns that resolved to the N/A
	// category. N/A is a real code for counting purposes, but two blanks must
	// never read as a match.
	NAFields []schema.FieldKey `json:"na_fields,omitempty"`

	// Zip is the postal code, MissingNumber when unparseable.
	Zip int `json:"zip"`

	// KnowScore is the 1-10 host-familiarity score, MissingNumber when
	// unparseable or out of range.
	KnowScore int `json:"know_score"`

	// SocialStance is the 1-10 social stance score, MissingNumber when
	// unparseable or out of range.
	SocialStance int `json:"social_stance"`

	// Timestamp is the submission time normalized to RFC 3339 UTC, empty when
	// unparseable.
	Timestamp string `json:"timestamp"`

	// Birthday is the birthday normalized to an ISO date, empty when
	// unparseable.
	Birthday string `json:"birthday"`

	// CheckInTime is the check-in time normalized to RFC 3339 UTC, empty when
	// unparseable.
	CheckInTime string `json:"checkin_time"`
}

// Code returns the code for a categorical column, MissingCode when absent.
func (r *FeatureRow) Code(f schema.FieldKey) int {
	return r.Codes[f]
}

// IsNA reports whether a column resolved to the N/A category.
func (r *FeatureRow) IsNA(f schema.FieldKey) bool {
	return slices.Contains(r.NAFields, f)
}

// InterestSet returns the interest codes as a set.
func (r *FeatureRow) InterestSet() map[int]struct{} {
	set := make(map[int]struct{}, len(r.Interests))
	for _, code := range r.Interests {
		set[code] = struct{}{}
	}
	return set
}

// Stats summarizes one encoding pass for external audit.
type Stats struct {
	// Rows is the number of feature rows emitted.
	Rows int `json:"rows"`

	// ValidCells is the number of categorical cells that resolved to a valid
	// code.
	ValidCells int `json:"valid_cells"`

	// NACells is the number of cells that resolved to the N/A entry (counted
	// within ValidCells as well).
	NACells int `json:"na_cells"`

	// MissingCells is the number of categorical cells encoded as the missing
	// sentinel.
	MissingCells int `json:"missing_cells"`
}

// Encoder maps records to feature rows against one codebook. The codebook is
// read-only once built, so an Encoder is safe for concurrent use.
type Encoder struct {
	book   *codebook.Codebook
	logger zerolog.Logger
}

// NewEncoder creates an Encoder bound to the given codebook.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEncoder(book *codebook.Codebook, logger zerolog.Logger) *Encoder {
	return &Encoder{
		book:   book,
		logger: logger.With().Str("component", "encode").Logger(),
	}
}

// Encode produces one feature row per record, preserving record order.
func (e *Encoder) Encode(records []schema.Record) ([]FeatureRow, Stats) {
	rows := make([]FeatureRow, 0, len(records))
	var stats Stats

	for i := range records {
		rows = append(rows, e.encodeRecord(&records[i], &stats))
	}
	stats.Rows = len(rows)

	e.logger.Info().
		Int("rows", stats.Rows).
		Int("valid_cells", stats.ValidCells).
		Int("na_cells", stats.NACells).
		Int("missing_cells", stats.MissingCells).
		Msg("feature table encoded")

	return rows, stats
}

func (e *Encoder) encodeRecord(rec *schema.Record, stats *Stats) FeatureRow {
	row := FeatureRow{
		UID:   rec.UID,
		Codes: make(map[schema.FieldKey]int, len(schema.CategoricalFields())),
	}

	for _, f := range schema.CategoricalFields() {
		code, isNA := e.encodeCell(rec, f, stats)
		row.Codes[f] = code
		if isNA {
			row.NAFields = append(row.NAFields, f)
		}
	}
	row.Interests = interestCodes(&row)

	row.Zip = parseRangedInt(rec.Zip, minZip, maxZip)
	row.KnowScore = parseRangedInt(rec.KnowScore, minScore, maxScore)
	row.SocialStance = parseRangedInt(rec.SocialStance, minScore, maxScore)

	row.Timestamp = normalizeDateTime(rec.Timestamp)
	row.Birthday = normalizeDate(rec.Birthday)
	row.CheckInTime = normalizeDateTime(rec.CheckInTime)

	return row
}

// interestCodes collects the distinct interest codes for a row, dropping the
// missing sentinel and the N/A category.
func interestCodes(row *FeatureRow) []int {
	var codes []int
	for _, f := range []schema.FieldKey{schema.FieldInterest1, schema.FieldInterest2, schema.FieldInterest3} {
		code := row.Codes[f]
		if code == MissingCode || row.IsNA(f) {
			continue
		}
		if !slices.Contains(codes, code) {
			codes = append(codes, code)
		}
	}
	slices.Sort(codes)
	return codes
}

// encodeCell resolves one categorical cell. Absent fields, unknown labels and
// invalid codebook entries all encode as MissingCode.
func (e *Encoder) encodeCell(rec *schema.Record, f schema.FieldKey, stats *Stats) (code int, isNA bool) {
	raw, present := rec.Field(f)
	if !present {
		stats.MissingCells++
		return MissingCode, false
	}

	v, _ := schema.VariableFor(f)
	code, valid, ok := e.book.Lookup(v, raw)
	if !ok || !valid {
		stats.MissingCells++
		return MissingCode, false
	}

	stats.ValidCells++
	if codebook.Normalize(raw) == codebook.NotApplicable {
		stats.NACells++
		isNA = true
	}
	return code, isNA
}

// parseRangedInt parses a numeric field and range-checks it. Anything else is
// the UnparseableValue case, recovered as MissingNumber.
func parseRangedInt(raw string, minVal, maxVal int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < minVal || n > maxVal {
		return MissingNumber
	}
	return n
}

// dateTimeLayouts are tried in order for timestamp-like fields. The sheet
// export has produced several of these over time.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
}

// dateLayouts are tried in order for date-only fields.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
}

// normalizeDateTime canonicalizes a timestamp to RFC 3339 UTC, falling back
// to date-only input at midnight UTC. Returns empty for unparseable input.
func normalizeDateTime(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return ""
}

// normalizeDate canonicalizes a date-only field to ISO form, accepting a full
// timestamp and truncating it. Returns empty for unparseable input.
func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format("2006-01-02")
		}
	}
	return ""
}
