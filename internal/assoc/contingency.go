// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

package assoc

import (
	"math"
	"sort"

	"github.com/tomtom215/mingle/internal/encode"
	"github.com/tomtom215/mingle/internal/schema"
)

// contingencyTable is a cross-tabulation of joint observed counts for two
// categorical columns, restricted to rows where both are non-missing.
type contingencyTable struct {
	counts    [][]int // counts[i][j], i over X codes, j over Y codes
	rowTotals []int
	colTotals []int
	n         int
}

func (t *contingencyTable) rows() int { return len(t.rowTotals) }
func (t *contingencyTable) cols() int { return len(t.colTotals) }

// buildContingency tabulates the (x, y) code pairs observed in the feature
// rows. Axis ordering is by ascending code so the table is deterministic
// regardless of row order within equal inputs.
func buildContingency(rows []encode.FeatureRow, x, y schema.FieldKey) *contingencyTable {
	type pair struct{ a, b int }

	joint := make(map[pair]int)
	xCodes := make(map[int]struct{})
	yCodes := make(map[int]struct{})

	for i := range rows {
		a := rows[i].Code(x)
		b := rows[i].Code(y)
		if a == encode.MissingCode || b == encode.MissingCode {
			continue
		}

		joint[pair{a, b}]++
		xCodes[a] = struct{}{}
		yCodes[b] = struct{}{}
	}

	xIndex := sortedIndex(xCodes)
	yIndex := sortedIndex(yCodes)

	t := &contingencyTable{
		counts:    make([][]int, len(xIndex)),
		rowTotals: make([]int, len(xIndex)),
		colTotals: make([]int, len(yIndex)),
	}
	for i := range t.counts {
		t.counts[i] = make([]int, len(yIndex))
	}

	for p, c := range joint {
		i := xIndex[p.a]
		j := yIndex[p.b]
		t.counts[i][j] += c
		t.rowTotals[i] += c
		t.colTotals[j] += c
		t.n += c
	}

	return t
}

// sortedIndex maps each observed code to its ascending-order axis position.
func sortedIndex(codes map[int]struct{}) map[int]int {
	ordered := make([]int, 0, len(codes))
	for c := range codes {
		ordered = append(ordered, c)
	}
	sort.Ints(ordered)

	index := make(map[int]int, len(ordered))
	for i, c := range ordered {
		index[c] = i
	}
	return index
}

// chiSquare computes the Pearson chi-square statistic over observed versus
// expected counts (expected = rowTotal*colTotal/n). Requires n > 0.
func (t *contingencyTable) chiSquare() float64 {
	var chi2 float64
	n := float64(t.n)

	for i, row := range t.counts {
		if t.rowTotals[i] == 0 {
			continue
		}
		for j, observed := range row {
			if t.colTotals[j] == 0 {
				continue
			}
			expected := float64(t.rowTotals[i]) * float64(t.colTotals[j]) / n
			diff := float64(observed) - expected
			chi2 += diff * diff / expected
		}
	}

	return chi2
}

// cramersV normalizes the chi-square statistic to [0, 1]. The clip guards
// against small-sample phi2 overshoot. Requires rows >= 2, cols >= 2, n > 0.
func (t *contingencyTable) cramersV() float64 {
	phi2 := t.chiSquare() / float64(t.n)

	denom := t.rows() - 1
	if c := t.cols() - 1; c < denom {
		denom = c
	}

	v := math.Sqrt(phi2 / float64(denom))
	if v > 1 {
		return 1
	}
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
