// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

package pipeline

import (
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mingle/internal/assoc"
	"github.com/tomtom215/mingle/internal/codebook"
	"github.com/tomtom215/mingle/internal/encode"
	"github.com/tomtom215/mingle/internal/schema"
	"github.com/tomtom215/mingle/internal/similarity"
)

// missingCell renders the out-of-band missing sentinel in artifact tables.
// It is textual so a sink cannot confuse it with a genuine zero.
const missingCell = "N/A"

// formatScore renders scores and V values with fixed precision so identical
// runs produce byte-identical artifacts.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func codebookHeader() []string {
	return []string{"variable", "label", "code", "valid"}
}

func renderCodebook(entries []codebook.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			string(e.Variable),
			e.Label,
			strconv.Itoa(e.Code),
			strconv.FormatBool(e.Valid),
		})
	}
	return rows
}

func featureHeader() []string {
	header := []string{"uid"}
	for _, f := range schema.CategoricalFields() {
		header = append(header, string(f))
	}
	return append(header, "zip", "know_score", "social_stance", "timestamp", "birthday", "checkin_time")
}

func renderFeatures(rows []encode.FeatureRow) [][]string {
	out := make([][]string, 0, len(rows))
	for i := range rows {
		row := []string{rows[i].UID}
		for _, f := range schema.CategoricalFields() {
			row = append(row, formatCode(rows[i].Code(f)))
		}
		row = append(row,
			formatNumber(rows[i].Zip),
			formatNumber(rows[i].KnowScore),
			formatNumber(rows[i].SocialStance),
			formatText(rows[i].Timestamp),
			formatText(rows[i].Birthday),
			formatText(rows[i].CheckInTime),
		)
		out = append(out, row)
	}
	return out
}

func formatCode(code int) string {
	if code == encode.MissingCode {
		return missingCell
	}
	return strconv.Itoa(code)
}

func formatNumber(n int) string {
	if n == encode.MissingNumber {
		return missingCell
	}
	return strconv.Itoa(n)
}

func formatText(s string) string {
	if s == "" {
		return missingCell
	}
	return s
}

func associationHeader(vars []schema.FieldKey) []string {
	header := []string{"variable"}
	for _, v := range vars {
		header = append(header, string(v))
	}
	return header
}

func renderAssociation(m *assoc.Matrix) [][]string {
	vars := m.Vars()
	rows := make([][]string, 0, len(vars))

	for _, a := range vars {
		row := []string{string(a)}
		for _, b := range vars {
			if v, ok := m.Value(a, b); ok {
				row = append(row, formatScore(v))
			} else {
				row = append(row, missingCell)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func diagnosticsHeader() []string {
	return []string{"var_a", "var_b", "sample_size", "reason"}
}

func renderDiagnostics(diags []assoc.Diagnostic) [][]string {
	rows := make([][]string, 0, len(diags))
	for _, d := range diags {
		rows = append(rows, []string{
			string(d.VarA),
			string(d.VarB),
			strconv.Itoa(d.SampleSize),
			d.Reason,
		})
	}
	return rows
}

func edgesHeader() []string {
	return []string{"uid_a", "uid_b", "score", "reasons"}
}

func renderEdges(edges []similarity.Edge) [][]string {
	rows := make([][]string, 0, len(edges))
	for _, e := range edges {
		rows = append(rows, []string{
			e.UIDA,
			e.UIDB,
			formatScore(e.Score),
			formatReasons(e.Reasons),
		})
	}
	return rows
}

// formatReasons renders reason tags as a JSON array for the UI.
func formatReasons(reasons []string) string {
	if len(reasons) == 0 {
		return "[]"
	}
	b, err := json.Marshal(reasons)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func similarityMatrixHeader(m *similarity.Matrix) []string {
	header := []string{"uid"}
	return append(header, m.UIDs()...)
}

func renderSimilarityMatrix(m *similarity.Matrix) [][]string {
	uids := m.UIDs()
	rows := make([][]string, 0, len(uids))

	for i, uid := range uids {
		row := []string{uid}
		for j := range uids {
			row = append(row, formatScore(m.At(i, j)))
		}
		rows = append(rows, row)
	}
	return rows
}
