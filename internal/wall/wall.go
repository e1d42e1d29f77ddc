// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

// Package wall builds the category-grouping connection lists for the Wall
// display: group records by exact-match attribute value, emit all pairs
// within a group. No scoring and no statistics happen here; this is a
// display helper kept outside the statistics core.
package wall

import (
	"fmt"

	"github.com/tomtom215/mingle/internal/codebook"
	"github.com/tomtom215/mingle/internal/schema"
)

// Connection links two guests who share an exact attribute value.
type Connection struct {
	UIDA  string `json:"uid_a"`
	UIDB  string `json:"uid_b"`
	Group string `json:"group"`
}

// KeyFunc extracts the grouping key for a record. An empty key excludes the
// record from grouping.
type KeyFunc func(r *schema.Record) string

// GroupPairs groups records by key and emits all unordered pairs within each
// group, in record order. Groups with fewer than two members emit nothing.
func GroupPairs(records []schema.Record, key KeyFunc) []Connection {
	groups := make(map[string][]string)
	order := make([]string, 0)

	for i := range records {
		k := key(&records[i])
		if k == "" || records[i].UID == "" {
			continue
		}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], records[i].UID)
	}

	var conns []Connection
	for _, k := range order {
		members := groups[k]
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				conns = append(conns, Connection{UIDA: members[i], UIDB: members[j], Group: k})
			}
		}
	}

	return conns
}

// Header returns the column names for a wall connection table.
func Header() []string {
	return []string{"uid_a", "uid_b", "group"}
}

// Rows renders connections for a table sink.
func Rows(conns []Connection) [][]string {
	rows := make([][]string, 0, len(conns))
	for _, c := range conns {
		rows = append(rows, []string{c.UIDA, c.UIDB, c.Group})
	}
	return rows
}

// Connections builds wall connections for one categorical field, grouping by
// fold-cased normalized label. The first-seen casing names the group, the way
// the codebook keeps first-seen spellings. N/A groups emit nothing: a shared
// non-answer is not a connection.
func Connections(records []schema.Record, f schema.FieldKey) ([]Connection, error) {
	if _, ok := schema.VariableFor(f); !ok {
		return nil, fmt.Errorf("field %q is not categorical", f)
	}

	display := make(map[string]string)
	conns := GroupPairs(records, func(r *schema.Record) string {
		raw, present := r.Field(f)
		if !present {
			return ""
		}
		label := codebook.Normalize(raw)
		if label == codebook.NotApplicable {
			return ""
		}
		key := codebook.Fold(label)
		if _, seen := display[key]; !seen {
			display[key] = label
		}
		return key
	})

	for i := range conns {
		conns[i].Group = display[conns[i].Group]
	}

	return conns, nil
}
