// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

package wall

import (
	"reflect"
	"testing"

	"github.com/tomtom215/mingle/internal/schema"
)

func TestGroupPairs(t *testing.T) {
	t.Run("all pairs within a group", func(t *testing.T) {
		records := []schema.Record{
			{UID: "a", Zodiac: "Leo"},
			{UID: "b", Zodiac: "Leo"},
			{UID: "c", Zodiac: "Leo"},
			{UID: "d", Zodiac: "Virgo"},
		}

		conns := GroupPairs(records, func(r *schema.Record) string { return r.Zodiac })

		want := []Connection{
			{UIDA: "a", UIDB: "b", Group: "Leo"},
			{UIDA: "a", UIDB: "c", Group: "Leo"},
			{UIDA: "b", UIDB: "c", Group: "Leo"},
		}
		if !reflect.DeepEqual(conns, want) {
			t.Errorf("connections = %v, want %v", conns, want)
		}
	})

	t.Run("singleton groups emit nothing", func(t *testing.T) {
		records := []schema.Record{
			{UID: "a", Zodiac: "Leo"},
			{UID: "b", Zodiac: "Virgo"},
		}

		conns := GroupPairs(records, func(r *schema.Record) string { return r.Zodiac })

		if len(conns) != 0 {
			t.Errorf("connections = %v, want none", conns)
		}
	})

	t.Run("empty keys and UIDs are skipped", func(t *testing.T) {
		records := []schema.Record{
			{UID: "a", Zodiac: "Leo"},
			{UID: "", Zodiac: "Leo"},
			{UID: "c", Zodiac: ""},
			{UID: "d", Zodiac: "Leo"},
		}

		conns := GroupPairs(records, func(r *schema.Record) string { return r.Zodiac })

		want := []Connection{{UIDA: "a", UIDB: "d", Group: "Leo"}}
		if !reflect.DeepEqual(conns, want) {
			t.Errorf("connections = %v, want %v", conns, want)
		}
	})

	t.Run("group order follows first appearance", func(t *testing.T) {
		records := []schema.Record{
			{UID: "a", Zodiac: "Virgo"},
			{UID: "b", Zodiac: "Leo"},
			{UID: "c", Zodiac: "Virgo"},
			{UID: "d", Zodiac: "Leo"},
		}

		conns := GroupPairs(records, func(r *schema.Record) string { return r.Zodiac })

		if len(conns) != 2 {
			t.Fatalf("connections = %d, want 2", len(conns))
		}
		if conns[0].Group != "Virgo" || conns[1].Group != "Leo" {
			t.Errorf("group order = [%s, %s], want [Virgo, Leo]", conns[0].Group, conns[1].Group)
		}
	})
}

func TestConnections(t *testing.T) {
	t.Run("groups by normalized label", func(t *testing.T) {
		records := []schema.Record{
			{UID: "a", Industry: "  Tech "},
			{UID: "b", Industry: "Tech"},
		}

		conns, err := Connections(records, schema.FieldIndustry)
		if err != nil {
			t.Fatalf("Connections() error = %v", err)
		}

		want := []Connection{{UIDA: "a", UIDB: "b", Group: "Tech"}}
		if !reflect.DeepEqual(conns, want) {
			t.Errorf("connections = %v, want %v", conns, want)
		}
	})

	t.Run("grouping is case-insensitive with first-seen casing", func(t *testing.T) {
		records := []schema.Record{
			{UID: "a", Industry: "Tech"},
			{UID: "b", Industry: "tech"},
			{UID: "c", Industry: "TECH"},
		}

		conns, err := Connections(records, schema.FieldIndustry)
		if err != nil {
			t.Fatalf("Connections() error = %v", err)
		}

		want := []Connection{
			{UIDA: "a", UIDB: "b", Group: "Tech"},
			{UIDA: "a", UIDB: "c", Group: "Tech"},
			{UIDA: "b", UIDB: "c", Group: "Tech"},
		}
		if !reflect.DeepEqual(conns, want) {
			t.Errorf("connections = %v, want %v", conns, want)
		}
	})

	t.Run("N/A answers never connect", func(t *testing.T) {
		records := []schema.Record{
			{UID: "a", Industry: ""},
			{UID: "b", Industry: "n/a"},
			{UID: "c", Industry: "None"},
		}

		conns, err := Connections(records, schema.FieldIndustry)
		if err != nil {
			t.Fatalf("Connections() error = %v", err)
		}
		if len(conns) != 0 {
			t.Errorf("connections = %v, want none", conns)
		}
	})

	t.Run("absent column never connects", func(t *testing.T) {
		a, _ := schema.ParseRecord(map[string]string{"uid": "a"})
		b, _ := schema.ParseRecord(map[string]string{"uid": "b"})

		conns, err := Connections([]schema.Record{a, b}, schema.FieldIndustry)
		if err != nil {
			t.Fatalf("Connections() error = %v", err)
		}
		if len(conns) != 0 {
			t.Errorf("connections = %v, want none", conns)
		}
	})

	t.Run("non-categorical field is an error", func(t *testing.T) {
		if _, err := Connections(nil, schema.FieldZip); err == nil {
			t.Error("Connections(zip) error = nil, want error")
		}
	})
}

func TestRows(t *testing.T) {
	conns := []Connection{
		{UIDA: "a", UIDB: "b", Group: "Leo"},
	}

	rows := Rows(conns)

	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if !reflect.DeepEqual(rows[0], []string{"a", "b", "Leo"}) {
		t.Errorf("row = %v, want [a b Leo]", rows[0])
	}
	if !reflect.DeepEqual(Header(), []string{"uid_a", "uid_b", "group"}) {
		t.Errorf("header = %v", Header())
	}
}
