// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mingle/internal/schema"
	"github.com/tomtom215/mingle/internal/similarity"
)

type memorySource struct {
	records []schema.Record
	err     error
}

func (s *memorySource) FetchEligibleRecords(ctx context.Context) ([]schema.Record, error) {
	return s.records, s.err
}

type memoryTable struct {
	header []string
	rows   [][]string
}

type memorySink struct {
	tables map[string]memoryTable
	order  []string
	failOn string
}

func newMemorySink() *memorySink {
	return &memorySink{tables: make(map[string]memoryTable)}
}

func (s *memorySink) WriteTable(ctx context.Context, name string, header []string, rows [][]string) error {
	if name == s.failOn {
		return fmt.Errorf("sink failure on %s", name)
	}
	if _, seen := s.tables[name]; !seen {
		s.order = append(s.order, name)
	}
	s.tables[name] = memoryTable{header: header, rows: rows}
	return nil
}

type panickyEvents struct{ calls int }

func (e *panickyEvents) LogEvent(message string, fields map[string]interface{}) {
	e.calls++
	panic("event backend down")
}

// sampleRecords yields enough overlap for real associations and edges.
func sampleRecords(n int) []schema.Record {
	records := make([]schema.Record, 0, n)
	for i := 0; i < n; i++ {
		rec := schema.Record{
			UID:       fmt.Sprintf("g-%03d", i),
			CheckedIn: true,
			Gender:    []string{"Female", "Male"}[i%2],
			Zodiac:    []string{"Leo", "Virgo", "Aries"}[i%3],
			Interest1: []string{"Reading", "Hiking"}[i%2],
			Interest2: "Cooking",
			MusicPref: []string{"Jazz", "House"}[i%2],
		}
		records = append(records, rec)
	}
	return records
}

func TestPipelineRun(t *testing.T) {
	t.Run("writes every artifact for a sparse run", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Similarity.Mode = similarity.ModeSparse
		sink := newMemorySink()
		p := New(cfg, &memorySource{records: sampleRecords(12)}, sink, zerolog.Nop())

		summary, err := p.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		for _, table := range []string{TableCodebook, TableFeatures, TableAssociation, TableAssociationDiagnostics, TableSimilarityEdges} {
			if _, ok := sink.tables[table]; !ok {
				t.Errorf("table %s not written", table)
			}
		}
		if _, ok := sink.tables[TableSimilarityMatrix]; ok {
			t.Error("dense matrix written in sparse mode")
		}

		if summary.Records != 12 {
			t.Errorf("summary.Records = %d, want 12", summary.Records)
		}
		if summary.RunID == "" {
			t.Error("summary.RunID empty")
		}
		if summary.CodebookEntries == 0 {
			t.Error("summary.CodebookEntries = 0, want > 0")
		}
		if summary.SimilarityEdges == 0 {
			t.Error("summary.SimilarityEdges = 0, want > 0")
		}
		if summary.DenseSimilarity {
			t.Error("summary.DenseSimilarity = true, want false")
		}
	})

	t.Run("small guest count selects the dense matrix", func(t *testing.T) {
		sink := newMemorySink()
		p := New(DefaultConfig(), &memorySource{records: sampleRecords(6)}, sink, zerolog.Nop())

		summary, err := p.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		if !summary.DenseSimilarity {
			t.Error("summary.DenseSimilarity = false, want true")
		}
		m, ok := sink.tables[TableSimilarityMatrix]
		if !ok {
			t.Fatal("dense matrix not written")
		}
		// Header "uid" plus one column per guest; one row per guest.
		if len(m.header) != 7 || len(m.rows) != 6 {
			t.Errorf("matrix shape = %dx%d, want 6 rows, 7 columns", len(m.rows), len(m.header))
		}
	})

	t.Run("identical runs produce identical artifacts", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Similarity.Mode = similarity.ModeSparse
		records := sampleRecords(10)

		first := newMemorySink()
		if _, err := New(cfg, &memorySource{records: records}, first, zerolog.Nop()).Run(context.Background()); err != nil {
			t.Fatalf("first Run() error = %v", err)
		}
		second := newMemorySink()
		if _, err := New(cfg, &memorySource{records: records}, second, zerolog.Nop()).Run(context.Background()); err != nil {
			t.Fatalf("second Run() error = %v", err)
		}

		if !reflect.DeepEqual(first.tables, second.tables) {
			t.Error("artifact tables differ between identical runs")
		}
		if !reflect.DeepEqual(first.order, second.order) {
			t.Errorf("write order differs: %v vs %v", first.order, second.order)
		}
	})

	t.Run("source failure aborts the run", func(t *testing.T) {
		p := New(DefaultConfig(), &memorySource{err: errors.New("sheet gone")}, newMemorySink(), zerolog.Nop())

		summary, err := p.Run(context.Background())
		if err == nil {
			t.Fatal("Run() error = nil, want fetch error")
		}
		if summary != nil {
			t.Errorf("summary = %+v, want nil on fetch failure", summary)
		}
	})

	t.Run("sink failure on codebook aborts the run", func(t *testing.T) {
		sink := newMemorySink()
		sink.failOn = TableCodebook
		p := New(DefaultConfig(), &memorySource{records: sampleRecords(6)}, sink, zerolog.Nop())

		if _, err := p.Run(context.Background()); err == nil {
			t.Fatal("Run() error = nil, want sink error")
		}
	})

	t.Run("bad association scope still runs similarity", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Association.Scope = []schema.FieldKey{"favorite_color"}
		sink := newMemorySink()
		p := New(cfg, &memorySource{records: sampleRecords(6)}, sink, zerolog.Nop())

		summary, err := p.Run(context.Background())
		if err == nil {
			t.Fatal("Run() error = nil, want scope error")
		}
		if summary == nil {
			t.Fatal("summary = nil, want a partial summary")
		}
		if _, ok := sink.tables[TableAssociation]; ok {
			t.Error("association table written despite bad scope")
		}
		if _, ok := sink.tables[TableSimilarityMatrix]; !ok {
			t.Error("similarity matrix not written after association failure")
		}
	})

	t.Run("failing event logger never aborts", func(t *testing.T) {
		events := &panickyEvents{}
		p := New(DefaultConfig(), &memorySource{records: sampleRecords(6)}, newMemorySink(), zerolog.Nop())
		p.SetEventLogger(events)

		if _, err := p.Run(context.Background()); err != nil {
			t.Fatalf("Run() error = %v, want nil despite event panics", err)
		}
		if events.calls == 0 {
			t.Error("event logger never invoked")
		}
	})

	t.Run("empty record set still writes artifacts", func(t *testing.T) {
		sink := newMemorySink()
		p := New(DefaultConfig(), &memorySource{}, sink, zerolog.Nop())

		summary, err := p.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		if summary.Records != 0 {
			t.Errorf("summary.Records = %d, want 0", summary.Records)
		}
		if got := len(sink.tables[TableCodebook].rows); got != 0 {
			t.Errorf("codebook rows = %d, want 0", got)
		}
		// Every pair degrades to a diagnostic on an empty table.
		if summary.AssociationSkipped != summary.AssociationPairs {
			t.Errorf("skipped = %d, want all %d pairs", summary.AssociationSkipped, summary.AssociationPairs)
		}
	})
}

func TestRenderTables(t *testing.T) {
	t.Run("missing cells render as the textual sentinel", func(t *testing.T) {
		if got := formatCode(0); got != "N/A" {
			t.Errorf("formatCode(0) = %q, want N/A", got)
		}
		if got := formatNumber(-1); got != "N/A" {
			t.Errorf("formatNumber(-1) = %q, want N/A", got)
		}
		if got := formatText(""); got != "N/A" {
			t.Errorf("formatText(\"\") = %q, want N/A", got)
		}
	})

	t.Run("scores render with fixed precision", func(t *testing.T) {
		tests := []struct {
			v    float64
			want string
		}{
			{1, "1.0000"},
			{0.7, "0.7000"},
			{1.0 / 3.0, "0.3333"},
			{0, "0.0000"},
		}
		for _, tt := range tests {
			if got := formatScore(tt.v); got != tt.want {
				t.Errorf("formatScore(%f) = %q, want %q", tt.v, got, tt.want)
			}
		}
	})

	t.Run("reasons render as a JSON array", func(t *testing.T) {
		if got := formatReasons([]string{"int:2", "music"}); got != `["int:2","music"]` {
			t.Errorf("formatReasons = %q", got)
		}
		if got := formatReasons(nil); got != "[]" {
			t.Errorf("formatReasons(nil) = %q, want []", got)
		}
	})

	t.Run("feature header matches feature rows", func(t *testing.T) {
		header := featureHeader()
		rows := renderFeatures(nil)
		if len(rows) != 0 {
			t.Fatalf("rows = %d, want 0", len(rows))
		}
		// uid + categoricals + 3 numerics + 3 dates.
		want := 1 + len(schema.CategoricalFields()) + 6
		if len(header) != want {
			t.Errorf("header columns = %d, want %d", len(header), want)
		}
	})
}
