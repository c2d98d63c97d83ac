package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/metaeval/internal/eval/diagnostics"
)

func TestToMultiset(t *testing.T) {
	set := ToMultiset(Items([]string{"a", "a", "b"}))
	require.Len(t, set, 3)
	assert.Contains(t, set, MultisetKey[string]{Value: "a", Occurrence: 0})
	assert.Contains(t, set, MultisetKey[string]{Value: "a", Occurrence: 1})
	assert.Contains(t, set, MultisetKey[string]{Value: "b", Occurrence: 0})

	assert.Empty(t, ToMultiset[string](nil))
}

func TestToMultisetGroupsByCanonical(t *testing.T) {
	items := []ComparableItem[string]{
		{Canonical: "smith", Original: "J. Smith"},
		{Canonical: "smith", Original: "Jane Smith"},
	}
	set := ToMultiset(items)
	require.Len(t, set, 2)
	assert.Equal(t, "J. Smith", set[MultisetKey[string]{Value: "smith", Occurrence: 0}].Original)
	assert.Equal(t, "Jane Smith", set[MultisetKey[string]{Value: "smith", Occurrence: 1}].Original)
}

func TestCalculatePR(t *testing.T) {
	tests := []struct {
		name      string
		gold      []string
		extracted []string
		want      Score
	}{
		{
			name:      "identical multisets",
			gold:      []string{"a", "b", "b"},
			extracted: []string{"b", "a", "b"},
			want:      Score{Precision: 1.0, Recall: 1.0},
		},
		{
			name:      "disjoint",
			gold:      []string{"a", "b"},
			extracted: []string{"c"},
			want:      Score{Precision: 0.0, Recall: 0.0},
		},
		{
			name:      "duplicate gold matched once",
			gold:      []string{"a", "a", "b"},
			extracted: []string{"a"},
			want:      Score{Precision: 1.0, Recall: 1.0 / 3.0},
		},
		{
			name: "both empty",
			want: Score{Precision: 1.0, Recall: 1.0},
		},
		{
			name:      "empty gold",
			extracted: []string{"a"},
			want:      Score{Precision: 0.0, Recall: 1.0},
		},
		{
			name: "empty extracted",
			gold: []string{"a"},
			want: Score{Precision: 0.0, Recall: 0.0},
		},
		{
			name:      "partial overlap",
			gold:      []string{"a", "b"},
			extracted: []string{"a", "c", "d", "e"},
			want:      Score{Precision: 0.25, Recall: 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePR(EvalContext{}, ToMultiset(Items(tt.gold)), ToMultiset(Items(tt.extracted)))
			assert.InDelta(t, tt.want.Precision, got.Precision, 1e-9)
			assert.InDelta(t, tt.want.Recall, got.Recall, 1e-9)
		})
	}
}

func TestCalculatePREmitsDiagnostics(t *testing.T) {
	var sink diagnostics.Memory
	ctx := EvalContext{Backend: "grobid", Metric: "authorFullName", DocumentID: "doc1", Sink: &sink}

	gold := ToMultiset(Items([]string{"Ada Lovelace", "Ada Lovelace", "Alan Turing"}))
	extracted := ToMultiset(Items([]string{"Ada Lovelace", "Grace Hopper"}))
	CalculatePR(ctx, gold, extracted)

	records := sink.Records()
	require.Len(t, records, 3)
	assert.Equal(t, diagnostics.Record{Backend: "grobid", Metric: "authorFullName", Type: diagnostics.RecallError, DocumentID: "doc1", Item: "Ada Lovelace"}, records[0])
	assert.Equal(t, diagnostics.RecallError, records[1].Type)
	assert.Equal(t, "Alan Turing", records[1].Item)
	assert.Equal(t, diagnostics.PrecisionError, records[2].Type)
	assert.Equal(t, "Grace Hopper", records[2].Item)
}

func TestCalculatePREmptySidesEmitNothing(t *testing.T) {
	var sink diagnostics.Memory
	ctx := EvalContext{Sink: &sink}

	CalculatePR(ctx, ToMultiset(Items([]string{"a"})), ToMultiset[string](nil))
	CalculatePR(ctx, ToMultiset[string](nil), ToMultiset(Items([]string{"a"})))
	assert.Empty(t, sink.Records())
}

func TestBibCounter(t *testing.T) {
	tests := []struct {
		name      string
		gold      []string
		extracted []string
		want      Score
	}{
		{name: "same count different items", gold: []string{"a", "b"}, extracted: []string{"c", "d"}, want: Score{Precision: 1, Recall: 1}},
		{name: "half", gold: []string{"a", "b"}, extracted: []string{"a"}, want: Score{Precision: 1, Recall: 0.5}},
		{name: "over extraction", gold: []string{"a"}, extracted: []string{"a", "b", "c"}, want: Score{Precision: 1, Recall: 3}},
		{name: "empty gold", extracted: []string{"a"}, want: Score{Precision: 1, Recall: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BibCounter(EvalContext{}, ToMultiset(Items(tt.gold)), ToMultiset(Items(tt.extracted)))
			assert.Equal(t, tt.want, got)
		})
	}
}
