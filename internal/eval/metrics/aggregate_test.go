package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/metaeval/internal/eval/diagnostics"
	"github.com/lehigh-university-libraries/metaeval/internal/eval/metadata"
	"github.com/lehigh-university-libraries/metaeval/internal/extraction"
)

func titleRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := DefaultRegistry().Select([]string{"title", "titleNormalized"})
	require.NoError(t, err)
	return r
}

func TestAggregate(t *testing.T) {
	gold := []GoldRecord{
		{Metric: "title", DocumentID: "doc1", Labels: []string{"Deep Learning"}},
		{Metric: "title", DocumentID: "doc2", Labels: []string{"Attention"}},
		{Metric: "titleNormalized", DocumentID: "doc1", Labels: []string{"Deep Learning"}},
		{Metric: "titleNormalized", DocumentID: "doc2", Labels: []string{"Attention"}},
	}
	results := map[string]extraction.Result{
		"doc1": {Metadata: metadata.ExtractedMetadata{Title: "Deep Learning"}},
		"doc2": {Metadata: metadata.ExtractedMetadata{Title: "attention"}},
	}

	var sink diagnostics.Memory
	summaries, err := Aggregate("grobid", titleRegistry(t), gold, results, &sink)
	require.NoError(t, err)

	assert.Equal(t, []Summary{
		{Metric: "title", Precision: 0.5, Recall: 0.5, Samples: 2},
		{Metric: "titleNormalized", Precision: 1, Recall: 1, Samples: 2},
	}, summaries)

	records := sink.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "grobid", records[0].Backend)
	assert.Equal(t, "doc2", records[0].DocumentID)
}

func TestAggregateFailedExtractionScoresZero(t *testing.T) {
	gold := []GoldRecord{
		{Metric: "title", DocumentID: "ok", Labels: []string{"A"}},
		{Metric: "title", DocumentID: "failed", Labels: []string{"B"}},
		{Metric: "title", DocumentID: "missing", Labels: []string{"C"}},
	}
	results := map[string]extraction.Result{
		"ok":     {Metadata: metadata.ExtractedMetadata{Title: "A"}},
		"failed": {Err: errors.New("parser crashed")},
	}

	summaries, err := Aggregate("cermine", titleRegistry(t), gold, results, nil)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.InDelta(t, 1.0/3.0, summaries[0].Precision, 1e-9)
	assert.InDelta(t, 1.0/3.0, summaries[0].Recall, 1e-9)
	assert.Equal(t, 3, summaries[0].Samples)
}

func TestAggregateUnknownMetric(t *testing.T) {
	_, err := Aggregate("b", titleRegistry(t), []GoldRecord{{Metric: "nope", DocumentID: "d"}}, nil, nil)
	assert.Error(t, err)
}

func TestCalculateAverage(t *testing.T) {
	tests := []struct {
		name     string
		scores   []float64
		expected float64
	}{
		{
			name:     "empty scores",
			scores:   []float64{},
			expected: 0.0,
		},
		{
			name:     "one and zero",
			scores:   []float64{1.0, 0.0},
			expected: 0.5,
		},
		{
			name:     "multiple scores",
			scores:   []float64{0.8, 0.9, 1.0},
			expected: 0.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := calculateAverage(tt.scores)
			if result < tt.expected-0.0001 || result > tt.expected+0.0001 {
				t.Errorf("calculateAverage() = %.4f, expected %.4f", result, tt.expected)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	baseline := []Summary{
		{Metric: "title", Precision: 0.5, Recall: 0.25, Samples: 4},
		{Metric: "abstract", Precision: 1, Recall: 1, Samples: 4},
	}
	candidate := []Summary{
		{Metric: "title", Precision: 0.75, Recall: 0.5, Samples: 4},
		{Metric: "bibAll", Precision: 0.5, Recall: 0.5, Samples: 2},
	}

	got := Compare(baseline, candidate)
	require.Len(t, got, 3)

	assert.Equal(t, "abstract", got[0].Metric)
	assert.Equal(t, 0, got[0].Candidate.Samples)
	assert.Equal(t, -1.0, got[0].PrecisionDiff)

	assert.Equal(t, "bibAll", got[1].Metric)
	assert.Equal(t, 0.5, got[1].RecallDiff)

	assert.Equal(t, "title", got[2].Metric)
	assert.InDelta(t, 0.25, got[2].PrecisionDiff, 1e-9)
	assert.InDelta(t, 0.25, got[2].RecallDiff, 1e-9)
}
