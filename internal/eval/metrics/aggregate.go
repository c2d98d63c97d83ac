package metrics

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/lehigh-university-libraries/metaeval/internal/eval/diagnostics"
	"github.com/lehigh-university-libraries/metaeval/internal/extraction"
)

// Summary is the corpus average for one metric and backend.
type Summary struct {
	Metric    string  `yaml:"metric" json:"metric"`
	Precision float64 `yaml:"precision" json:"precision"`
	Recall    float64 `yaml:"recall" json:"recall"`
	Samples   int     `yaml:"samples" json:"samples"`
}

// Aggregate scores every gold record against the backend's extraction
// results and averages precision and recall per metric. A document whose
// extraction failed, or that was never extracted, scores 0 for precision
// and recall. The output is ordered by metric name.
func Aggregate(backend string, r *Registry, gold []GoldRecord, results map[string]extraction.Result, sink diagnostics.Sink) ([]Summary, error) {
	precisions := make(map[string][]float64)
	recalls := make(map[string][]float64)

	for _, g := range gold {
		m, ok := r.Get(g.Metric)
		if !ok {
			return nil, fmt.Errorf("gold record for unknown metric %q", g.Metric)
		}

		score := Score{}
		result, found := results[g.DocumentID]
		switch {
		case !found:
			slog.Debug("No extraction result", "backend", backend, "document", g.DocumentID)
		case !result.OK():
			// failed extraction scores zero
		default:
			ctx := EvalContext{Backend: backend, Metric: m.Name, DocumentID: g.DocumentID, Sink: sink}
			s, err := m.Evaluate(ctx, result.Metadata, g.Labels)
			if err != nil {
				return nil, fmt.Errorf("failed to evaluate %s for document %s: %w", m.Name, g.DocumentID, err)
			}
			score = s
		}

		precisions[m.Name] = append(precisions[m.Name], score.Precision)
		recalls[m.Name] = append(recalls[m.Name], score.Recall)
	}

	summaries := make([]Summary, 0, len(precisions))
	for name, ps := range precisions {
		summaries = append(summaries, Summary{
			Metric:    name,
			Precision: calculateAverage(ps),
			Recall:    calculateAverage(recalls[name]),
			Samples:   len(ps),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Metric < summaries[j].Metric
	})
	return summaries, nil
}

// calculateAverage calculates the average of a slice of scores
func calculateAverage(scores []float64) float64 {
	if len(scores) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, score := range scores {
		sum += score
	}

	return sum / float64(len(scores))
}

// Comparison joins two backends' summaries for one metric. Diffs are
// candidate minus baseline.
type Comparison struct {
	Metric        string  `yaml:"metric" json:"metric"`
	Baseline      Summary `yaml:"baseline" json:"baseline"`
	Candidate     Summary `yaml:"candidate" json:"candidate"`
	PrecisionDiff float64 `yaml:"precision_diff" json:"precision_diff"`
	RecallDiff    float64 `yaml:"recall_diff" json:"recall_diff"`
}

// Compare joins two summary lists by metric name. A metric present on only
// one side is compared against a zero summary with no samples.
func Compare(baseline, candidate []Summary) []Comparison {
	base := make(map[string]Summary, len(baseline))
	for _, s := range baseline {
		base[s.Metric] = s
	}
	cand := make(map[string]Summary, len(candidate))
	for _, s := range candidate {
		cand[s.Metric] = s
	}

	names := make(map[string]struct{}, len(base)+len(cand))
	for name := range base {
		names[name] = struct{}{}
	}
	for name := range cand {
		names[name] = struct{}{}
	}

	out := make([]Comparison, 0, len(names))
	for name := range names {
		b, ok := base[name]
		if !ok {
			b = Summary{Metric: name}
		}
		c, ok := cand[name]
		if !ok {
			c = Summary{Metric: name}
		}
		out = append(out, Comparison{
			Metric:        name,
			Baseline:      b,
			Candidate:     c,
			PrecisionDiff: c.Precision - b.Precision,
			RecallDiff:    c.Recall - b.Recall,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Metric < out[j].Metric
	})
	return out
}
