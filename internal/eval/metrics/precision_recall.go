package metrics

import (
	"github.com/lehigh-university-libraries/metaeval/internal/eval/diagnostics"
)

// EvalContext identifies the evaluation in progress for diagnostic output.
type EvalContext struct {
	Backend    string
	Metric     string
	DocumentID string
	Sink       diagnostics.Sink
}

func (c EvalContext) emit(t diagnostics.ErrorType, item string) {
	sink := c.Sink
	if sink == nil {
		sink = diagnostics.Discard
	}
	sink.Emit(diagnostics.Record{
		Backend:    c.Backend,
		Metric:     c.Metric,
		Type:       t,
		DocumentID: c.DocumentID,
		Item:       item,
	})
}

// Score is a precision/recall pair for one document and metric.
type Score struct {
	Precision float64
	Recall    float64
}

// PRCalculator turns a gold and an extracted multiset into a Score.
type PRCalculator[T comparable] func(ctx EvalContext, gold, extracted Multiset[T]) Score

// CalculatePR matches extracted items against gold items by canonical value.
// An empty gold set has nothing to recall, so recall is 1 and precision is 1
// only when nothing was extracted either. Every unmatched item is reported to
// the context's sink with its original text.
func CalculatePR[T comparable](ctx EvalContext, gold, extracted Multiset[T]) Score {
	if len(gold) == 0 {
		if len(extracted) == 0 {
			return Score{Precision: 1.0, Recall: 1.0}
		}
		return Score{Precision: 0.0, Recall: 1.0}
	}
	if len(extracted) == 0 {
		return Score{Precision: 0.0, Recall: 0.0}
	}

	for _, item := range gold.Missing(extracted) {
		ctx.emit(diagnostics.RecallError, item.Original)
	}
	for _, item := range extracted.Missing(gold) {
		ctx.emit(diagnostics.PrecisionError, item.Original)
	}

	return Score{
		Precision: float64(extracted.countIn(gold)) / float64(len(extracted)),
		Recall:    float64(gold.countIn(extracted)) / float64(len(gold)),
	}
}

// BibCounter compares only the number of items. Precision is always 1 and
// recall is the ratio of extracted to gold items, which may exceed 1.
func BibCounter[T comparable](_ EvalContext, gold, extracted Multiset[T]) Score {
	if len(gold) == 0 {
		return Score{Precision: 1.0, Recall: 1.0}
	}
	return Score{
		Precision: 1.0,
		Recall:    float64(len(extracted)) / float64(len(gold)),
	}
}
