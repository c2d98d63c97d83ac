package metrics

import (
	"github.com/lehigh-university-libraries/metaeval/internal/eval/metadata"
)

// Evaluator scores one document's extracted metadata against its gold labels.
type Evaluator func(ctx EvalContext, md metadata.ExtractedMetadata, gold []string) (Score, error)

// StringEval configures a pipeline over string-valued items.
type StringEval struct {
	Extract     func(metadata.ExtractedMetadata) []ComparableItem[string]
	ExtractGold func([]string) ([]ComparableItem[string], error) // default GoldLabels
	Normalizer  func(string) string                              // default Identity
	Disallow    []string                                         // nil means {""}
	Calculator  PRCalculator[string]                             // default CalculatePR
}

// Evaluator builds the pipeline: normalize both sides, drop disallowed
// values, group into multisets, then score.
func (c StringEval) Evaluator() Evaluator {
	extractGold := c.ExtractGold
	if extractGold == nil {
		extractGold = GoldLabels
	}
	normalizer := c.Normalizer
	if normalizer == nil {
		normalizer = Identity[string]
	}
	disallow := c.Disallow
	if disallow == nil {
		disallow = []string{""}
	}
	disallowed := make(map[string]struct{}, len(disallow))
	for _, d := range disallow {
		disallowed[d] = struct{}{}
	}
	calculator := c.Calculator
	if calculator == nil {
		calculator = CalculatePR[string]
	}

	prepare := func(items []ComparableItem[string]) Multiset[string] {
		kept := make([]ComparableItem[string], 0, len(items))
		for _, item := range items {
			item.Canonical = normalizer(item.Canonical)
			if _, ok := disallowed[item.Canonical]; ok {
				continue
			}
			kept = append(kept, item)
		}
		return ToMultiset(kept)
	}

	return func(ctx EvalContext, md metadata.ExtractedMetadata, gold []string) (Score, error) {
		goldItems, err := extractGold(gold)
		if err != nil {
			return Score{}, err
		}
		return calculator(ctx, prepare(goldItems), prepare(c.Extract(md))), nil
	}
}

// GenericEval configures a pipeline over structured items such as
// bibliography records. There is no disallow filter.
type GenericEval[T comparable] struct {
	Extract     func(metadata.ExtractedMetadata) []ComparableItem[T]
	ExtractGold func([]string) ([]ComparableItem[T], error)
	Normalizer  func(T) T       // default Identity
	Calculator  PRCalculator[T] // default CalculatePR
}

// Evaluator builds the pipeline.
func (c GenericEval[T]) Evaluator() Evaluator {
	normalizer := c.Normalizer
	if normalizer == nil {
		normalizer = Identity[T]
	}
	calculator := c.Calculator
	if calculator == nil {
		calculator = CalculatePR[T]
	}

	prepare := func(items []ComparableItem[T]) Multiset[T] {
		for i := range items {
			items[i].Canonical = normalizer(items[i].Canonical)
		}
		return ToMultiset(items)
	}

	return func(ctx EvalContext, md metadata.ExtractedMetadata, gold []string) (Score, error) {
		goldItems, err := c.ExtractGold(gold)
		if err != nil {
			return Score{}, err
		}
		return calculator(ctx, prepare(goldItems), prepare(c.Extract(md))), nil
	}
}
