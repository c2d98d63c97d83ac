package metrics

import (
	"fmt"
	"sort"

	"github.com/lehigh-university-libraries/metaeval/internal/eval/dataset"
)

// Gold file stems under the gold directory.
const (
	GoldAuthorFullName = "authorFullName"
	GoldAuthorLastName = "authorLastName"
	GoldTitle          = "title"
	GoldAbstract       = "abstract"
	GoldBibliographies = "bibliographies"
	GoldBibAuthors     = "bib-authors"
	GoldBibTitles      = "bib-titles"
	GoldBibVenues      = "bib-venues"
	GoldBibYears       = "bib-years"
	GoldMentions       = "mentions"
)

// Metric binds a gold source to an evaluation pipeline.
type Metric struct {
	Name     string
	GoldFile string
	Evaluate Evaluator
	// ValidateGold, when set, is run against every gold row at load time.
	ValidateGold func(labels []string) error
}

// Registry is an immutable catalog of metrics keyed by unique name.
type Registry struct {
	metrics []Metric
	byName  map[string]int
}

// NewRegistry builds a registry, rejecting empty or duplicate names.
func NewRegistry(ms ...Metric) (*Registry, error) {
	r := &Registry{byName: make(map[string]int, len(ms))}
	for _, m := range ms {
		if m.Name == "" {
			return nil, fmt.Errorf("metric with gold file %q has no name", m.GoldFile)
		}
		if m.GoldFile == "" {
			return nil, fmt.Errorf("metric %q has no gold file", m.Name)
		}
		if m.Evaluate == nil {
			return nil, fmt.Errorf("metric %q has no evaluator", m.Name)
		}
		if _, ok := r.byName[m.Name]; ok {
			return nil, fmt.Errorf("duplicate metric name %q", m.Name)
		}
		r.byName[m.Name] = len(r.metrics)
		r.metrics = append(r.metrics, m)
	}
	return r, nil
}

// Metrics returns the registered metrics in registration order.
func (r *Registry) Metrics() []Metric {
	out := make([]Metric, len(r.metrics))
	copy(out, r.metrics)
	return out
}

// Get looks a metric up by name.
func (r *Registry) Get(name string) (Metric, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Metric{}, false
	}
	return r.metrics[i], true
}

// Select returns a registry restricted to the named metrics. No names
// selects everything.
func (r *Registry) Select(names []string) (*Registry, error) {
	if len(names) == 0 {
		return r, nil
	}
	selected := make([]Metric, 0, len(names))
	for _, name := range names {
		m, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown metric %q", name)
		}
		selected = append(selected, m)
	}
	return NewRegistry(selected...)
}

// GoldFiles returns the distinct gold file stems in sorted order.
func (r *Registry) GoldFiles() []string {
	seen := make(map[string]struct{})
	var files []string
	for _, m := range r.metrics {
		if _, ok := seen[m.GoldFile]; ok {
			continue
		}
		seen[m.GoldFile] = struct{}{}
		files = append(files, m.GoldFile)
	}
	sort.Strings(files)
	return files
}

// GoldRecord is one document's labels for one metric.
type GoldRecord struct {
	Metric     string
	DocumentID string
	Labels     []string
}

// GoldLoader reads the rows of one gold file.
type GoldLoader interface {
	Load(stem string, validate func([]string) error) ([]dataset.GoldRow, error)
}

// LoadGold reads each gold file once and fans its rows out to every
// metric bound to it. Validators of all metrics sharing a file are applied.
func LoadGold(loader GoldLoader, r *Registry) ([]GoldRecord, error) {
	var records []GoldRecord
	for _, file := range r.GoldFiles() {
		var bound []Metric
		for _, m := range r.metrics {
			if m.GoldFile == file {
				bound = append(bound, m)
			}
		}
		validate := func(labels []string) error {
			for _, m := range bound {
				if m.ValidateGold == nil {
					continue
				}
				if err := m.ValidateGold(labels); err != nil {
					return err
				}
			}
			return nil
		}

		rows, err := loader.Load(file, validate)
		if err != nil {
			return nil, fmt.Errorf("failed to load gold file %s: %w", file, err)
		}
		for _, m := range bound {
			for _, row := range rows {
				records = append(records, GoldRecord{Metric: m.Name, DocumentID: row.DocumentID, Labels: row.Labels})
			}
		}
	}
	return records, nil
}

// DocumentIDs returns the sorted union of document ids across gold records.
func DocumentIDs(gold []GoldRecord) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, g := range gold {
		if _, ok := seen[g.DocumentID]; ok {
			continue
		}
		seen[g.DocumentID] = struct{}{}
		ids = append(ids, g.DocumentID)
	}
	sort.Strings(ids)
	return ids
}

// DefaultMetrics returns the full metric catalog.
func DefaultMetrics() []Metric {
	bibRecords := func(normalizer func(BibKey) BibKey, calc PRCalculator[BibKey]) Evaluator {
		return GenericEval[BibKey]{
			Extract:     extractBibRecords,
			ExtractGold: goldBibRecords,
			Normalizer:  normalizer,
			Calculator:  calc,
		}.Evaluator()
	}

	return []Metric{
		{Name: "authorFullName", GoldFile: GoldAuthorFullName, Evaluate: StringEval{Extract: extractAuthorFullNames}.Evaluator()},
		{Name: "authorFullNameNormalized", GoldFile: GoldAuthorFullName, Evaluate: StringEval{Extract: extractAuthorFullNames, Normalizer: Normalize}.Evaluator()},
		{Name: "authorLastName", GoldFile: GoldAuthorLastName, Evaluate: StringEval{Extract: extractAuthorLastNames, ExtractGold: goldLastNames}.Evaluator()},
		{Name: "authorLastNameNormalized", GoldFile: GoldAuthorLastName, Evaluate: StringEval{Extract: extractAuthorLastNames, ExtractGold: goldLastNames, Normalizer: Normalize}.Evaluator()},
		{Name: "title", GoldFile: GoldTitle, Evaluate: StringEval{Extract: extractTitle, ExtractGold: goldFirstLabel}.Evaluator()},
		{Name: "titleNormalized", GoldFile: GoldTitle, Evaluate: StringEval{Extract: extractTitle, ExtractGold: goldFirstLabel, Normalizer: Normalize}.Evaluator()},
		{Name: "abstract", GoldFile: GoldAbstract, Evaluate: StringEval{Extract: extractAbstract, ExtractGold: goldAbstract}.Evaluator()},
		{Name: "abstractNormalized", GoldFile: GoldAbstract, Evaluate: StringEval{Extract: extractAbstract, ExtractGold: goldAbstract, Normalizer: Normalize}.Evaluator()},
		{Name: "bibAll", GoldFile: GoldBibliographies, Evaluate: bibRecords(nil, nil), ValidateGold: validateBibRecords},
		{Name: "bibAllNormalized", GoldFile: GoldBibliographies, Evaluate: bibRecords(NormalizeBib, nil), ValidateGold: validateBibRecords},
		{Name: "bibAllButVenuesNormalized", GoldFile: GoldBibliographies, Evaluate: bibRecords(NormalizeBibIgnoringVenue, nil), ValidateGold: validateBibRecords},
		{Name: "bibCounts", GoldFile: GoldBibliographies, Evaluate: bibRecords(nil, BibCounter[BibKey]), ValidateGold: validateBibRecords},
		{Name: "bibAuthors", GoldFile: GoldBibAuthors, Evaluate: StringEval{Extract: extractBibAuthors, ExtractGold: goldBibAuthors}.Evaluator()},
		{Name: "bibAuthorsNormalized", GoldFile: GoldBibAuthors, Evaluate: StringEval{Extract: extractBibAuthors, ExtractGold: goldBibAuthors, Normalizer: Normalize}.Evaluator()},
		{Name: "bibTitles", GoldFile: GoldBibTitles, Evaluate: StringEval{Extract: extractBibTitles}.Evaluator()},
		{Name: "bibTitlesNormalized", GoldFile: GoldBibTitles, Evaluate: StringEval{Extract: extractBibTitles, Normalizer: Normalize}.Evaluator()},
		{Name: "bibVenues", GoldFile: GoldBibVenues, Evaluate: StringEval{Extract: extractBibVenues}.Evaluator()},
		{Name: "bibVenuesNormalized", GoldFile: GoldBibVenues, Evaluate: StringEval{Extract: extractBibVenues, Normalizer: Normalize}.Evaluator()},
		{Name: "bibYears", GoldFile: GoldBibYears, Evaluate: StringEval{Extract: extractBibYears, Disallow: []string{"", "0"}}.Evaluator()},
		{Name: "bibMentions", GoldFile: GoldMentions, Evaluate: StringEval{Extract: extractBibMentions}.Evaluator()},
		{Name: "bibMentionsNormalized", GoldFile: GoldMentions, Evaluate: StringEval{Extract: extractBibMentions, Normalizer: MentionNormalize}.Evaluator()},
	}
}

// DefaultRegistry returns a registry holding DefaultMetrics.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultMetrics()...)
	if err != nil {
		panic(fmt.Sprintf("default metric catalog is invalid: %v", err))
	}
	return r
}
