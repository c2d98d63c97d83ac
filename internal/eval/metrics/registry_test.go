package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/metaeval/internal/eval/dataset"
	"github.com/lehigh-university-libraries/metaeval/internal/eval/metadata"
)

func evaluate(t *testing.T, name string, md metadata.ExtractedMetadata, gold ...string) Score {
	t.Helper()
	m, ok := DefaultRegistry().Get(name)
	require.True(t, ok, "metric %s not registered", name)
	s, err := m.Evaluate(EvalContext{Metric: name}, md, gold)
	require.NoError(t, err)
	return s
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Len(t, r.Metrics(), 21)
	assert.Equal(t, []string{
		GoldAbstract, GoldAuthorFullName, GoldAuthorLastName, GoldBibAuthors, GoldBibTitles,
		GoldBibVenues, GoldBibYears, GoldBibliographies, GoldMentions, GoldTitle,
	}, r.GoldFiles())
}

func TestNewRegistryRejectsInvalid(t *testing.T) {
	eval := StringEval{Extract: extractTitle}.Evaluator()

	_, err := NewRegistry(Metric{Name: "a", GoldFile: "x", Evaluate: eval}, Metric{Name: "a", GoldFile: "y", Evaluate: eval})
	assert.ErrorContains(t, err, "duplicate")

	_, err = NewRegistry(Metric{GoldFile: "x", Evaluate: eval})
	assert.Error(t, err)

	_, err = NewRegistry(Metric{Name: "a", GoldFile: "x"})
	assert.Error(t, err)
}

func TestSelect(t *testing.T) {
	r, err := DefaultRegistry().Select([]string{"title", "bibCounts"})
	require.NoError(t, err)
	assert.Len(t, r.Metrics(), 2)
	assert.Equal(t, []string{GoldBibliographies, GoldTitle}, r.GoldFiles())

	_, err = DefaultRegistry().Select([]string{"nope"})
	assert.ErrorContains(t, err, "unknown metric")
}

func TestTitleNormalization(t *testing.T) {
	md := metadata.ExtractedMetadata{Title: "deep learning"}

	assert.Equal(t, Score{Precision: 0, Recall: 0}, evaluate(t, "title", md, "Deep Learning"))
	assert.Equal(t, Score{Precision: 1, Recall: 1}, evaluate(t, "titleNormalized", md, "Deep Learning"))
}

func TestMissingTitle(t *testing.T) {
	assert.Equal(t, Score{Precision: 0, Recall: 0}, evaluate(t, "title", metadata.ExtractedMetadata{}, "Deep Learning"))
}

func TestAuthorLastName(t *testing.T) {
	md := metadata.ExtractedMetadata{Authors: []string{"J. Smith", "Ada Lovelace"}}
	s := evaluate(t, "authorLastName", md, "John Smith", "Alan Turing")
	assert.Equal(t, Score{Precision: 0.5, Recall: 0.5}, s)
}

func TestAbstractFirstAndLastWord(t *testing.T) {
	md := metadata.ExtractedMetadata{AbstractText: "We study   things carefully here."}
	assert.Equal(t, Score{Precision: 1, Recall: 1}, evaluate(t, "abstract", md, "We study many things here."))
	assert.Equal(t, Score{Precision: 0, Recall: 0}, evaluate(t, "abstract", md, "We study things"))
}

func TestBibYearsDisallow(t *testing.T) {
	md := metadata.ExtractedMetadata{References: []metadata.BibRecord{{Year: 2015}, {Year: 0}}}
	assert.Equal(t, Score{Precision: 1, Recall: 1}, evaluate(t, "bibYears", md, "2015", ""))
}

func TestDisallowFiltersEmptyStrings(t *testing.T) {
	md := metadata.ExtractedMetadata{References: []metadata.BibRecord{{Title: "A"}, {Title: ""}}}
	assert.Equal(t, Score{Precision: 1, Recall: 1}, evaluate(t, "bibTitles", md, "A"))
}

func TestBibAll(t *testing.T) {
	md := metadata.ExtractedMetadata{References: []metadata.BibRecord{
		{Title: "Deep learning", Authors: []string{"Y LeCun", "G Hinton"}, Venue: "Nature", Year: 2015},
		{Title: "Attention is all you need", Authors: []string{"A Vaswani"}, Venue: "NIPS", Year: 2017},
	}}
	gold := []string{
		"Deep Learning|2015|Nature|Y. LeCun:G. Hinton",
		"Attention is all you need|2017|NeurIPS|A Vaswani",
	}

	assert.Equal(t, Score{Precision: 0, Recall: 0}, evaluate(t, "bibAll", md, gold...))
	assert.Equal(t, Score{Precision: 0.5, Recall: 0.5}, evaluate(t, "bibAllNormalized", md, gold...))
	assert.Equal(t, Score{Precision: 1, Recall: 1}, evaluate(t, "bibAllButVenuesNormalized", md, gold...))
	assert.Equal(t, Score{Precision: 1, Recall: 1}, evaluate(t, "bibCounts", md, gold...))
}

func TestBibAllRejectsMalformedGold(t *testing.T) {
	m, _ := DefaultRegistry().Get("bibAll")
	_, err := m.Evaluate(EvalContext{}, metadata.ExtractedMetadata{}, []string{"title|2015|venue"})
	assert.ErrorContains(t, err, "fields")

	assert.Error(t, m.ValidateGold([]string{"title|20x5|venue|a"}))
	assert.NoError(t, m.ValidateGold([]string{"title|2015|venue|a:b"}))
}

func TestBibAuthors(t *testing.T) {
	md := metadata.ExtractedMetadata{References: []metadata.BibRecord{
		{Authors: []string{"Smith", "Jones"}},
		{Authors: []string{"Smith"}},
	}}
	assert.Equal(t, Score{Precision: 1, Recall: 1}, evaluate(t, "bibAuthors", md, "Smith:Jones", "Smith"))
}

func TestBibMentions(t *testing.T) {
	ctx := "as shown by (Smith 2020) earlier"
	md := metadata.ExtractedMetadata{ReferenceMentions: []metadata.Mention{
		{Context: ctx, StartOffset: 12, EndOffset: 24},
	}}

	assert.Equal(t, Score{Precision: 1, Recall: 1}, evaluate(t, "bibMentions", md, ctx+"|Smith 2020"))
	assert.Equal(t, Score{Precision: 0, Recall: 0}, evaluate(t, "bibMentions", md, ctx+"|smith 2020"))
	assert.Equal(t, Score{Precision: 1, Recall: 1}, evaluate(t, "bibMentionsNormalized", md, ctx+"|smith, 2020"))
}

type fakeGoldLoader map[string][]dataset.GoldRow

func (f fakeGoldLoader) Load(stem string, validate func([]string) error) ([]dataset.GoldRow, error) {
	rows, ok := f[stem]
	if !ok {
		return nil, errors.New("no such file")
	}
	for _, row := range rows {
		if validate != nil {
			if err := validate(row.Labels); err != nil {
				return nil, err
			}
		}
	}
	return rows, nil
}

func TestLoadGold(t *testing.T) {
	r, err := DefaultRegistry().Select([]string{"title", "titleNormalized"})
	require.NoError(t, err)

	loader := fakeGoldLoader{GoldTitle: {
		{DocumentID: "doc1", Labels: []string{"A"}},
		{DocumentID: "doc2", Labels: []string{"B"}},
	}}
	gold, err := LoadGold(loader, r)
	require.NoError(t, err)
	assert.Len(t, gold, 4)
	assert.Equal(t, []string{"doc1", "doc2"}, DocumentIDs(gold))
}

func TestLoadGoldValidates(t *testing.T) {
	r, err := DefaultRegistry().Select([]string{"bibAll"})
	require.NoError(t, err)

	loader := fakeGoldLoader{GoldBibliographies: {{DocumentID: "doc1", Labels: []string{"only|three|fields"}}}}
	_, err = LoadGold(loader, r)
	assert.ErrorContains(t, err, GoldBibliographies)
}
