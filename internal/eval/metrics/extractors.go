package metrics

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/metaeval/internal/eval/metadata"
)

const (
	bibFieldSeparator = "|"
	authorSeparator   = ":"
	bibFieldCount     = 4
)

// BibKey is the comparable projection of a metadata.BibRecord.
// Authors are joined with ":" as in the gold bibliography format.
type BibKey struct {
	Title   string
	Authors string
	Venue   string
	Year    int
}

// NewBibKey projects a BibRecord.
func NewBibKey(b metadata.BibRecord) BibKey {
	return BibKey{
		Title:   b.Title,
		Authors: strings.Join(b.Authors, authorSeparator),
		Venue:   b.Venue,
		Year:    b.Year,
	}
}

// String renders the key in the gold row layout title|year|venue|authors.
func (b BibKey) String() string {
	return strings.Join([]string{b.Title, strconv.Itoa(b.Year), b.Venue, b.Authors}, bibFieldSeparator)
}

// ParseBibKey parses a gold bibliography label. Exactly four pipe-delimited
// fields are required and the year must be an integer.
func ParseBibKey(label string) (BibKey, error) {
	fields := strings.Split(label, bibFieldSeparator)
	if len(fields) != bibFieldCount {
		return BibKey{}, fmt.Errorf("bibliography entry %q has %d fields, want %d (title|year|venue|authors)", label, len(fields), bibFieldCount)
	}
	year, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return BibKey{}, fmt.Errorf("bibliography entry %q has invalid year: %w", label, err)
	}
	return BibKey{
		Title:   fields[0],
		Authors: strings.Join(splitAuthors(fields[3]), authorSeparator),
		Venue:   fields[2],
		Year:    year,
	}, nil
}

func splitAuthors(s string) []string {
	var out []string
	for _, a := range strings.Split(s, authorSeparator) {
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

func lastToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func firstAndLastWord(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	return words[0] + " " + words[len(words)-1]
}

// Extractors over ExtractedMetadata.

func extractAuthorFullNames(md metadata.ExtractedMetadata) []ComparableItem[string] {
	return Items(md.Authors)
}

func extractAuthorLastNames(md metadata.ExtractedMetadata) []ComparableItem[string] {
	out := make([]ComparableItem[string], 0, len(md.Authors))
	for _, a := range md.Authors {
		out = append(out, ComparableItem[string]{Canonical: lastToken(a), Original: a})
	}
	return out
}

func extractTitle(md metadata.ExtractedMetadata) []ComparableItem[string] {
	if md.Title == "" {
		return nil
	}
	return []ComparableItem[string]{Item(md.Title)}
}

func extractAbstract(md metadata.ExtractedMetadata) []ComparableItem[string] {
	if md.AbstractText == "" {
		return nil
	}
	return []ComparableItem[string]{{Canonical: firstAndLastWord(md.AbstractText), Original: md.AbstractText}}
}

func extractBibRecords(md metadata.ExtractedMetadata) []ComparableItem[BibKey] {
	out := make([]ComparableItem[BibKey], 0, len(md.References))
	for _, ref := range md.References {
		key := NewBibKey(ref)
		out = append(out, ComparableItem[BibKey]{Canonical: key, Original: key.String()})
	}
	return out
}

func extractBibAuthors(md metadata.ExtractedMetadata) []ComparableItem[string] {
	var out []ComparableItem[string]
	for _, ref := range md.References {
		out = append(out, Items(ref.Authors)...)
	}
	return out
}

func extractBibTitles(md metadata.ExtractedMetadata) []ComparableItem[string] {
	out := make([]ComparableItem[string], 0, len(md.References))
	for _, ref := range md.References {
		out = append(out, Item(ref.Title))
	}
	return out
}

func extractBibVenues(md metadata.ExtractedMetadata) []ComparableItem[string] {
	out := make([]ComparableItem[string], 0, len(md.References))
	for _, ref := range md.References {
		out = append(out, Item(ref.Venue))
	}
	return out
}

func extractBibYears(md metadata.ExtractedMetadata) []ComparableItem[string] {
	out := make([]ComparableItem[string], 0, len(md.References))
	for _, ref := range md.References {
		out = append(out, Item(strconv.Itoa(ref.Year)))
	}
	return out
}

func extractBibMentions(md metadata.ExtractedMetadata) []ComparableItem[string] {
	stripParens := strings.NewReplacer("(", "", ")", "")
	out := make([]ComparableItem[string], 0, len(md.ReferenceMentions))
	for _, m := range md.ReferenceMentions {
		out = append(out, Item(m.Context+"|"+stripParens.Replace(m.Text())))
	}
	return out
}

// Gold label parsers.

// GoldLabels wraps each gold label verbatim.
func GoldLabels(labels []string) ([]ComparableItem[string], error) {
	return Items(labels), nil
}

func goldLastNames(labels []string) ([]ComparableItem[string], error) {
	out := make([]ComparableItem[string], 0, len(labels))
	for _, l := range labels {
		out = append(out, ComparableItem[string]{Canonical: lastToken(l), Original: l})
	}
	return out, nil
}

func goldFirstLabel(labels []string) ([]ComparableItem[string], error) {
	if len(labels) == 0 {
		return nil, nil
	}
	return []ComparableItem[string]{Item(labels[0])}, nil
}

func goldAbstract(labels []string) ([]ComparableItem[string], error) {
	if len(labels) == 0 || labels[0] == "" {
		return nil, nil
	}
	return []ComparableItem[string]{{Canonical: firstAndLastWord(labels[0]), Original: labels[0]}}, nil
}

func goldBibAuthors(labels []string) ([]ComparableItem[string], error) {
	var out []ComparableItem[string]
	for _, l := range labels {
		out = append(out, Items(splitAuthors(l))...)
	}
	return out, nil
}

func goldBibRecords(labels []string) ([]ComparableItem[BibKey], error) {
	out := make([]ComparableItem[BibKey], 0, len(labels))
	for _, l := range labels {
		key, err := ParseBibKey(l)
		if err != nil {
			return nil, err
		}
		out = append(out, ComparableItem[BibKey]{Canonical: key, Original: l})
	}
	return out, nil
}

func validateBibRecords(labels []string) error {
	_, err := goldBibRecords(labels)
	return err
}
