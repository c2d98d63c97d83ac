package metrics

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Identity returns v unchanged.
func Identity[T any](v T) T {
	return v
}

// Normalize folds case and accents, turns punctuation and symbols into
// spaces and collapses whitespace.
func Normalize(s string) string {
	// transform chains keep state, so each call builds its own
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}
	folded = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return ' '
		}
		return unicode.ToLower(r)
	}, folded)
	return strings.Join(strings.Fields(folded), " ")
}

// StrictNormalize lower-cases s and drops everything that is not a letter or digit.
func StrictNormalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)
}

// MentionNormalize applies StrictNormalize to each side of a "context|mention"
// value independently.
func MentionNormalize(s string) string {
	parts := strings.Split(s, "|")
	for i, p := range parts {
		parts[i] = StrictNormalize(p)
	}
	return strings.Join(parts, "|")
}

// NormalizeBib applies Normalize to the title, each author and the venue.
// The year is left alone.
func NormalizeBib(b BibKey) BibKey {
	authors := splitAuthors(b.Authors)
	for i, a := range authors {
		authors[i] = Normalize(a)
	}
	return BibKey{
		Title:   Normalize(b.Title),
		Authors: strings.Join(authors, authorSeparator),
		Venue:   Normalize(b.Venue),
		Year:    b.Year,
	}
}

// NormalizeBibIgnoringVenue is NormalizeBib with the venue dropped.
func NormalizeBibIgnoringVenue(b BibKey) BibKey {
	n := NormalizeBib(b)
	n.Venue = ""
	return n
}
