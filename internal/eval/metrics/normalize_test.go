package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "case", input: "Deep Learning", want: "deep learning"},
		{name: "accents", input: "Gödel, Escher, Bach", want: "godel escher bach"},
		{name: "whitespace", input: "  A \t  Study\n", want: "a study"},
		{name: "punctuation", input: "Proc. of the ACM (SIGIR)", want: "proc of the acm sigir"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestStrictNormalize(t *testing.T) {
	assert.Equal(t, "foobar2", StrictNormalize("Foo (Bar) 2!"))
	assert.Equal(t, "", StrictNormalize(" - "))
}

func TestMentionNormalize(t *testing.T) {
	assert.Equal(t, MentionNormalize("Foo (Bar)|Bar"), MentionNormalize("foo(bar)|bar"))
	assert.Equal(t, "foobar|bar", MentionNormalize("Foo (Bar)|Bar"))
	assert.NotEqual(t, MentionNormalize("foo|bar"), MentionNormalize("foobar|"))
}

func TestNormalizeBib(t *testing.T) {
	key := BibKey{Title: "Deep  Learning.", Authors: "Y. LeCun:Geoffrey Hinton", Venue: "Nature", Year: 2015}

	got := NormalizeBib(key)
	assert.Equal(t, BibKey{Title: "deep learning", Authors: "y lecun:geoffrey hinton", Venue: "nature", Year: 2015}, got)

	noVenue := NormalizeBibIgnoringVenue(key)
	assert.Empty(t, noVenue.Venue)
	assert.Equal(t, got.Title, noVenue.Title)
}
