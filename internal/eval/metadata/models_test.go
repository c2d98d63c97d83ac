package metadata

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMentionText(t *testing.T) {
	tests := []struct {
		name     string
		mention  Mention
		expected string
	}{
		{
			name:     "inner span",
			mention:  Mention{Context: "as shown in (Smith 2010) before", StartOffset: 12, EndOffset: 24},
			expected: "(Smith 2010)",
		},
		{
			name:     "end past context is clamped",
			mention:  Mention{Context: "abc", StartOffset: 1, EndOffset: 10},
			expected: "bc",
		},
		{
			name:     "inverted offsets yield empty",
			mention:  Mention{Context: "abc", StartOffset: 2, EndOffset: 1},
			expected: "",
		},
		{
			name:     "rune offsets",
			mention:  Mention{Context: "Müller [3]", StartOffset: 7, EndOffset: 10},
			expected: "[3]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.mention.Text())
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		md, err := Decode([]byte(`{"title":"Deep Learning","authors":["Yann LeCun"],"references":[{"title":"Backprop","year":1986}]}`))
		require.NoError(t, err)
		assert.Equal(t, "Deep Learning", md.Title)
		assert.Equal(t, []string{"Yann LeCun"}, md.Authors)
		require.Len(t, md.References, 1)
		assert.Equal(t, 1986, md.References[0].Year)
	})

	t.Run("fenced json", func(t *testing.T) {
		md, err := Decode([]byte("```json\n{\"title\":\"Fenced\"}\n```"))
		require.NoError(t, err)
		assert.Equal(t, "Fenced", md.Title)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := Decode([]byte("not json"))
		assert.Error(t, err)
	})
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	md := ExtractedMetadata{
		Title:        "A Title",
		AbstractText: "Some abstract",
		ReferenceMentions: []Mention{
			{Context: "see [1]", StartOffset: 4, EndOffset: 7},
		},
	}

	require.NoError(t, Save(path, md))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, md, loaded)
}
