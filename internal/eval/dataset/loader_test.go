package dataset

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGold(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadTSV(t *testing.T) {
	dir := t.TempDir()
	writeGold(t, dir, "authorFullName.tsv", "doc1\tAda Lovelace\tAlan Turing\r\n\ndoc2\tGrace Hopper\n")

	rows, err := NewLoader(dir).Load("authorFullName", nil)
	require.NoError(t, err)
	assert.Equal(t, []GoldRow{
		{DocumentID: "doc1", Labels: []string{"Ada Lovelace", "Alan Turing"}},
		{DocumentID: "doc2", Labels: []string{"Grace Hopper"}},
	}, rows)
}

func TestLoadTSVErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		validate func([]string) error
		wantLine int
		wantMsg  string
	}{
		{
			name:     "missing labels",
			content:  "doc1\tA\ndoc2\n",
			wantLine: 2,
			wantMsg:  "at least one",
		},
		{
			name:     "empty id",
			content:  "\tA\n",
			wantLine: 1,
			wantMsg:  "empty document id",
		},
		{
			name:     "duplicate id",
			content:  "doc1\tA\ndoc2\tB\ndoc1\tC\n",
			wantLine: 3,
			wantMsg:  "duplicate document id doc1 (first seen on line 1)",
		},
		{
			name:    "validator rejects",
			content: "doc1\tok\ndoc2\tbad\n",
			validate: func(labels []string) error {
				if labels[0] == "bad" {
					return errors.New("nope")
				}
				return nil
			},
			wantLine: 2,
			wantMsg:  "invalid labels: nope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeGold(t, dir, "gold.tsv", tt.content)

			_, err := NewLoader(dir).Load("gold", tt.validate)
			var gfe *GoldFormatError
			require.ErrorAs(t, err, &gfe)
			assert.Equal(t, tt.wantLine, gfe.Line)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(t.TempDir()).Load("title", nil)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadSample(t *testing.T) {
	dir := t.TempDir()
	writeGold(t, dir, "title.tsv", "a\t1\nb\t2\nc\t3\n")

	rows, err := NewLoader(dir).LoadSample("title", 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[1].DocumentID)
}

func TestLoadParquet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bib-titles.parquet")
	require.NoError(t, parquet.WriteFile(path, []goldParquetRow{
		{DocumentID: "doc1", Labels: []string{"Deep learning", "Attention"}},
		{DocumentID: "doc2", Labels: []string{"Transformers"}},
	}))

	rows, err := NewLoader(dir).Load("bib-titles", nil)
	require.NoError(t, err)
	assert.Equal(t, []GoldRow{
		{DocumentID: "doc1", Labels: []string{"Deep learning", "Attention"}},
		{DocumentID: "doc2", Labels: []string{"Transformers"}},
	}, rows)
}

func TestLoadParquetDuplicate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, parquet.WriteFile(filepath.Join(dir, "title.parquet"), []goldParquetRow{
		{DocumentID: "doc1", Labels: []string{"A"}},
		{DocumentID: "doc1", Labels: []string{"B"}},
	}))

	_, err := NewLoader(dir).Load("title", nil)
	var gfe *GoldFormatError
	require.ErrorAs(t, err, &gfe)
	assert.Equal(t, 2, gfe.Line)
}

func TestTSVPreferredOverParquet(t *testing.T) {
	dir := t.TempDir()
	writeGold(t, dir, "title.tsv", "doc1\tA\n")
	writeGold(t, dir, "title.parquet", "not parquet")

	path, err := NewLoader(dir).Path("title")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "title.tsv"), path)
}

func TestCorpus(t *testing.T) {
	c := Corpus{Dir: "/data/pdfs", Ext: ".pdf"}
	assert.Equal(t, "/data/pdfs/doc1.pdf", c.Path("doc1"))

	docs := c.Documents([]string{"a", "b"})
	require.Len(t, docs, 2)
	assert.Equal(t, "b", docs[1].ID)
	assert.Equal(t, "/data/pdfs/b.pdf", docs[1].Path)
}
