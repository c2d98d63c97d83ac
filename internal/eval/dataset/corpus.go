package dataset

import (
	"path/filepath"

	"github.com/lehigh-university-libraries/metaeval/internal/extraction"
)

// Corpus resolves document ids to files in a directory.
type Corpus struct {
	Dir string
	Ext string // e.g. ".pdf" or ".txt"
}

// Path returns Dir/id+Ext.
func (c Corpus) Path(id string) string {
	return filepath.Join(c.Dir, id+c.Ext)
}

// Documents returns a handle for each id, in order.
func (c Corpus) Documents(ids []string) []extraction.Document {
	docs := make([]extraction.Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, extraction.Document{ID: id, Path: c.Path(id)})
	}
	return docs
}
