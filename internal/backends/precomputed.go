package backends

import (
	"context"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/metaeval/internal/eval/metadata"
	"github.com/lehigh-university-libraries/metaeval/internal/extraction"
)

// Precomputed serves metadata an extractor wrote earlier as <dir>/<id>.json.
type Precomputed struct {
	name string
	dir  string
}

// NewPrecomputed returns a backend reading from dir.
func NewPrecomputed(name, dir string) *Precomputed {
	return &Precomputed{name: name, dir: dir}
}

func (p *Precomputed) Name() string { return p.name }

// Path returns the metadata file for a document id.
func (p *Precomputed) Path(id string) string {
	return filepath.Join(p.dir, id+".json")
}

func (p *Precomputed) Extract(ctx context.Context, doc extraction.Document) (metadata.ExtractedMetadata, error) {
	if err := ctx.Err(); err != nil {
		return metadata.ExtractedMetadata{}, err
	}
	data, err := os.ReadFile(p.Path(doc.ID))
	if err != nil {
		return metadata.ExtractedMetadata{}, &Error{Kind: CategoryReadDocument, DocID: doc.ID, Err: err}
	}
	md, err := metadata.Decode(data)
	if err != nil {
		return metadata.ExtractedMetadata{}, &Error{Kind: CategoryBadResponse, DocID: doc.ID, Err: err}
	}
	return md, nil
}
