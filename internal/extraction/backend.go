// Package extraction runs metadata extraction backends over a document
// corpus and decides whether the run was healthy enough to score.
package extraction

import (
	"context"
	"time"

	"github.com/lehigh-university-libraries/metaeval/internal/eval/metadata"
)

// Document is a handle to one corpus document.
type Document struct {
	ID   string
	Path string
}

// Backend extracts metadata from a document. Extract is called concurrently
// for distinct documents.
type Backend interface {
	Name() string
	Extract(ctx context.Context, doc Document) (metadata.ExtractedMetadata, error)
}

// Result is the outcome of one extraction attempt: metadata or a captured error.
type Result struct {
	Metadata metadata.ExtractedMetadata
	Err      error
	Duration time.Duration
}

// OK reports whether extraction succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}
