// Package diagnostics records the individual items that cost a metric
// precision or recall, so they can be inspected by hand after a run.
package diagnostics

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// ErrorType says which side of the comparison an unmatched item came from.
type ErrorType string

const (
	// PrecisionError is an extracted item that is not in the gold data.
	PrecisionError ErrorType = "precision"
	// RecallError is a gold item the extraction missed.
	RecallError ErrorType = "recall"
)

// Record is a single unmatched item.
type Record struct {
	Backend    string
	Metric     string
	Type       ErrorType
	DocumentID string
	Item       string
}

// Sink receives diagnostic records. Implementations must be safe for concurrent use.
type Sink interface {
	Emit(Record)
}

// Discard drops every record.
var Discard Sink = discard{}

type discard struct{}

func (discard) Emit(r Record) {
	slog.Debug("Unmatched item", "backend", r.Backend, "metric", r.Metric, "type", r.Type, "doc", r.DocumentID, "item", r.Item)
}

// TSVWriter writes records as tab-separated rows. Writes are serialized.
type TSVWriter struct {
	mu     sync.Mutex
	w      *csv.Writer
	closer io.Closer
	err    error
}

// NewTSVWriter wraps w. The header row is written immediately.
func NewTSVWriter(w io.Writer) *TSVWriter {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	t := &TSVWriter{w: cw}
	t.err = cw.Write([]string{"backend", "metric", "error_type", "document_id", "item"})
	if c, ok := w.(io.Closer); ok {
		t.closer = c
	}
	return t
}

// CreateTSVFile creates (or truncates) path, and any missing parent
// directories, and returns a writer for it.
func CreateTSVFile(path string) (*TSVWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create diagnostics directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create diagnostics file: %w", err)
	}
	return NewTSVWriter(f), nil
}

// Emit writes one row. The first write error is kept and returned by Close.
func (t *TSVWriter) Emit(r Record) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return
	}
	t.err = t.w.Write([]string{r.Backend, r.Metric, string(r.Type), r.DocumentID, r.Item})
}

// Close flushes buffered rows and closes the underlying writer if it is closable.
func (t *TSVWriter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.w.Flush()
	if t.err == nil {
		t.err = t.w.Error()
	}
	if t.closer != nil {
		if err := t.closer.Close(); err != nil && t.err == nil {
			t.err = err
		}
	}
	return t.err
}

// Memory keeps records in memory.
type Memory struct {
	mu      sync.Mutex
	records []Record
}

// Emit appends r.
func (m *Memory) Emit(r Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
}

// Records returns a copy of everything emitted so far.
func (m *Memory) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}
