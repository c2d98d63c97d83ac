package dataset

import "fmt"

// GoldRow is one document's labels from a gold file.
type GoldRow struct {
	DocumentID string
	Labels     []string
}

// goldParquetRow is the on-disk layout of a Parquet gold file
type goldParquetRow struct {
	DocumentID string   `parquet:"doc_id"`
	Labels     []string `parquet:"labels,list"`
}

// GoldFormatError reports a malformed row in a gold file.
type GoldFormatError struct {
	File string
	Line int
	Msg  string
	Err  error
}

func (e *GoldFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s:%d: %s: %v", e.File, e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

func (e *GoldFormatError) Unwrap() error {
	return e.Err
}
