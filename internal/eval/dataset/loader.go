package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Supported gold file extensions, in lookup order.
var goldExtensions = []string{".tsv", ".parquet"}

// Loader reads gold files from a directory
type Loader struct {
	dir string
}

// NewLoader creates a new gold data loader
func NewLoader(dir string) *Loader {
	return &Loader{
		dir: dir,
	}
}

// Path returns the gold file for stem, preferring TSV over Parquet.
func (l *Loader) Path(stem string) (string, error) {
	for _, ext := range goldExtensions {
		path := filepath.Join(l.dir, stem+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no gold file for %s in %s: %w", stem, l.dir, fs.ErrNotExist)
}

// Load reads every row of the gold file named by stem. validate, when not
// nil, is applied to each row's labels and any failure aborts the load.
func (l *Loader) Load(stem string, validate func([]string) error) ([]GoldRow, error) {
	return l.load(stem, validate, 0)
}

// LoadSample reads at most limit rows (useful for inspection)
func (l *Loader) LoadSample(stem string, limit int) ([]GoldRow, error) {
	return l.load(stem, nil, limit)
}

func (l *Loader) load(stem string, validate func([]string) error, limit int) ([]GoldRow, error) {
	path, err := l.Path(stem)
	if err != nil {
		return nil, err
	}

	rows := &rowCollector{file: path, validate: validate, limit: limit, seen: make(map[string]int)}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		err = loadParquet(path, rows)
	default:
		err = loadTSV(path, rows)
	}
	if err != nil {
		return nil, err
	}

	slog.Debug("Loaded gold file", "path", path, "rows", len(rows.rows))
	return rows.rows, nil
}

var errLimitReached = errors.New("row limit reached")

// rowCollector applies the checks shared by every gold file format.
type rowCollector struct {
	file     string
	validate func([]string) error
	limit    int
	seen     map[string]int
	rows     []GoldRow
}

func (c *rowCollector) add(line int, id string, labels []string) error {
	if id == "" {
		return &GoldFormatError{File: c.file, Line: line, Msg: "empty document id"}
	}
	if len(labels) == 0 {
		return &GoldFormatError{File: c.file, Line: line, Msg: fmt.Sprintf("document %s has no labels", id)}
	}
	if prev, ok := c.seen[id]; ok {
		return &GoldFormatError{File: c.file, Line: line, Msg: fmt.Sprintf("duplicate document id %s (first seen on line %d)", id, prev)}
	}
	if c.validate != nil {
		if err := c.validate(labels); err != nil {
			return &GoldFormatError{File: c.file, Line: line, Msg: "invalid labels", Err: err}
		}
	}
	c.seen[id] = line
	c.rows = append(c.rows, GoldRow{DocumentID: id, Labels: labels})
	if c.limit > 0 && len(c.rows) >= c.limit {
		return errLimitReached
	}
	return nil
}

// loadTSV reads "id<TAB>label<TAB>label..." lines
func loadTSV(path string, rows *rowCollector) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open gold file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)

	// Abstracts and reference lists make for long lines
	const maxCapacity = 10 * 1024 * 1024 // 10MB per line
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return &GoldFormatError{File: path, Line: lineNum, Msg: "expected a document id followed by at least one tab-separated label"}
		}
		if err := rows.add(lineNum, fields[0], fields[1:]); err != nil {
			if errors.Is(err, errLimitReached) {
				return nil
			}
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading gold file: %w", err)
	}
	return nil
}

// loadParquet reads doc_id/labels rows. Row numbers stand in for line numbers.
func loadParquet(path string, rows *rowCollector) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened successfully", "path", path, "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[goldParquetRow](pf)
	defer reader.Close()

	batch := make([]goldParquetRow, 128)
	rowNum := 0
	for {
		n, err := reader.Read(batch)
		for _, r := range batch[:n] {
			rowNum++
			if addErr := rows.add(rowNum, r.DocumentID, r.Labels); addErr != nil {
				if errors.Is(addErr, errLimitReached) {
					return nil
				}
				return addErr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
}
