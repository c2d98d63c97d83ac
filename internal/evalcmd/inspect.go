package evalcmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/lehigh-university-libraries/metaeval/internal/eval/dataset"
	"github.com/lehigh-university-libraries/metaeval/internal/eval/metrics"
)

// executeInspect prints gold rows for a metric (or a gold file stem).
// With interactive set it pauses after each row until Enter is read from in.
func executeInspect(ctx context.Context, goldDir, name string, limit int, interactive bool, in io.Reader, out io.Writer) error {
	stem := name
	if m, ok := metrics.DefaultRegistry().Get(name); ok {
		stem = m.GoldFile
	}

	loader := dataset.NewLoader(goldDir)
	path, err := loader.Path(stem)
	if err != nil {
		return err
	}

	var rows []dataset.GoldRow
	if limit > 0 {
		rows, err = loader.LoadSample(stem, limit)
	} else {
		rows, err = loader.Load(stem, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to load gold data: %w", err)
	}

	fmt.Fprintf(out, "Loaded %d rows from %s\n", len(rows), path)
	fmt.Fprintln(out, strings.Repeat("=", 80))
	fmt.Fprintln(out)

	var lines <-chan struct{}
	if interactive {
		readCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		lines = readLines(readCtx, in)
	}

	for i, row := range rows {
		// Check for context cancellation (e.g., Ctrl+C) at the start of each iteration
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nInspection interrupted.")
			return nil
		default:
		}

		fmt.Fprintf(out, "ROW %d/%d  document=%s  labels=%d\n", i+1, len(rows), row.DocumentID, len(row.Labels))
		fmt.Fprintln(out, strings.Repeat("-", 80))
		for j, label := range row.Labels {
			fmt.Fprintf(out, "  [%d] %s\n", j+1, label)
		}
		fmt.Fprintln(out)

		if interactive {
			fmt.Fprint(out, "Press Enter to continue to next row (or Ctrl+C to quit)...")

			select {
			case <-ctx.Done():
				fmt.Fprintln(out, "\nInspection interrupted.")
				return nil
			case <-lines:
				fmt.Fprintln(out)
			}
		}
	}

	return nil
}

// readLines signals once per line read from in. The channel is closed when in
// is exhausted, so callers stop pausing once input runs out. A single goroutine
// serves the whole inspection and exits once ctx is done and its pending read
// returns.
func readLines(ctx context.Context, in io.Reader) <-chan struct{} {
	lines := make(chan struct{})
	go func() {
		defer close(lines)
		reader := bufio.NewReader(in)
		for {
			if _, err := reader.ReadString('\n'); err != nil {
				return
			}
			select {
			case lines <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
