package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/lehigh-university-libraries/metaeval/internal/config"
	"github.com/lehigh-university-libraries/metaeval/internal/eval/metrics"
)

// Write renders the report in the given format (text, json or csv).
func Write(r *Report, format string, w io.Writer) error {
	switch format {
	case config.FormatText, "":
		return WriteTable(r, w)
	case config.FormatJSON:
		return WriteJSON(r, w)
	case config.FormatCSV:
		return WriteCSV(r, w)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteJSON encodes the report as indented JSON.
func WriteJSON(r *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// WriteCSV writes one row per backend and metric. Diff columns are relative
// to the baseline backend and are zero for the baseline itself.
func WriteCSV(r *Report, w io.Writer) error {
	writer := csv.NewWriter(w)

	header := []string{"backend", "metric", "precision", "recall", "samples", "precision_diff", "recall_diff"}
	if err := writer.Write(header); err != nil {
		return err
	}

	var baseline map[string]metrics.Summary
	for i, b := range r.Backends {
		if i == 0 {
			baseline = make(map[string]metrics.Summary, len(b.Summaries))
			for _, s := range b.Summaries {
				baseline[s.Metric] = s
			}
		}
		for _, s := range b.Summaries {
			base := baseline[s.Metric]
			row := []string{
				b.Name,
				s.Metric,
				fmt.Sprintf("%.4f", s.Precision),
				fmt.Sprintf("%.4f", s.Recall),
				fmt.Sprintf("%d", s.Samples),
				fmt.Sprintf("%.4f", s.Precision-base.Precision),
				fmt.Sprintf("%.4f", s.Recall-base.Recall),
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteTable renders the extraction table followed by one metrics table per
// comparison, or the lone backend's summaries when there is nothing to compare.
func WriteTable(r *Report, w io.Writer) error {
	fmt.Fprintf(w, "\n=== Metadata Extraction Evaluation (run %s) ===\n\n", r.RunID)
	if err := writeExtractionTable(w, r); err != nil {
		return err
	}

	switch {
	case len(r.Comparisons) > 0:
		for _, c := range r.Comparisons {
			if err := writeComparisonTable(w, c); err != nil {
				return err
			}
		}
	case len(r.Backends) == 1:
		return writeSummaryTable(w, r.Backends[0])
	}
	return nil
}

func writeExtractionTable(w io.Writer, r *Report) error {
	fmt.Fprintf(w, "Extraction\n")
	table := tablewriter.NewWriter(w)
	table.Header("Backend", "Documents", "Failures", "Failure rate", "Docs/s", "Elapsed", "Top causes")

	for _, b := range r.Backends {
		s := b.Stats
		causes := make([]string, 0, len(s.TopCauses))
		for _, c := range s.TopCauses {
			causes = append(causes, fmt.Sprintf("%s=%d", c.Cause, c.Count))
		}
		table.Append(
			b.Name,
			fmt.Sprintf("%d", s.Total),
			fmt.Sprintf("%d", s.Failures),
			fmt.Sprintf("%.2f%%", s.FailureRate*100),
			fmt.Sprintf("%.2f", s.Throughput),
			s.Elapsed.Round(time.Millisecond).String(),
			strings.Join(causes, ", "),
		)
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

func writeSummaryTable(w io.Writer, b BackendReport) error {
	fmt.Fprintf(w, "Metrics: %s\n", b.Name)
	table := tablewriter.NewWriter(w)
	table.Header("Metric", "Precision", "Recall", "Samples")

	for _, s := range b.Summaries {
		table.Append(s.Metric, fmt.Sprintf("%.4f", s.Precision), fmt.Sprintf("%.4f", s.Recall), fmt.Sprintf("%d", s.Samples))
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

func writeComparisonTable(w io.Writer, c ComparisonSet) error {
	fmt.Fprintf(w, "Metrics: %s vs %s\n", c.Candidate, c.Baseline)
	table := tablewriter.NewWriter(w)
	table.Header(
		"Metric",
		c.Baseline+" P", c.Baseline+" R", "N",
		c.Candidate+" P", c.Candidate+" R", "N",
		"ΔP", "ΔR",
	)

	for _, row := range c.Rows {
		table.Append(
			row.Metric,
			fmt.Sprintf("%.4f", row.Baseline.Precision),
			fmt.Sprintf("%.4f", row.Baseline.Recall),
			fmt.Sprintf("%d", row.Baseline.Samples),
			fmt.Sprintf("%.4f", row.Candidate.Precision),
			fmt.Sprintf("%.4f", row.Candidate.Recall),
			fmt.Sprintf("%d", row.Candidate.Samples),
			fmt.Sprintf("%+.4f", row.PrecisionDiff),
			fmt.Sprintf("%+.4f", row.RecallDiff),
		)
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}
