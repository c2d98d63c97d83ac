package evalcmd

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/lehigh-university-libraries/metaeval/internal/eval/metrics"
	"github.com/lehigh-university-libraries/metaeval/internal/eval/results"
)

// executeReport re-renders a saved YAML report.
func executeReport(reportPath, format string, out io.Writer) error {
	report, err := results.LoadFromYAML(reportPath)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}
	return results.Write(report, format, out)
}

// executeListMetrics prints the metric catalog.
func executeListMetrics(out io.Writer) error {
	table := tablewriter.NewWriter(out)
	table.Header("Metric", "Gold file")
	for _, m := range metrics.DefaultRegistry().Metrics() {
		table.Append(m.Name, m.GoldFile)
	}
	return table.Render()
}
