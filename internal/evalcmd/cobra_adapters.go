package evalcmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/metaeval/internal/config"
)

// runFlags are the command-line overrides for values in the run file.
type runFlags struct {
	configPath     string
	goldDir        string
	metrics        []string
	concurrency    int
	minThroughput  float64
	maxFailureRate float64
	format         string
	report         string
	diagnostics    string
	metricsOut     string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "metaeval.yaml", "Path to the YAML run file")
	cmd.Flags().StringVar(&f.goldDir, "gold-dir", "", "Directory of gold files (overrides gold_dir)")
	cmd.Flags().StringSliceVar(&f.metrics, "metric", nil, "Only evaluate these metrics (repeatable)")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "Documents extracted in parallel (overrides extraction.concurrency)")
	cmd.Flags().Float64Var(&f.minThroughput, "min-throughput", 0, "Minimum documents per second before the run is aborted")
	cmd.Flags().Float64Var(&f.maxFailureRate, "max-failure-rate", 0, "Maximum fraction of failed extractions before the run is aborted")
	cmd.Flags().StringVar(&f.format, "format", "", "Output format: text, json, or csv")
	cmd.Flags().StringVar(&f.report, "report", "", "Write the YAML run report to this path")
	cmd.Flags().StringVar(&f.diagnostics, "diagnostics", "", "Write unmatched items as TSV to this path")
	cmd.Flags().StringVar(&f.metricsOut, "metrics-out", "", "Write Prometheus extraction metrics to this textfile")
}

// load reads the run file and applies every flag the user set.
func (f *runFlags) load(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.LoadFromFile(f.configPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("gold-dir") {
		cfg.GoldDir = f.goldDir
	}
	if flags.Changed("metric") {
		cfg.Metrics = f.metrics
	}
	if flags.Changed("concurrency") {
		cfg.Extraction.Concurrency = f.concurrency
	}
	if flags.Changed("min-throughput") {
		cfg.Extraction.MinThroughput = f.minThroughput
	}
	if flags.Changed("max-failure-rate") {
		cfg.Extraction.MaxFailureRate = f.maxFailureRate
	}
	if flags.Changed("format") {
		cfg.Output.Format = f.format
	}
	if flags.Changed("report") {
		cfg.Output.Report = f.report
	}
	if flags.Changed("diagnostics") {
		cfg.Output.Diagnostics = f.diagnostics
	}
	if flags.Changed("metrics-out") {
		cfg.Output.MetricsOut = f.metricsOut
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Score every configured backend against the gold data",
		Long: `Run each configured extraction backend over the documents named in the gold data,
score the extracted metadata per metric and print per-metric average precision and recall.

The first backend is the baseline; every other backend is compared against it.
The run aborts if any backend is slower than --min-throughput documents per second
or fails on more than --max-failure-rate of the documents.`,
		Example: `  # Compare the backends in metaeval.yaml
  metaeval eval run --config metaeval.yaml

  # Only title metrics, CSV output, keep the unmatched items for review
  metaeval eval run --metric title --metric titleNormalized --format csv --diagnostics errors.tsv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			return executeRun(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	flags.register(cmd)
	return cmd
}

// NewExtractCmd creates the extract command
func NewExtractCmd() *cobra.Command {
	var flags runFlags
	var backendName string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Run one backend and save its metadata as JSON per document",
		Long: `Run a single configured backend over the gold document set and save each
successful extraction to <output>/<document id>.json.

The output directory can be scored later with a "precomputed" backend, so slow
or paid backends only need to run once.`,
		Example: `  metaeval eval extract --config metaeval.yaml --backend gpt --output ./out/gpt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			return executeExtract(cmd.Context(), cfg, backendName, outputDir)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&backendName, "backend", "", "Name of the backend to run (required)")
	cmd.Flags().StringVar(&outputDir, "output", "", "Directory to write JSON files to (required)")
	_ = cmd.MarkFlagRequired("backend")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// NewMetricsCmd creates the metrics command
func NewMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List the available metrics and their gold files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeListMetrics(cmd.OutOrStdout())
		},
	}
}

// NewReportCmd creates the report command
func NewReportCmd() *cobra.Command {
	var reportPath string
	var format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a saved YAML run report",
		Example: `  metaeval eval report --results runs/2024-06-01.yaml --format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeReport(reportPath, format, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&reportPath, "results", "", "Path to a YAML report written by eval run (required)")
	cmd.Flags().StringVar(&format, "format", config.FormatText, "Output format: text, json, or csv")
	_ = cmd.MarkFlagRequired("results")
	return cmd
}

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var goldDir string
	var limit int
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect <metric|gold file>",
		Short: "Inspect gold rows (useful for checking label formatting)",
		Args:  cobra.ExactArgs(1),
		Example: `  # First 5 bibliography rows, one at a time
  metaeval eval inspect bibAll --gold-dir ./gold --limit 5 --interactive

  # Every row of mentions.tsv
  metaeval eval inspect mentions --gold-dir ./gold --limit 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeInspect(cmd.Context(), goldDir, args[0], limit, interactive, os.Stdin, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&goldDir, "gold-dir", "gold", "Directory of gold files")
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of rows to inspect (0 for all)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Pause after each row (press Enter to continue)")
	return cmd
}
