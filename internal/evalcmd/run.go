package evalcmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lehigh-university-libraries/metaeval/internal/backends"
	"github.com/lehigh-university-libraries/metaeval/internal/config"
	"github.com/lehigh-university-libraries/metaeval/internal/eval/dataset"
	"github.com/lehigh-university-libraries/metaeval/internal/eval/diagnostics"
	"github.com/lehigh-university-libraries/metaeval/internal/eval/metrics"
	"github.com/lehigh-university-libraries/metaeval/internal/eval/results"
	"github.com/lehigh-university-libraries/metaeval/internal/extraction"
)

// goldSet is the gold data and document set a run scores against.
type goldSet struct {
	registry *metrics.Registry
	records  []metrics.GoldRecord
	docs     []extraction.Document
}

func loadGoldSet(cfg config.Config) (*goldSet, error) {
	reg, err := metrics.DefaultRegistry().Select(cfg.Metrics)
	if err != nil {
		return nil, err
	}

	slog.Info("Loading gold data", "dir", cfg.GoldDir, "files", len(reg.GoldFiles()), "metrics", len(reg.Metrics()))
	records, err := metrics.LoadGold(dataset.NewLoader(cfg.GoldDir), reg)
	if err != nil {
		return nil, err
	}

	ids := metrics.DocumentIDs(records)
	corpus := dataset.Corpus{Dir: cfg.Corpus.Dir, Ext: cfg.Corpus.Ext}
	slog.Info("Gold data loaded", "records", len(records), "documents", len(ids))

	return &goldSet{registry: reg, records: records, docs: corpus.Documents(ids)}, nil
}

func executeRun(ctx context.Context, cfg config.Config, out io.Writer) (err error) {
	gold, err := loadGoldSet(cfg)
	if err != nil {
		return err
	}

	sink := diagnostics.Discard
	if cfg.Output.Diagnostics != "" {
		tsv, createErr := diagnostics.CreateTSVFile(cfg.Output.Diagnostics)
		if createErr != nil {
			return createErr
		}
		defer func() {
			if cerr := tsv.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to write diagnostics: %w", cerr)
			}
		}()
		sink = tsv
	}

	promRegistry := prometheus.NewRegistry()
	orchestrator := extraction.New(cfg.Orchestration(), extraction.WithInstruments(extraction.NewInstruments(promRegistry)))
	if cfg.Output.MetricsOut != "" {
		defer func() {
			if merr := os.MkdirAll(filepath.Dir(cfg.Output.MetricsOut), 0755); merr != nil {
				slog.Error("Failed to create metrics directory", "path", cfg.Output.MetricsOut, "err", merr)
				return
			}
			if werr := prometheus.WriteToTextfile(cfg.Output.MetricsOut, promRegistry); werr != nil {
				slog.Error("Failed to write metrics textfile", "path", cfg.Output.MetricsOut, "err", werr)
			}
		}()
	}

	report := results.NewReport(cfg)
	slog.Info("Starting evaluation run", "run_id", report.RunID, "backends", len(cfg.Backends))

	for _, bc := range cfg.Backends {
		backend, err := backends.New(bc)
		if err != nil {
			return fmt.Errorf("failed to create backend %s: %w", bc.Name, err)
		}

		extracted, stats, err := orchestrator.Run(ctx, backend, gold.docs)
		if err != nil {
			var he *extraction.HealthError
			if errors.As(err, &he) {
				return fmt.Errorf("evaluation aborted: %w", err)
			}
			return err
		}

		summaries, err := metrics.Aggregate(backend.Name(), gold.registry, gold.records, extracted, sink)
		if err != nil {
			return fmt.Errorf("failed to aggregate %s: %w", backend.Name(), err)
		}
		report.AddBackend(stats, summaries)
	}

	if cfg.Output.Report != "" {
		if err := report.SaveToYAML(cfg.Output.Report); err != nil {
			return err
		}
		slog.Info("Report saved", "path", cfg.Output.Report)
	}

	return results.Write(report, cfg.Output.Format, out)
}
