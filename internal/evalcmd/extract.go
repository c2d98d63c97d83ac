package evalcmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/metaeval/internal/backends"
	"github.com/lehigh-university-libraries/metaeval/internal/config"
	"github.com/lehigh-university-libraries/metaeval/internal/eval/metadata"
	"github.com/lehigh-university-libraries/metaeval/internal/extraction"
)

// executeExtract runs one backend over the gold document set and saves each
// successful result as <outputDir>/<id>.json, the layout the precomputed
// backend reads. Results are saved even when the health gate fails.
func executeExtract(ctx context.Context, cfg config.Config, backendName, outputDir string) error {
	var bc *config.BackendConfig
	for i := range cfg.Backends {
		if cfg.Backends[i].Name == backendName {
			bc = &cfg.Backends[i]
		}
	}
	if bc == nil {
		return fmt.Errorf("no backend named %q in config", backendName)
	}

	gold, err := loadGoldSet(cfg)
	if err != nil {
		return err
	}

	backend, err := backends.New(*bc)
	if err != nil {
		return fmt.Errorf("failed to create backend %s: %w", bc.Name, err)
	}

	extracted, stats, runErr := extraction.New(cfg.Orchestration()).Run(ctx, backend, gold.docs)
	var he *extraction.HealthError
	if runErr != nil && !errors.As(runErr, &he) {
		return runErr
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	saved := 0
	for id, result := range extracted {
		if !result.OK() {
			continue
		}
		if err := metadata.Save(filepath.Join(outputDir, id+".json"), result.Metadata); err != nil {
			return err
		}
		saved++
	}

	slog.Info("Extraction saved", "backend", backend.Name(), "output", outputDir, "saved", saved, "failures", stats.Failures)
	return runErr
}
