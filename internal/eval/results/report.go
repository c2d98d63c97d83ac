package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/metaeval/internal/config"
	"github.com/lehigh-university-libraries/metaeval/internal/eval/metrics"
	"github.com/lehigh-university-libraries/metaeval/internal/extraction"
)

// BackendReport is one backend's extraction statistics and metric averages.
type BackendReport struct {
	Name      string            `yaml:"name" json:"name"`
	Stats     extraction.Stats  `yaml:"stats" json:"stats"`
	Summaries []metrics.Summary `yaml:"summaries" json:"summaries"`
}

// ComparisonSet compares one candidate backend against the baseline.
type ComparisonSet struct {
	Baseline  string               `yaml:"baseline" json:"baseline"`
	Candidate string               `yaml:"candidate" json:"candidate"`
	Rows      []metrics.Comparison `yaml:"rows" json:"rows"`
}

// Report is the scored outcome of one run.
type Report struct {
	RunID       string          `yaml:"run_id" json:"run_id"`
	Timestamp   time.Time       `yaml:"timestamp" json:"timestamp"`
	Config      config.Config   `yaml:"config" json:"-"`
	Backends    []BackendReport `yaml:"backends" json:"backends"`
	Comparisons []ComparisonSet `yaml:"comparisons,omitempty" json:"comparisons,omitempty"`
}

// NewReport starts a report for a run with a fresh run id.
func NewReport(cfg config.Config) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Config:    cfg,
	}
}

// AddBackend appends a backend's results. The first backend added is the
// baseline every later backend is compared against.
func (r *Report) AddBackend(stats extraction.Stats, summaries []metrics.Summary) {
	br := BackendReport{Name: stats.Backend, Stats: stats, Summaries: summaries}
	if len(r.Backends) > 0 {
		base := r.Backends[0]
		r.Comparisons = append(r.Comparisons, ComparisonSet{
			Baseline:  base.Name,
			Candidate: br.Name,
			Rows:      metrics.Compare(base.Summaries, br.Summaries),
		})
	}
	r.Backends = append(r.Backends, br)
}

// SaveToYAML writes the report to path, creating parent directories.
func (r *Report) SaveToYAML(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}

// LoadFromYAML reads a report written by SaveToYAML.
func LoadFromYAML(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report YAML: %w", err)
	}
	return &r, nil
}
