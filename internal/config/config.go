// Package config loads the YAML file describing an evaluation run.
package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/metaeval/internal/extraction"
)

// Backend types.
const (
	BackendPrecomputed = "precomputed"
	BackendLLM         = "llm"
)

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Config describes one evaluation run.
type Config struct {
	GoldDir    string           `yaml:"gold_dir"`
	Corpus     CorpusConfig     `yaml:"corpus"`
	Backends   []BackendConfig  `yaml:"backends"`
	Metrics    []string         `yaml:"metrics,omitempty"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Output     OutputConfig     `yaml:"output"`
}

// CorpusConfig locates the source documents.
type CorpusConfig struct {
	Dir string `yaml:"dir"`
	Ext string `yaml:"ext"`
}

// BackendConfig configures one extraction backend.
type BackendConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	// precomputed
	Dir string `yaml:"dir,omitempty"`

	// llm
	Provider    string  `yaml:"provider,omitempty"`
	Model       string  `yaml:"model,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty"`
	MaxChars    int     `yaml:"max_chars,omitempty"`
	Prompt      string  `yaml:"prompt,omitempty"`
}

// ExtractionConfig holds orchestration and health gate settings.
type ExtractionConfig struct {
	Concurrency     int           `yaml:"concurrency"`
	ProgressEvery   int           `yaml:"progress_every"`
	DocumentTimeout time.Duration `yaml:"document_timeout"`
	MinThroughput   float64       `yaml:"min_throughput"`
	MaxFailureRate  float64       `yaml:"max_failure_rate"`
	TopFailures     int           `yaml:"top_failures"`
}

// OutputConfig names the optional run artifacts.
type OutputConfig struct {
	Format      string `yaml:"format"`
	Report      string `yaml:"report,omitempty"`
	Diagnostics string `yaml:"diagnostics,omitempty"`
	MetricsOut  string `yaml:"metrics_out,omitempty"`
}

// Default returns a configuration with every default applied and no backends.
func Default() Config {
	return Config{
		Corpus: CorpusConfig{Ext: ".pdf"},
		Extraction: ExtractionConfig{
			Concurrency:     runtime.NumCPU(),
			ProgressEvery:   50,
			DocumentTimeout: 2 * time.Minute,
			MinThroughput:   0.1,
			MaxFailureRate:  0.05,
			TopFailures:     5,
		},
		Output: OutputConfig{Format: FormatText},
	}
}

// LoadFromFile reads and validates a run file.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validProviders = map[string]bool{
	"ollama": true,
	"openai": true,
	"gemini": true,
}

// Validate checks that the configuration describes a runnable evaluation.
func (c Config) Validate() error {
	if c.GoldDir == "" {
		return fmt.Errorf("gold_dir is required")
	}
	if len(c.Backends) == 0 {
		return fmt.Errorf("at least one backend is required")
	}

	seen := make(map[string]bool, len(c.Backends))
	for i, b := range c.Backends {
		if b.Name == "" {
			return fmt.Errorf("backend at index %d has no name", i)
		}
		if seen[b.Name] {
			return fmt.Errorf("duplicate backend name %q", b.Name)
		}
		seen[b.Name] = true

		switch b.Type {
		case BackendPrecomputed:
			if b.Dir == "" {
				return fmt.Errorf("backend %q: precomputed backends need a dir", b.Name)
			}
		case BackendLLM:
			if !validProviders[b.Provider] {
				return fmt.Errorf("backend %q has invalid provider %q (supported: ollama, openai, gemini)", b.Name, b.Provider)
			}
			if c.Corpus.Dir == "" {
				return fmt.Errorf("backend %q: llm backends need corpus.dir", b.Name)
			}
		default:
			return fmt.Errorf("backend %q has invalid type %q (supported: %s, %s)", b.Name, b.Type, BackendPrecomputed, BackendLLM)
		}
	}

	e := c.Extraction
	if e.Concurrency <= 0 {
		return fmt.Errorf("extraction.concurrency must be positive")
	}
	if e.MinThroughput < 0 {
		return fmt.Errorf("extraction.min_throughput must not be negative")
	}
	if e.MaxFailureRate < 0 || e.MaxFailureRate > 1 {
		return fmt.Errorf("extraction.max_failure_rate must be between 0 and 1")
	}

	switch c.Output.Format {
	case FormatText, FormatJSON, FormatCSV:
	default:
		return fmt.Errorf("invalid output format %q (supported: text, json, csv)", c.Output.Format)
	}
	return nil
}

// Orchestration returns the extraction settings in orchestrator form.
func (c Config) Orchestration() extraction.Config {
	return extraction.Config{
		Concurrency:     c.Extraction.Concurrency,
		ProgressEvery:   c.Extraction.ProgressEvery,
		DocumentTimeout: c.Extraction.DocumentTimeout,
		Health: extraction.HealthConfig{
			MinThroughput:  c.Extraction.MinThroughput,
			MaxFailureRate: c.Extraction.MaxFailureRate,
			TopFailures:    c.Extraction.TopFailures,
		},
	}
}
