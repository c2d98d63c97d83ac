// Package backends provides the extraction backends a run can compare.
package backends

import (
	"errors"
	"fmt"

	"github.com/lehigh-university-libraries/metaeval/internal/config"
	"github.com/lehigh-university-libraries/metaeval/internal/extraction"
	"github.com/lehigh-university-libraries/metaeval/internal/gemini"
	"github.com/lehigh-university-libraries/metaeval/internal/ollama"
	"github.com/lehigh-university-libraries/metaeval/internal/openai"
	"github.com/lehigh-university-libraries/metaeval/internal/providers"
)

// Failure categories reported by the backends in this package.
const (
	CategoryReadDocument = "read_document"
	CategoryProvider     = "provider"
	CategoryBadResponse  = "bad_response"
)

// Error is a categorized extraction failure.
type Error struct {
	Kind  string
	DocID string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.DocID, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Category groups the failure for health reporting. Provider failures
// with an HTTP status are split out by code, e.g. "provider_http_429".
func (e *Error) Category() string {
	var se *providers.StatusError
	if e.Kind == CategoryProvider && errors.As(e.Err, &se) {
		return e.Kind + "_" + se.Category()
	}
	return e.Kind
}

// New builds the backend described by cfg.
func New(cfg config.BackendConfig) (extraction.Backend, error) {
	switch cfg.Type {
	case config.BackendPrecomputed:
		return NewPrecomputed(cfg.Name, cfg.Dir), nil
	case config.BackendLLM:
		provider, err := NewProvider(cfg.Provider)
		if err != nil {
			return nil, err
		}
		model := cfg.Model
		if model == "" {
			model = providers.DefaultModel(cfg.Provider)
		}
		return NewLLM(cfg.Name, provider, LLMOptions{
			Model:       model,
			Temperature: cfg.Temperature,
			MaxChars:    cfg.MaxChars,
			Prompt:      cfg.Prompt,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

// NewProvider returns the named LLM provider configured from the environment.
func NewProvider(name string) (providers.Provider, error) {
	switch name {
	case "ollama":
		return ollama.New(), nil
	case "openai":
		return openai.New(), nil
	case "gemini":
		return gemini.New(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}
