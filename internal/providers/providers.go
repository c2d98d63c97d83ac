package providers

import (
	"context"
	"fmt"
	"os"
)

// Config represents the configuration for an LLM provider
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	// JSON asks the provider to constrain its output to a JSON object.
	JSON bool
}

// Provider defines the interface for an LLM provider
type Provider interface {
	ExtractText(ctx context.Context, config Config) (string, error)
}

// DefaultModel returns the model to use for a provider when none is configured.
// The <PROVIDER>_MODEL environment variable takes precedence over the built-in default.
func DefaultModel(provider string) string {
	switch provider {
	case "ollama":
		if model := os.Getenv("OLLAMA_MODEL"); model != "" {
			return model
		}
		return "mistral-small3.2:24b"
	case "openai":
		if model := os.Getenv("OPENAI_MODEL"); model != "" {
			return model
		}
		return "gpt-4o"
	case "gemini":
		if model := os.Getenv("GEMINI_MODEL"); model != "" {
			return model
		}
		return "gemini-1.5-flash"
	}
	return ""
}

// StatusError is returned when a provider API answers with a non-200 status.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Category groups the failure by status code, e.g. "http_429".
func (e *StatusError) Category() string {
	return fmt.Sprintf("http_%d", e.StatusCode)
}
