package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/lehigh-university-libraries/metaeval/internal/providers"
)

// Ollama is a provider for Ollama
type Ollama struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a new Ollama provider pointed at OLLAMA_URL (default localhost)
func New() *Ollama {
	ollamaURL := os.Getenv("OLLAMA_URL")
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}
	return &Ollama{
		BaseURL:    ollamaURL,
		HTTPClient: &http.Client{},
	}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Format  string          `json:"format,omitempty"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

// ExtractText sends the prompt to /api/generate and returns the model's response
func (o *Ollama) ExtractText(ctx context.Context, config providers.Config) (string, error) {
	body := generateRequest{
		Model:   config.Model,
		Prompt:  config.Prompt,
		Options: generateOptions{Temperature: config.Temperature},
	}
	if config.JSON {
		body.Format = "json"
	}
	requestBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.BaseURL+"/api/generate", bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return "", &providers.StatusError{Provider: "ollama", StatusCode: resp.StatusCode, Body: string(data)}
	}

	var generated struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	return generated.Response, nil
}
