package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/option"

	"github.com/lehigh-university-libraries/metaeval/internal/providers"
)

// Gemini is a provider for Google Gemini
type Gemini struct {
	APIKey string
	// ClientOptions are appended after the API key, e.g. to point at a test endpoint.
	ClientOptions []option.ClientOption
}

// New returns a new Gemini provider using GEMINI_API_KEY
func New() *Gemini {
	return &Gemini{APIKey: os.Getenv("GEMINI_API_KEY")}
}

// ExtractText sends the prompt to the configured model and returns the text of the first candidate
func (g *Gemini) ExtractText(ctx context.Context, config providers.Config) (string, error) {
	if g.APIKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	opts := append([]option.ClientOption{option.WithAPIKey(g.APIKey)}, g.ClientOptions...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	resp, err := configureModel(client.GenerativeModel(config.Model), config).GenerateContent(ctx, genai.Text(config.Prompt))
	if err != nil {
		return "", statusError(err)
	}
	return responseText(resp)
}

func configureModel(model *genai.GenerativeModel, config providers.Config) *genai.GenerativeModel {
	model.SetTemperature(float32(config.Temperature))
	if config.JSON {
		model.ResponseMIMEType = "application/json"
	}
	return model
}

// statusError converts API errors carrying an HTTP status into a
// providers.StatusError so failures group the same way as other providers.
func statusError(err error) error {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPCode() > 0 {
		return &providers.StatusError{Provider: "gemini", StatusCode: apiErr.HTTPCode(), Body: apiErr.Error()}
	}
	return fmt.Errorf("failed to generate content: %w", err)
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini (finish reason %s)", candidate.FinishReason)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("unexpected response format from Gemini")
	}
	return sb.String(), nil
}
