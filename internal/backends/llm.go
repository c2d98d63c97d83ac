package backends

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lehigh-university-libraries/metaeval/internal/eval/metadata"
	"github.com/lehigh-university-libraries/metaeval/internal/extraction"
	"github.com/lehigh-university-libraries/metaeval/internal/providers"
)

const defaultMaxChars = 60000

// LLMOptions configures an LLM backend.
type LLMOptions struct {
	Model       string
	Temperature float64
	// MaxChars truncates the document text before prompting. Zero uses the default.
	MaxChars int
	// Prompt replaces the built-in instructions. The document text is appended.
	Prompt string
}

// LLM asks a language model to extract metadata from a document's text.
type LLM struct {
	name     string
	provider providers.Provider
	opts     LLMOptions
}

// NewLLM returns a backend that prompts provider.
func NewLLM(name string, provider providers.Provider, opts LLMOptions) *LLM {
	if opts.MaxChars <= 0 {
		opts.MaxChars = defaultMaxChars
	}
	return &LLM{name: name, provider: provider, opts: opts}
}

func (l *LLM) Name() string { return l.name }

func (l *LLM) Extract(ctx context.Context, doc extraction.Document) (metadata.ExtractedMetadata, error) {
	text, err := os.ReadFile(doc.Path)
	if err != nil {
		return metadata.ExtractedMetadata{}, &Error{Kind: CategoryReadDocument, DocID: doc.ID, Err: err}
	}

	prompt := l.buildPrompt(truncateRunes(string(text), l.opts.MaxChars))
	response, err := l.provider.ExtractText(ctx, providers.Config{
		Model:       l.opts.Model,
		Temperature: l.opts.Temperature,
		Prompt:      prompt,
		JSON:        true,
	})
	if err != nil {
		if ctx.Err() != nil {
			return metadata.ExtractedMetadata{}, fmt.Errorf("%s: %w", doc.ID, ctx.Err())
		}
		return metadata.ExtractedMetadata{}, &Error{Kind: CategoryProvider, DocID: doc.ID, Err: err}
	}

	md, err := metadata.Decode([]byte(response))
	if err != nil {
		slog.Debug("Unparseable model response", "backend", l.name, "doc", doc.ID, "response", response)
		return metadata.ExtractedMetadata{}, &Error{Kind: CategoryBadResponse, DocID: doc.ID, Err: err}
	}
	return md, nil
}

// buildPrompt generates the metadata extraction prompt for a document
func (l *LLM) buildPrompt(text string) string {
	instructions := l.opts.Prompt
	if instructions == "" {
		instructions = defaultInstructions
	}
	return fmt.Sprintf("%s\n\nDOCUMENT TEXT:\n%s", instructions, text)
}

const defaultInstructions = `You are an expert research librarian extracting bibliographic metadata from the full text of a scholarly article.

Return ONLY a JSON object with these keys:
- "title": the article title, exactly as printed
- "authors": the article authors' full names, in order
- "abstract": the abstract text, or "" if there is none
- "references": the reference list, one object per entry with "title", "authors" (array of names), "venue" and "year" (integer, 0 if unknown)
- "reference_mentions": in-text citations, one object per occurrence with "context" (the sentence containing the citation), "start_offset" and "end_offset" (character offsets of the citation marker within context)

Copy text verbatim. Do not correct spelling, expand abbreviations or invent missing values.`

func truncateRunes(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n]))
}
