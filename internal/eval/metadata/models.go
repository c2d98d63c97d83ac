package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ExtractedMetadata is the bibliographic metadata an extraction backend produced
// for a single document. An empty Title or AbstractText means the backend found none.
type ExtractedMetadata struct {
	Title             string      `json:"title,omitempty"`
	Authors           []string    `json:"authors,omitempty"`
	AbstractText      string      `json:"abstract,omitempty"`
	References        []BibRecord `json:"references,omitempty"`
	ReferenceMentions []Mention   `json:"reference_mentions,omitempty"`
}

// BibRecord is one entry of a document's reference list.
type BibRecord struct {
	Title   string   `json:"title"`
	Authors []string `json:"authors,omitempty"`
	Venue   string   `json:"venue,omitempty"`
	Year    int      `json:"year,omitempty"`
}

// Mention is an in-text citation occurrence. Offsets are rune offsets into Context.
type Mention struct {
	Context     string `json:"context"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
}

// Text returns the cited span of the context. Offsets outside the context are clamped.
func (m Mention) Text() string {
	runes := []rune(m.Context)
	start := clamp(m.StartOffset, 0, len(runes))
	end := clamp(m.EndOffset, start, len(runes))
	return string(runes[start:end])
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Decode parses ExtractedMetadata from JSON. LLM responses often wrap the
// object in a markdown code fence, which is stripped first.
func Decode(data []byte) (ExtractedMetadata, error) {
	var md ExtractedMetadata
	body := stripCodeFence(string(data))
	if err := json.Unmarshal([]byte(body), &md); err != nil {
		return ExtractedMetadata{}, fmt.Errorf("failed to parse metadata JSON: %w", err)
	}
	return md, nil
}

// Load reads ExtractedMetadata from a JSON file.
func Load(path string) (ExtractedMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ExtractedMetadata{}, fmt.Errorf("failed to read metadata file: %w", err)
	}
	return Decode(data)
}

// Save writes ExtractedMetadata to a JSON file.
func Save(path string, md ExtractedMetadata) error {
	data, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}
	return nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
