package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dadao-education/unicatalog/internal/models"
	"github.com/dadao-education/unicatalog/internal/providers"
)

// Normalizer converts one chunk of raw records into university entities by
// delegating to an LLM provider in JSON mode
type Normalizer struct {
	factory     providers.Factory
	model       string
	temperature float64
}

// NormalizeResult is the usable output of one chunk
type NormalizeResult struct {
	Universities []models.University
	// Warnings lists entries that were dropped
	Warnings []string
}

func NewNormalizer(factory providers.Factory, model string, temperature float64) *Normalizer {
	return &Normalizer{
		factory:     factory,
		model:       model,
		temperature: temperature,
	}
}

// Normalize sends the chunk to a fresh provider handle and parses the reply.
// Entries without a nameCN are dropped and reported as warnings.
func (n *Normalizer) Normalize(ctx context.Context, chunk []json.RawMessage) (*NormalizeResult, error) {
	prompt, err := buildPrompt(chunk)
	if err != nil {
		return nil, err
	}

	provider, err := n.factory()
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	text, err := provider.ExtractText(ctx, providers.Config{
		Model:       n.model,
		Temperature: n.temperature,
		Prompt:      prompt,
		JSONMode:    true,
	})
	if err != nil {
		return nil, err
	}

	return parseUniversities(text)
}

func parseUniversities(text string) (*NormalizeResult, error) {
	entries, err := splitEntries(cleanJSON(text))
	if err != nil {
		return nil, err
	}

	result := &NormalizeResult{}
	for i, raw := range entries {
		var u models.University
		if err := json.Unmarshal(raw, &u); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("entry %d dropped: %v", i+1, err))
			continue
		}
		u.NameCN = strings.TrimSpace(u.NameCN)
		if u.NameCN == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("entry %d dropped: missing nameCN", i+1))
			continue
		}
		result.Universities = append(result.Universities, u)
	}
	return result, nil
}

// splitEntries accepts an array, an object wrapping an array under
// "universities" or "data", or a single object
func splitEntries(text string) ([]json.RawMessage, error) {
	data := []byte(text)
	if !json.Valid(data) {
		return nil, fmt.Errorf("response is not valid JSON")
	}

	switch {
	case bytes.HasPrefix(data, []byte("[")):
		var entries []json.RawMessage
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse response array: %w", err)
		}
		return entries, nil
	case bytes.HasPrefix(data, []byte("{")):
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("failed to parse response object: %w", err)
		}
		if _, ok := wrapper["nameCN"]; !ok {
			for _, key := range []string{"universities", "data"} {
				inner := bytes.TrimSpace(wrapper[key])
				if len(inner) > 0 && inner[0] == '[' {
					return splitEntries(string(inner))
				}
			}
		}
		return []json.RawMessage{data}, nil
	default:
		return nil, fmt.Errorf("response is not a JSON object or array")
	}
}

// cleanJSON strips surrounding whitespace and markdown code fences
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}
