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
	// JSONMode asks the provider to return syntactically valid JSON only
	JSONMode bool
}

// Provider defines the interface for an LLM provider
type Provider interface {
	ExtractText(ctx context.Context, config Config) (string, error)
}

// Factory returns a fresh provider handle. It is called once per request so
// credentials changed in the environment apply to the next call.
type Factory func() (Provider, error)

// Names lists the supported provider identifiers
var Names = []string{"gemini", "openai", "ollama"}

// DefaultModel returns the model used when none is configured
func DefaultModel(provider string) string {
	switch provider {
	case "gemini":
		return getenv("GEMINI_MODEL", "gemini-1.5-pro")
	case "openai":
		return getenv("OPENAI_MODEL", "gpt-4o")
	case "ollama":
		return getenv("OLLAMA_MODEL", "mistral-small3.2:24b")
	default:
		return ""
	}
}

// Validate checks that name is a supported provider
func Validate(name string) error {
	for _, n := range Names {
		if n == name {
			return nil
		}
	}
	return fmt.Errorf("unsupported provider: %s", name)
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
