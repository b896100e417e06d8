package importer

import (
	"github.com/dadao-education/unicatalog/internal/gemini"
	"github.com/dadao-education/unicatalog/internal/ollama"
	"github.com/dadao-education/unicatalog/internal/openai"
	"github.com/dadao-education/unicatalog/internal/providers"
)

// ProviderFactory maps a provider name to a factory returning a new handle
// per call
func ProviderFactory(name string) (providers.Factory, error) {
	if err := providers.Validate(name); err != nil {
		return nil, err
	}
	return func() (providers.Provider, error) {
		switch name {
		case "openai":
			return openai.New(), nil
		case "ollama":
			return ollama.New(), nil
		default:
			return gemini.New(), nil
		}
	}, nil
}
