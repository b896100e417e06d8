package importer

import (
	"context"
	"errors"
	"sync"

	"github.com/dadao-education/unicatalog/internal/providers"
)

// fakeProvider answers each call through respond and records the configs it saw
type fakeProvider struct {
	mu      sync.Mutex
	calls   []providers.Config
	respond func(call int, cfg providers.Config) (string, error)
}

func (f *fakeProvider) ExtractText(ctx context.Context, cfg providers.Config) (string, error) {
	f.mu.Lock()
	n := len(f.calls)
	f.calls = append(f.calls, cfg)
	f.mu.Unlock()
	return f.respond(n, cfg)
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeProvider) factory() providers.Factory {
	return func() (providers.Provider, error) {
		return f, nil
	}
}

func respondAlways(text string) func(int, providers.Config) (string, error) {
	return func(int, providers.Config) (string, error) {
		return text, nil
	}
}

func respondSequence(replies ...string) func(int, providers.Config) (string, error) {
	return func(call int, _ providers.Config) (string, error) {
		if call >= len(replies) || replies[call] == "" {
			return "", errors.New("model unavailable")
		}
		return replies[call], nil
	}
}
