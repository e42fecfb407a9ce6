// Package providers performs the static provider selection for the ai
// services. Exactly one completion backend is active per process; embeddings
// always come from Ollama regardless of which backend handles completions.
package providers

import (
	"fmt"
	"log/slog"

	"github.com/forgeqa/caseforge/ai"
	"github.com/forgeqa/caseforge/ai/groq"
	"github.com/forgeqa/caseforge/ai/ollama"
)

// Provider implements ai.Provider by composing the configured completer
// with the shared Ollama embedder.
type Provider struct {
	config    *ai.Config
	completer ai.Completer
	embedder  ai.Embedder
	logger    *slog.Logger
}

var _ ai.Provider = (*Provider)(nil)

// New creates an ai.Provider from the configuration. The completion backend
// is selected by config.Provider; construction failures (unknown provider,
// missing credentials, unreachable host URL) are fatal and returned here.
func New(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		completer ai.Completer
		err       error
	)
	switch config.Provider {
	case ai.ProviderOllama:
		completer, err = ollama.NewCompleter(config)
	case ai.ProviderGroq:
		completer, err = groq.NewCompleter(config)
	default:
		return nil, fmt.Errorf("ai provider: unknown provider %q", config.Provider)
	}
	if err != nil {
		return nil, err
	}

	embedder, err := ollama.NewEmbedder(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:    config,
		completer: completer,
		embedder:  embedder,
		logger:    slog.Default().With("component", "ai-provider", "provider", config.Provider),
	}, nil
}

// Completer returns the structured completion service.
func (p *Provider) Completer() ai.Completer {
	return p.completer
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing AI provider")
	return nil
}
