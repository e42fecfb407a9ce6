package ollama

import (
	"context"
	"errors"
	"log/slog"

	"github.com/forgeqa/caseforge/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// Completer implements ai.Completer using Ollama's chat API.
type Completer struct {
	client llms.Model
	logger *slog.Logger
}

// newCompleter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCompleter(config *ai.Config) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := ollama.New(
		ollama.WithServerURL(config.OllamaHost),
		ollama.WithModel(config.OllamaModel),
	)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client: client,
		logger: slog.Default().With("component", "ollama-completer"),
	}, nil
}

// NewCompleter creates a new completer using the provided configuration.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.Config) (ai.Completer, error) {
	return newCompleter(config)
}

// Complete sends a system and user prompt with temperature 0 and JSON mode
// and returns the raw response text.
func (c *Completer) Complete(ctx context.Context, system, user string) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(user)},
		},
	}

	response, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil {
		c.logger.Error("failed to generate content", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		c.logger.Debug("no choices returned from model")
		return "", errors.New("ollama: model returned no choices")
	}

	return response.Choices[0].Content, nil
}
