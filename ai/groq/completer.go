// Copyright 2026 ForgeQA Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package groq implements ai.Completer against Groq's OpenAI-compatible API.
package groq

import (
	"context"
	"errors"
	"log/slog"

	"github.com/forgeqa/caseforge/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// baseURL is Groq's OpenAI-compatible endpoint.
const baseURL = "https://api.groq.com/openai/v1"

// Completer implements ai.Completer using Groq's chat API.
type Completer struct {
	client llms.Model
	logger *slog.Logger
}

// newCompleter is an internal constructor that returns the concrete type.
func newCompleter(config *ai.Config) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.GroqAPIKey == "" {
		return nil, errors.New("groq: API key is required")
	}

	client, err := openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithToken(config.GroqAPIKey),
		openai.WithModel(config.GroqModel),
	)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client: client,
		logger: slog.Default().With("component", "groq-completer"),
	}, nil
}

// NewCompleter creates a new completer using the provided configuration.
// A missing API key fails here, at construction, rather than at call time.
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
		return "", errors.New("groq: model returned no choices")
	}

	return response.Choices[0].Content, nil
}
