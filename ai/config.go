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

package ai

import (
	"errors"
	"strings"
)

// Provider names accepted by Config.Provider.
const (
	ProviderOllama = "ollama"
	ProviderGroq   = "groq"
)

// Config holds configuration for AI service providers.
// Embeddings always come from Ollama; Provider selects which service
// handles completions.
type Config struct {
	// Provider selects the completion backend: "ollama" or "groq".
	Provider string

	// OllamaHost is the base URL of the Ollama server.
	// Example: "http://localhost:11434"
	OllamaHost string

	// OllamaModel is the chat model used when Provider is "ollama".
	// Example: "llama3.2:3b"
	OllamaModel string

	// EmbeddingModel is the Ollama model used for text embeddings.
	// Example: "nomic-embed-text"
	EmbeddingModel string

	// GroqAPIKey authenticates against Groq when Provider is "groq".
	// A missing key is a construction failure, not a runtime one.
	GroqAPIKey string

	// GroqModel is the chat model used when Provider is "groq".
	// Example: "llama-3.3-70b-versatile"
	GroqModel string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithProvider selects the completion backend ("ollama" or "groq").
func WithProvider(name string) ConfigOption {
	return func(c *Config) {
		c.Provider = name
	}
}

// WithOllamaHost sets the Ollama server URL.
func WithOllamaHost(host string) ConfigOption {
	return func(c *Config) {
		c.OllamaHost = host
	}
}

// WithOllamaModel sets the Ollama chat model.
func WithOllamaModel(model string) ConfigOption {
	return func(c *Config) {
		c.OllamaModel = model
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithGroqAPIKey sets the Groq API key.
func WithGroqAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.GroqAPIKey = key
	}
}

// WithGroqModel sets the Groq chat model.
func WithGroqModel(model string) ConfigOption {
	return func(c *Config) {
		c.GroqModel = model
	}
}

// DefaultConfig returns a Config with sensible defaults for a local Ollama
// installation.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderOllama,
		OllamaHost:     "http://localhost:11434",
		OllamaModel:    "llama3.2:3b",
		EmbeddingModel: "nomic-embed-text",
		GroqModel:      "llama-3.3-70b-versatile",
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options. This is the recommended way to create a Config.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithProvider(ai.ProviderGroq),
//	    ai.WithGroqAPIKey(os.Getenv("GROQ_API_KEY")),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form: the provider
// name is lower-cased and trailing slashes are stripped from the host.
func (c *Config) Normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	c.OllamaHost = strings.TrimSuffix(c.OllamaHost, "/")
}

// Validate checks that the configuration is valid and complete for the
// selected provider. It normalizes the configuration first.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Provider {
	case ProviderOllama:
		if c.OllamaModel == "" {
			return errors.New("ai config: OllamaModel is required")
		}
	case ProviderGroq:
		if c.GroqAPIKey == "" {
			return errors.New("ai config: GroqAPIKey is required")
		}
		if c.GroqModel == "" {
			return errors.New("ai config: GroqModel is required")
		}
	default:
		return errors.New("ai config: Provider must be \"ollama\" or \"groq\"")
	}

	if c.OllamaHost == "" {
		return errors.New("ai config: OllamaHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	return nil
}
