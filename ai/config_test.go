package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaHost)
	assert.Equal(t, "llama3.2:3b", cfg.OllamaModel)
	assert.Equal(t, "nomic-embed-text", cfg.EmbeddingModel)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, ProviderOllama, cfg.Provider)
	})

	t.Run("with groq provider", func(t *testing.T) {
		cfg := NewConfig(
			WithProvider(ProviderGroq),
			WithGroqAPIKey("gsk_test"),
			WithGroqModel("llama-3.3-70b-versatile"),
		)

		assert.Equal(t, ProviderGroq, cfg.Provider)
		assert.Equal(t, "gsk_test", cfg.GroqAPIKey)
	})

	t.Run("with custom host and models", func(t *testing.T) {
		cfg := NewConfig(
			WithOllamaHost("http://ollama:11434"),
			WithOllamaModel("qwen2.5:3b"),
			WithEmbeddingModel("embeddinggemma"),
		)

		assert.Equal(t, "http://ollama:11434", cfg.OllamaHost)
		assert.Equal(t, "qwen2.5:3b", cfg.OllamaModel)
		assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Validate())
	})

	t.Run("provider name is normalized", func(t *testing.T) {
		cfg := NewConfig(WithProvider(" Ollama "))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, ProviderOllama, cfg.Provider)
	})

	t.Run("trailing slash stripped from host", func(t *testing.T) {
		cfg := NewConfig(WithOllamaHost("http://localhost:11434/"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:11434", cfg.OllamaHost)
	})

	t.Run("groq requires api key", func(t *testing.T) {
		cfg := NewConfig(WithProvider(ProviderGroq))
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown provider rejected", func(t *testing.T) {
		cfg := NewConfig(WithProvider("openai"))
		assert.Error(t, cfg.Validate())
	})

	t.Run("embedding model required", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingModel(""))
		assert.Error(t, cfg.Validate())
	})
}

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"http 429", errTest("API returned 429 Too Many Requests"), "rate_limit"},
		{"rate_limit marker", errTest("groq: rate_limit_exceeded"), "rate_limit"},
		{"spelled out", errTest("Rate Limit reached for model"), "rate_limit"},
		{"generic failure", errTest("connection refused"), "provider_error"},
		{"model error", errTest("model not found"), "provider_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(ClassifyFailure(tt.err)))
		})
	}

	assert.Empty(t, string(ClassifyFailure(nil)))
}

type errTest string

func (e errTest) Error() string { return string(e) }
