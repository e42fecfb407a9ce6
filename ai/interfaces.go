package ai

import "context"

// Completer produces structured JSON completions.
// Implementations must use temperature 0 and constrained JSON output, and
// must be thread-safe for concurrent use.
type Completer interface {
	// Complete sends a system and user prompt to the model and returns the
	// raw response text, which is expected (but not guaranteed) to be JSON.
	// Callers normalize the response with DecodeEnvelope and classify
	// errors with ClassifyFailure.
	Complete(ctx context.Context, system, user string) (string, error)
}

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Provider aggregates the AI services for convenient initialization and
// lifecycle management. Exactly one completion provider is active per
// process, selected by static configuration.
type Provider interface {
	// Completer returns the structured completion service.
	Completer() Completer

	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Close releases resources held by the provider and its services.
	Close() error
}
