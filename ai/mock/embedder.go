package mock

import (
	"context"
	"sync"

	"github.com/forgeqa/caseforge/ai"
)

// MockEmbedder is a test double for ai.Embedder.
// It allows custom behavior injection via function fields.
type MockEmbedder struct {
	// EmbedTextFunc is called by EmbedText if set.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedTextsFunc is called by EmbedTexts if set.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	mu        sync.Mutex
	callCount int
}

var _ ai.Embedder = (*MockEmbedder)(nil)

// NewMockEmbedder creates a mock embedder with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

// EmbedText returns a deterministic vector derived from the text, so that
// identical inputs always embed identically across runs.
func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return deterministicVector(text), nil
}

// EmbedTexts returns deterministic vectors for each text in input order.
func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		result[i] = deterministicVector(text)
	}
	return result, nil
}

// CallCount returns the number of embedding calls made.
func (m *MockEmbedder) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// deterministicVector hashes the text into a small fixed-size vector.
// Not semantically meaningful, but stable and distinct per input.
func deterministicVector(text string) []float32 {
	vec := make([]float32, 8)
	for i, r := range text {
		vec[i%8] += float32(r) / 1000.0
	}
	return vec
}
