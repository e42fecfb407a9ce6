package mock

import (
	"context"
	"sync"

	"github.com/forgeqa/caseforge/ai"
)

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, Complete returns Responses in order, then the default.
	CompleteFunc func(ctx context.Context, system, user string) (string, error)

	// Responses are returned one per call when CompleteFunc is nil.
	Responses []string

	mu        sync.Mutex
	callCount int
	prompts   []string
}

var _ ai.Completer = (*MockCompleter)(nil)

// NewMockCompleter creates a mock completer with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// Complete records the user prompt and returns the injected behavior,
// the next queued response, or an empty keyed envelope.
func (m *MockCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	m.mu.Lock()
	call := m.callCount
	m.callCount++
	m.prompts = append(m.prompts, user)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, system, user)
	}
	if call < len(m.Responses) {
		return m.Responses[call], nil
	}
	return `{"testCases": []}`, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Prompts returns the user prompts received, in call order.
func (m *MockCompleter) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}
