// Package mock provides test double implementations of the ai interfaces.
//
// The mocks allow tests to run without external AI services and enable
// controlled, deterministic behavior via function-field injection.
//
//	m := mock.NewMockCompleter()
//	m.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
//	    return `{"testCases": []}`, nil
//	}
//
// Default behaviors: MockEmbedder returns deterministic vectors derived
// from the text, MockCompleter returns an empty keyed envelope.
package mock
