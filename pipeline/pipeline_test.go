package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgeqa/caseforge/ai/mock"
	"github.com/forgeqa/caseforge/core"
	"github.com/forgeqa/caseforge/index"
	"github.com/forgeqa/caseforge/storage"
)

// Test doubles for the pipeline's collaborators.

type stubLoader struct {
	segments []core.Segment
	err      error
}

func (l *stubLoader) Load(ctx context.Context, req *core.Request) ([]core.Segment, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.segments, nil
}

type stubSplitter struct {
	chunks []*core.Chunk
	err    error
}

func (s *stubSplitter) Split(segments []core.Segment) ([]*core.Chunk, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.chunks, nil
}

type stubIndexer struct {
	ingestErr error
	queryErr  error
	matches   []*storage.ChunkMatch
	queries   []string
	ingested  int
}

func (ix *stubIndexer) Ingest(ctx context.Context, chunks []*core.Chunk) (*index.Handle, error) {
	if ix.ingestErr != nil {
		return nil, ix.ingestErr
	}
	ix.ingested += len(chunks)
	return &index.Handle{Collection: "requirements", Count: len(chunks)}, nil
}

func (ix *stubIndexer) Query(ctx context.Context, query string, limit int) ([]*storage.ChunkMatch, error) {
	ix.queries = append(ix.queries, query)
	if ix.queryErr != nil {
		return nil, ix.queryErr
	}
	return ix.matches, nil
}

func docSegments() []core.Segment {
	return []core.Segment{{Source: "spec.txt", Ordinal: 0, Content: "The system shall support login and logout."}}
}

func docChunks() []*core.Chunk {
	content := "The system shall support login and logout."
	return []*core.Chunk{{
		Id:      core.IDFromContent(content),
		Source:  "spec.txt",
		Ordinal: 0,
		Content: content,
	}}
}

func chunkMatches() []*storage.ChunkMatch {
	return []*storage.ChunkMatch{{Chunk: docChunks()[0], Score: 0.9}}
}

// scriptedCompleter routes completion calls by their system prompt so
// one double can serve extraction, generation, and validation.
func scriptedCompleter(extract, generate, validate func(user string) (string, error)) *mock.MockCompleter {
	c := mock.NewMockCompleter()
	c.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
		switch {
		case strings.Contains(system, "requirements analyst"):
			return extract(user)
		case strings.Contains(system, "QA engineer"):
			return generate(user)
		default:
			return validate(user)
		}
	}
	return c
}

func respond(response string) func(string) (string, error) {
	return func(string) (string, error) { return response, nil }
}

func newTestPipeline(t *testing.T, indexer *stubIndexer, completer *mock.MockCompleter) *Pipeline {
	t.Helper()

	p, err := New(
		&stubLoader{segments: docSegments()},
		&stubSplitter{chunks: docChunks()},
		indexer,
		completer,
	)
	require.NoError(t, err)
	t.Cleanup(p.Release)

	return p
}
