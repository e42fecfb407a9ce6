package storage

import (
	"context"

	"github.com/forgeqa/caseforge/core"
)

// ChunkMatch is a chunk returned from vector similarity search together
// with its similarity score.
type ChunkMatch struct {
	Chunk *core.Chunk
	Score float32
}

// ChunkRepository provides operations for storing and querying document
// chunks with their embedding vectors. Implementations must be thread-safe.
type ChunkRepository interface {
	// AddChunks stores one or more chunks in the named collection.
	// Chunks must already carry content-derived IDs; re-adding a chunk with
	// the same ID overwrites the stored record. Sets InsertedAt.
	// Returns the stored chunks.
	AddChunks(ctx context.Context, collection string, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// FindSimilar finds chunks in the collection similar to the given
	// vector, up to limit results, ordered by similarity score descending.
	// Chunks without embeddings are skipped.
	FindSimilar(ctx context.Context, collection string, vector []float32, limit int) ([]*ChunkMatch, error)

	// CountChunks returns the number of chunks stored in the collection.
	CountChunks(ctx context.Context, collection string) (int, error)

	// Close closes the repository and releases resources.
	Close() error
}
