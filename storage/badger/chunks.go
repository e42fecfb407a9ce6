package badger

import (
	"context"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/forgeqa/caseforge/core"
	"github.com/forgeqa/caseforge/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) *ChunkRepository {
	return &ChunkRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *ChunkRepository) Close() error {
	return nil
}

// AddChunks stores one or more chunks in the given collection.
// Keys derive from chunk content, so re-adding an identical chunk
// overwrites its previous copy rather than duplicating it.
func (r *ChunkRepository) AddChunks(ctx context.Context, collection string, chunks ...*core.Chunk) ([]*core.Chunk, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			chunk.InsertedAt = time.Now().UTC()

			key := makeChunkKey(collection, chunk.Id)
			value := storage.MarshalChunk(chunk)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return chunks, err
}

// FindSimilar returns the chunks in the collection most similar to the
// given vector, highest score first, at most limit results.
// Vectors are expected to be normalized, so dot product equals cosine
// similarity.
func (r *ChunkRepository) FindSimilar(ctx context.Context, collection string, vector []float32, limit int) ([]*storage.ChunkMatch, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var matches []*storage.ChunkMatch

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeCollectionPrefix(collection)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var chunk *core.Chunk
			err := item.Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			if chunk == nil || len(chunk.Vector) == 0 {
				continue
			}

			matches = append(matches, &storage.ChunkMatch{
				Chunk: chunk,
				Score: dotProduct(vector, chunk.Vector),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		return nil, storage.ErrEmptyCollection
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}

// CountChunks returns the number of chunks stored in the collection.
func (r *ChunkRepository) CountChunks(ctx context.Context, collection string) (int, error) {
	if r.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}

	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeCollectionPrefix(collection)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)

	return count, err
}

// dotProduct computes the dot product of two vectors.
// Returns 0 if vectors have different lengths.
func dotProduct(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
