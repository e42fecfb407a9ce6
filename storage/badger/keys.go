package badger

import (
	"fmt"

	"github.com/forgeqa/caseforge/core"
)

// Key prefixes for different data types
const (
	chunkPrefix = "chunk"
)

// makeChunkKey generates a key for a chunk by collection and ID.
// Content-derived IDs make writes idempotent: re-indexing the same
// segment overwrites the same key.
func makeChunkKey(collection string, id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d", chunkPrefix, collection, id))
}

// makeCollectionPrefix generates the key prefix covering every chunk
// in a collection.
func makeCollectionPrefix(collection string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", chunkPrefix, collection))
}
