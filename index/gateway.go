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

package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/forgeqa/caseforge/ai"
	"github.com/forgeqa/caseforge/core"
	"github.com/forgeqa/caseforge/storage"
)

const (
	defaultCollection = "requirements"
	defaultBatchSize  = 1
	defaultMaxRetries = 3
	defaultBaseDelay  = 2 * time.Second
	defaultCooldown   = 500 * time.Millisecond
	defaultQueryLimit = 5
)

// Handle describes an indexed document set.
type Handle struct {
	// Collection is the name of the collection the chunks were stored in.
	Collection string
	// Count is the number of chunks indexed by this call.
	Count int
}

// Gateway embeds chunks and stores them in a vector-searchable
// collection. Construct with NewGateway.
type Gateway struct {
	repo       storage.ChunkRepository
	embedder   ai.Embedder
	collection string
	batchSize  int
	maxRetries int
	baseDelay  time.Duration
	cooldown   time.Duration
	logger     *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway) error

// WithCollection sets the collection name chunks are stored in. Names
// may not contain ':', which delimits collection key prefixes in the
// store; a name like "a:b" would alias keys under collection "a".
func WithCollection(name string) Option {
	return func(g *Gateway) error {
		if name == "" {
			return fmt.Errorf("collection name cannot be empty")
		}
		if strings.ContainsRune(name, ':') {
			return fmt.Errorf("collection name %q cannot contain ':'", name)
		}
		g.collection = name
		return nil
	}
}

// WithBatchSize sets the number of chunks embedded and stored per batch.
func WithBatchSize(n int) Option {
	return func(g *Gateway) error {
		if n <= 0 {
			return fmt.Errorf("batch size must be positive, got %d", n)
		}
		g.batchSize = n
		return nil
	}
}

// WithMaxRetries sets how many attempts each batch gets before the
// ingest fails.
func WithMaxRetries(n int) Option {
	return func(g *Gateway) error {
		if n <= 0 {
			return ErrInvalidMaxAttempts
		}
		g.maxRetries = n
		return nil
	}
}

// WithBaseDelay sets the delay after the first failed attempt. The nth
// failure waits n times this delay.
func WithBaseDelay(d time.Duration) Option {
	return func(g *Gateway) error {
		if d < 0 {
			return fmt.Errorf("base delay cannot be negative")
		}
		g.baseDelay = d
		return nil
	}
}

// WithCooldown sets the pause between successive batches.
func WithCooldown(d time.Duration) Option {
	return func(g *Gateway) error {
		if d < 0 {
			return fmt.Errorf("cooldown cannot be negative")
		}
		g.cooldown = d
		return nil
	}
}

// WithLogger sets the logger used by the gateway.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		g.logger = logger
		return nil
	}
}

// NewGateway creates a Gateway over the given repository and embedder.
func NewGateway(repo storage.ChunkRepository, embedder ai.Embedder, opts ...Option) (*Gateway, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository cannot be nil")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder cannot be nil")
	}

	g := &Gateway{
		repo:       repo,
		embedder:   embedder,
		collection: defaultCollection,
		batchSize:  defaultBatchSize,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		cooldown:   defaultCooldown,
		logger:     slog.Default().With("component", "index"),
	}

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// Collection returns the collection name the gateway writes to.
func (g *Gateway) Collection() string {
	return g.collection
}

// Ingest embeds the chunks and stores them in the gateway's collection.
// Chunks are processed in small batches; each batch is retried on
// failure with a linearly growing delay, and a short cooldown separates
// successive batches. An empty input is a no-op and returns a Handle
// with Count 0.
//
// Re-ingesting identical content is idempotent: chunk keys derive from
// content, so existing records are overwritten in place.
func (g *Gateway) Ingest(ctx context.Context, chunks []*core.Chunk) (*Handle, error) {
	handle := &Handle{Collection: g.collection}
	if len(chunks) == 0 {
		g.logger.Warn("no chunks to index")
		return handle, nil
	}

	total := (len(chunks) + g.batchSize - 1) / g.batchSize

	for i := 0; i < len(chunks); i += g.batchSize {
		end := i + g.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[i:end]
		batchNum := i/g.batchSize + 1

		err := retryLinear(ctx, func() error {
			return g.indexBatch(ctx, batch)
		}, g.maxRetries, g.baseDelay)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return handle, err
			}
			return handle, fmt.Errorf("%w: batch %d of %d failed after %d attempts: %v",
				ErrIndexUnavailable, batchNum, total, g.maxRetries, err)
		}

		handle.Count += len(batch)
		g.logger.Debug("indexed batch", "batch", batchNum, "total", total, "chunks", len(batch))

		// Pause between batches to avoid overwhelming the embedding server.
		if end < len(chunks) && g.cooldown > 0 {
			timer := time.NewTimer(g.cooldown)
			select {
			case <-ctx.Done():
				timer.Stop()
				return handle, ctx.Err()
			case <-timer.C:
			}
		}
	}

	g.logger.Info("indexing complete", "collection", g.collection, "chunks", handle.Count)
	return handle, nil
}

// indexBatch embeds and stores a single batch of chunks.
func (g *Gateway) indexBatch(ctx context.Context, batch []*core.Chunk) error {
	for _, chunk := range batch {
		vector, err := g.embedder.EmbedText(ctx, chunk.Content)
		if err != nil {
			return fmt.Errorf("embedding chunk %d: %w", chunk.Ordinal, err)
		}
		chunk.Vector = NormalizeVector(vector)
	}

	if _, err := g.repo.AddChunks(ctx, g.collection, batch...); err != nil {
		return fmt.Errorf("storing batch: %w", err)
	}
	return nil
}

// Query embeds the query text and returns the most similar chunks,
// best match first. If limit is not positive, the default of 5 is
// used. An empty collection yields an empty result, not an error.
func (g *Gateway) Query(ctx context.Context, query string, limit int) ([]*storage.ChunkMatch, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	vector, err := g.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	matches, err := g.repo.FindSimilar(ctx, g.collection, NormalizeVector(vector), limit)
	if err != nil {
		if errors.Is(err, storage.ErrEmptyCollection) {
			return nil, nil
		}
		return nil, err
	}

	return matches, nil
}

// Count returns the number of chunks currently stored in the
// gateway's collection.
func (g *Gateway) Count(ctx context.Context) (int, error) {
	return g.repo.CountChunks(ctx, g.collection)
}
