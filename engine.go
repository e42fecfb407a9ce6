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

// Package caseforge wires the storage, AI, index, and pipeline layers
// into one engine that turns requirements documents into validated QA
// test cases.
package caseforge

import (
	"context"
	"log/slog"

	"github.com/forgeqa/caseforge/ai"
	"github.com/forgeqa/caseforge/ai/providers"
	"github.com/forgeqa/caseforge/core"
	"github.com/forgeqa/caseforge/index"
	"github.com/forgeqa/caseforge/ingest"
	"github.com/forgeqa/caseforge/pipeline"
	"github.com/forgeqa/caseforge/storage"
	"github.com/forgeqa/caseforge/storage/badger"
)

// Engine owns the wired subsystems for one process: the on-disk chunk
// store, the AI provider, the similarity index gateway, and the
// pipeline built on top of them.
type Engine struct {
	backend  *badger.Backend
	repo     storage.ChunkRepository
	provider ai.Provider
	gateway  *index.Gateway
	pipe     *pipeline.Pipeline
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig   *ai.Config
	collection string
	inMemory   bool
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(cfg *ai.Config) EngineOption {
	return func(o *engineOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithCollection sets the index collection name.
func WithCollection(name string) EngineOption {
	return func(o *engineOptions) {
		if name != "" {
			o.collection = name
		}
	}
}

// WithInMemory stores chunks in memory instead of on disk. Intended
// for tests; the index does not survive a restart.
func WithInMemory() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// NewEngine opens the chunk store at filePath and wires the pipeline.
// AI provider construction failures (unknown provider, missing
// credentials) are fatal and returned here.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig:   ai.DefaultConfig(),
		collection: "requirements",
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	repo := badger.NewChunkRepository(backend)

	provider, err := providers.New(options.aiConfig)
	if err != nil {
		repo.Close()
		backend.Close()
		return nil, err
	}

	gateway, err := index.NewGateway(repo, provider.Embedder(), index.WithCollection(options.collection))
	if err != nil {
		provider.Close()
		repo.Close()
		backend.Close()
		return nil, err
	}

	loader, err := ingest.NewLoader()
	if err != nil {
		provider.Close()
		repo.Close()
		backend.Close()
		return nil, err
	}

	pipe, err := pipeline.New(loader, ingest.NewSplitter(), gateway, provider.Completer())
	if err != nil {
		provider.Close()
		repo.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend:  backend,
		repo:     repo,
		provider: provider,
		gateway:  gateway,
		pipe:     pipe,
		logger:   slog.Default(),
	}, nil
}

// Run executes the pipeline for a request and returns the final result.
func (e *Engine) Run(ctx context.Context, req *core.Request) (*pipeline.Result, error) {
	return e.pipe.Run(ctx, req)
}

// Stream executes the pipeline for a request, emitting progress events.
func (e *Engine) Stream(ctx context.Context, req *core.Request) (<-chan pipeline.Event, error) {
	return e.pipe.Stream(ctx, req)
}

// Gateway returns the similarity index gateway.
func (e *Engine) Gateway() *index.Gateway {
	return e.gateway
}

// Close releases the pipeline, AI provider, and storage.
func (e *Engine) Close() error {
	e.pipe.Release()

	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}
	if err := e.repo.Close(); err != nil {
		e.logger.Error("error closing chunk repository", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
