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


// Package storage provides the storage abstraction layer for caseforge.
//
// It defines the chunk repository interface that decouples the similarity
// index from its backing store, so different backends (BadgerDB, in-memory)
// can be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Public constructors return interface types to enforce abstraction:
//
//	repo, err := badger.NewChunkRepository(backend) // storage.ChunkRepository
//
// # Collections
//
// Chunks live in named collections. A collection is a single shared,
// append-only resource across all runs: concurrent ingestion into the same
// collection is permitted but not coordinated, and queries during a race
// may reflect a partially-ingested state. Content-derived chunk IDs make
// re-ingestion of identical content overwrite rather than duplicate.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
