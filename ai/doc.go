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


// Package ai provides the abstractions for the AI services used by caseforge.
//
// It defines interfaces for structured JSON completions and text embeddings,
// plus the envelope decoding and failure classification that sit at the
// boundary between the pipeline and the language model. The pipeline depends
// only on these abstractions, never on a concrete provider.
//
// # Interfaces
//
//   - Completer: prompt in, raw JSON text out (temperature 0, JSON mode)
//   - Embedder: vector embeddings for similarity search
//   - Provider: aggregates both with lifecycle management
//
// # Implementation Packages
//
//   - ai/ollama: local Ollama chat and embeddings
//   - ai/groq: Groq's OpenAI-compatible chat API
//   - ai/providers: static provider selection from a Config
//   - ai/mock: test doubles for unit testing without external services
//
// Public constructors in the implementation packages return interface types
// to enforce abstraction; mock constructors return concrete types so tests
// can inject behavior and make assertions.
//
// # Envelope Decoding
//
// Models answer either with a keyed object ({"testCases": [...]}) or a bare
// list. DecodeEnvelope normalizes both to a plain ordered slice at this
// boundary, so nothing deeper in the pipeline branches on response shape.
// Any other shape decodes to an empty slice (EnvelopeInvalid), not an error.
//
// # Failure Classification
//
// ClassifyFailure maps a provider error to the run-level taxonomy: errors
// carrying a rate-limit marker become core.KindRateLimited, everything else
// core.KindProviderError. Rate limits are never retried above this layer.
package ai
