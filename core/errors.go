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

package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidRequest indicates a Request failed validation.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNoSource indicates neither a file path nor a URL was provided.
	ErrNoSource = errors.New("a file path or URL is required")

	// ErrAmbiguousSource indicates both a file path and a URL were provided.
	ErrAmbiguousSource = errors.New("file path and URL are mutually exclusive")

	// ErrEmptySelector indicates the feature selector is empty.
	ErrEmptySelector = errors.New("feature selector cannot be empty")

	// ErrNonPositiveLimit indicates a test case limit of zero or less.
	ErrNonPositiveLimit = errors.New("test case limit must be positive")
)

// FailureKind classifies a run-level failure.
type FailureKind string

const (
	// KindIndexUnavailable means index ingestion exhausted its retries.
	// Fatal to the run.
	KindIndexUnavailable FailureKind = "index_unavailable"

	// KindRateLimited means the completion provider reported a rate limit.
	// Surfaced verbatim; never retried by the orchestration layer.
	KindRateLimited FailureKind = "rate_limit"

	// KindProviderError means the completion provider failed for a reason
	// other than rate limiting.
	KindProviderError FailureKind = "provider_error"

	// KindExtractionError means the feature extraction stage failed.
	KindExtractionError FailureKind = "extraction_error"

	// KindGenerationError means a test case generation stage failed.
	// Non-fatal to sibling features in batch mode.
	KindGenerationError FailureKind = "generation_error"

	// KindValidationProcessingError means a single test case could not be
	// validated. Always non-fatal; the case is returned unflagged.
	KindValidationProcessingError FailureKind = "validation_processing_error"
)

// Failure is a run-level error carried through pipeline state.
// Once set, downstream stages short-circuit to formatting.
type Failure struct {
	Message string
	Kind    FailureKind
}

func (f *Failure) Error() string {
	return f.Message
}
