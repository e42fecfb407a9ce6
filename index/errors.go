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

import "errors"

var (
	// ErrIndexUnavailable indicates a chunk could not be indexed after
	// exhausting all retry attempts.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrInvalidMaxAttempts indicates an invalid retry configuration.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
