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

import "fmt"

// ValidateRequest validates a Request according to domain rules.
//
// Validation rules:
//   - Exactly one of FilePath and URL must be set
//   - FeatureSelector must not be empty
//   - TestCaseLimit, when set, must be positive
//
// NOT validated:
//   - Whether the file exists or the URL is reachable (the ingestion
//     stage reports those)
func ValidateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}

	if req.FilePath == "" && req.URL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrNoSource)
	}

	if req.FilePath != "" && req.URL != "" {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrAmbiguousSource)
	}

	if req.FeatureSelector == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrEmptySelector)
	}

	if req.TestCaseLimit < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrNonPositiveLimit)
	}

	return nil
}
