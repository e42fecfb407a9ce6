package ai

import (
	"strings"

	"github.com/forgeqa/caseforge/core"
)

// rateLimitMarkers are the substrings that identify a rate-limit condition
// in a provider error, matched case-insensitively.
var rateLimitMarkers = []string{"429", "rate limit", "rate_limit", "ratelimit"}

// ClassifyFailure maps a provider error to the run-level failure taxonomy.
// Rate-limit conditions (HTTP 429 or a rate-limit marker in the error text)
// become core.KindRateLimited; everything else is core.KindProviderError.
// The gateway never retries rate-limited calls; retry policy belongs to
// the caller, and no pipeline stage retries a rate limit.
func ClassifyFailure(err error) core.FailureKind {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return core.KindRateLimited
		}
	}
	return core.KindProviderError
}

// IsRateLimited reports whether err carries a rate-limit marker.
func IsRateLimited(err error) bool {
	return ClassifyFailure(err) == core.KindRateLimited
}
