package core

import "strings"

// SelectorMode is the execution path selected by a request's feature selector.
type SelectorMode int

const (
	// ModeSingle processes only the feature named by the selector.
	ModeSingle SelectorMode = iota + 1
	// ModeAllFeatures discovers and processes every feature in the document.
	ModeAllFeatures
)

// allFeaturesKeywords are the selector phrases that route a run to batch mode.
// A selector matches if any keyword is a substring after normalization.
var allFeaturesKeywords = []string{
	"all features",
	"all feature",
	"all",
	"everything",
	"complete",
}

// ClassifySelector normalizes a feature selector (lower-cased, trimmed) and
// decides the execution mode. Classification happens exactly once per run;
// callers store the result rather than re-deriving it.
func ClassifySelector(selector string) SelectorMode {
	normalized := strings.ToLower(strings.TrimSpace(selector))
	for _, keyword := range allFeaturesKeywords {
		if strings.Contains(normalized, keyword) {
			return ModeAllFeatures
		}
	}
	return ModeSingle
}
