package pipeline

import "github.com/forgeqa/caseforge/core"

// HallucinationReport summarizes validation findings for a run.
type HallucinationReport struct {
	FoundIssues bool     `json:"foundIssues"`
	Issues      []string `json:"issues"`
}

// Result is the final payload of a run. Its collections are always
// non-nil so the serialized shape stays well-formed even on failure.
type Result struct {
	TestCases           []*core.TestCase      `json:"testCases"`
	HallucinationReport HallucinationReport   `json:"hallucinationReport"`
	Error               string                `json:"error,omitempty"`
	ErrorKind           string                `json:"errorKind,omitempty"`
	BatchMode           bool                  `json:"batchMode,omitempty"`
	FeaturesProcessed   []core.FeatureSummary `json:"featuresProcessed,omitempty"`
	TotalFeatures       int                   `json:"totalFeatures,omitempty"`
	TotalTestCases      int                   `json:"totalTestCases,omitempty"`
}

// formatResult assembles the terminal payload from the final state.
func formatResult(s State) *Result {
	testCases := s.TestCases
	if testCases == nil {
		testCases = []*core.TestCase{}
	}
	issues := s.Issues
	if issues == nil {
		issues = []string{}
	}

	result := &Result{
		TestCases: testCases,
		HallucinationReport: HallucinationReport{
			FoundIssues: len(issues) > 0,
			Issues:      issues,
		},
	}

	if s.Failure != nil {
		result.Error = s.Failure.Message
		result.ErrorKind = string(s.Failure.Kind)
	}

	if s.BatchMode {
		summaries := s.Summaries
		if summaries == nil {
			summaries = []core.FeatureSummary{}
		}
		result.BatchMode = true
		result.FeaturesProcessed = summaries
		result.TotalFeatures = len(summaries)
		result.TotalTestCases = len(testCases)
	}

	return result
}
