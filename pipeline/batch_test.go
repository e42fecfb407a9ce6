package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeqa/caseforge/core"
)

const threeFeatures = `{"features": [
	{"name": "Login", "description": "User authentication"},
	{"name": "Search", "description": "Full text search"},
	{"name": "Export", "description": "Data export"}
]}`

func TestBatchHappyPath(t *testing.T) {
	completer := scriptedCompleter(
		respond(threeFeatures),
		func(user string) (string, error) {
			return `{"testCases": [{"Test Case ID": "TC-1", "Description": "case"}]}`, nil
		},
		respond(`{"supported": true, "reason": "Supported"}`),
	)
	indexer := &stubIndexer{matches: chunkMatches()}
	p := newTestPipeline(t, indexer, completer)

	result, err := p.Run(context.Background(), &core.Request{FilePath: "spec.txt", FeatureSelector: "all features"})
	require.NoError(t, err)

	assert.True(t, result.BatchMode)
	assert.Equal(t, 3, result.TotalFeatures)
	assert.Equal(t, 3, result.TotalTestCases)
	require.Len(t, result.TestCases, 3)
	require.Len(t, result.FeaturesProcessed, 3)

	// Test cases are tagged with their originating feature, in
	// extraction order.
	assert.Equal(t, "Login", result.TestCases[0].Feature)
	assert.Equal(t, "User authentication", result.TestCases[0].FeatureDescription)
	assert.Equal(t, "Search", result.TestCases[1].Feature)
	assert.Equal(t, "Export", result.TestCases[2].Feature)

	// The index is queried once per feature, in order.
	assert.Equal(t, []string{"Login", "Search", "Export"}, indexer.queries)
}

func TestBatchIsolatesFailingFeature(t *testing.T) {
	completer := scriptedCompleter(
		respond(threeFeatures),
		func(user string) (string, error) {
			if strings.Contains(user, "Search") {
				return "", errors.New("model exploded")
			}
			return `{"testCases": [{"Test Case ID": "TC-1", "Description": "case"}]}`, nil
		},
		respond(`{"supported": true, "reason": "Supported"}`),
	)
	p := newTestPipeline(t, &stubIndexer{matches: chunkMatches()}, completer)

	result, err := p.Run(context.Background(), &core.Request{FilePath: "spec.txt", FeatureSelector: "everything"})
	require.NoError(t, err)

	// Features 1 and 3 still produce test cases.
	require.Len(t, result.TestCases, 2)
	assert.Equal(t, "Login", result.TestCases[0].Feature)
	assert.Equal(t, "Export", result.TestCases[1].Feature)

	// Exactly 3 summaries; the failed feature reports zero test cases.
	require.Len(t, result.FeaturesProcessed, 3)
	assert.Equal(t, "Search", result.FeaturesProcessed[1].Name)
	assert.Equal(t, 0, result.FeaturesProcessed[1].TestCaseCount)
	assert.Equal(t, 1, result.FeaturesProcessed[0].TestCaseCount)
	assert.Equal(t, 1, result.FeaturesProcessed[2].TestCaseCount)

	// The failure shows up as one issue naming the feature, and the
	// run-level error stays empty.
	assert.Empty(t, result.ErrorKind)
	require.Len(t, result.HallucinationReport.Issues, 1)
	assert.Contains(t, result.HallucinationReport.Issues[0], "Error processing feature 'Search'")
}

func TestBatchCountsHallucinationsPerFeature(t *testing.T) {
	completer := scriptedCompleter(
		respond(`{"features": [{"name": "Login", "description": ""}, {"name": "Export", "description": ""}]}`),
		func(user string) (string, error) {
			return `{"testCases": [{"Test Case ID": "TC-1", "Description": "case"}]}`, nil
		},
		func(user string) (string, error) {
			if strings.Contains(user, "case") {
				// All cases look alike here; flag every one unsupported.
				return `{"supported": false, "reason": "not in requirements"}`, nil
			}
			return `{"supported": true, "reason": "Supported"}`, nil
		},
	)
	p := newTestPipeline(t, &stubIndexer{matches: chunkMatches()}, completer)

	result, err := p.Run(context.Background(), &core.Request{FilePath: "spec.txt", FeatureSelector: "complete"})
	require.NoError(t, err)

	require.Len(t, result.FeaturesProcessed, 2)
	assert.Equal(t, 1, result.FeaturesProcessed[0].HallucinationCount)
	assert.Equal(t, 1, result.FeaturesProcessed[1].HallucinationCount)
	assert.Len(t, result.HallucinationReport.Issues, 2)
	assert.True(t, result.HallucinationReport.FoundIssues)
}

func TestBatchExtractionFailureShortCircuits(t *testing.T) {
	completer := scriptedCompleter(
		func(string) (string, error) { return "", errors.New("rate_limit hit") },
		respond(""),
		respond(""),
	)
	p := newTestPipeline(t, &stubIndexer{matches: chunkMatches()}, completer)

	result, err := p.Run(context.Background(), &core.Request{FilePath: "spec.txt", FeatureSelector: "all"})
	require.NoError(t, err)

	assert.Equal(t, string(core.KindRateLimited), result.ErrorKind)
	assert.Empty(t, result.TestCases)
	assert.False(t, result.BatchMode, "batch metadata is omitted when extraction never succeeded")
	assert.Equal(t, 1, completer.CallCount(), "no generation or validation calls after extraction fails")
}

func TestBatchEmptyExtractionYieldsEmptyResult(t *testing.T) {
	completer := scriptedCompleter(
		respond(`{"features": []}`),
		respond(""),
		respond(""),
	)
	p := newTestPipeline(t, &stubIndexer{matches: chunkMatches()}, completer)

	result, err := p.Run(context.Background(), &core.Request{FilePath: "spec.txt", FeatureSelector: "all"})
	require.NoError(t, err)

	assert.Empty(t, result.TestCases)
	assert.Empty(t, result.Error)
	assert.True(t, result.BatchMode)
	assert.Equal(t, 0, result.TotalFeatures)
	assert.NotNil(t, result.FeaturesProcessed)
}

func TestBatchCapsExtractedFeatures(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`{"features": [`)
	for i := 0; i < 15; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"name": "Feature `)
		sb.WriteString(string(rune('A' + i)))
		sb.WriteString(`", "description": ""}`)
	}
	sb.WriteString(`]}`)

	completer := scriptedCompleter(
		respond(sb.String()),
		respond(`{"testCases": []}`),
		respond(`{"supported": true, "reason": "Supported"}`),
	)
	p := newTestPipeline(t, &stubIndexer{matches: chunkMatches()}, completer)

	result, err := p.Run(context.Background(), &core.Request{FilePath: "spec.txt", FeatureSelector: "all"})
	require.NoError(t, err)

	assert.Len(t, result.FeaturesProcessed, maxExtractedFeatures)
}
