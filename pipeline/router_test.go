package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeqa/caseforge/core"
	"github.com/forgeqa/caseforge/index"
)

func TestRunRejectsInvalidRequest(t *testing.T) {
	p := newTestPipeline(t, &stubIndexer{}, scriptedCompleter(respond(""), respond(""), respond("")))

	_, err := p.Run(context.Background(), &core.Request{FeatureSelector: "Login"})
	assert.ErrorIs(t, err, core.ErrInvalidRequest)
}

func TestRunSingleFeatureHappyPath(t *testing.T) {
	indexer := &stubIndexer{matches: chunkMatches()}
	completer := scriptedCompleter(
		respond(`{"features": []}`),
		respond(`{"testCases": [{"Test Case ID": "TC-1", "Description": "Log in with valid credentials"}]}`),
		respond(`{"supported": true, "reason": "Supported"}`),
	)
	p := newTestPipeline(t, indexer, completer)

	result, err := p.Run(context.Background(), &core.Request{FilePath: "spec.txt", FeatureSelector: "User Login"})
	require.NoError(t, err)

	require.Len(t, result.TestCases, 1)
	assert.Equal(t, "TC-1", result.TestCases[0].ID)
	assert.False(t, result.TestCases[0].HallucinationFlag)
	assert.False(t, result.HallucinationReport.FoundIssues)
	assert.Empty(t, result.Error)
	assert.False(t, result.BatchMode)

	// Single mode queries the index with the selector verbatim.
	require.Len(t, indexer.queries, 1)
	assert.Equal(t, "User Login", indexer.queries[0])
}

func TestRunAcceptsBareListEnvelope(t *testing.T) {
	completer := scriptedCompleter(
		respond(`[]`),
		respond(`[{"id": "TC-7", "Description": "bare list shape"}]`),
		respond(`{"supported": true, "reason": "Supported"}`),
	)
	p := newTestPipeline(t, &stubIndexer{matches: chunkMatches()}, completer)

	result, err := p.Run(context.Background(), &core.Request{FilePath: "spec.txt", FeatureSelector: "Login"})
	require.NoError(t, err)
	require.Len(t, result.TestCases, 1)
	assert.Equal(t, "TC-7", result.TestCases[0].ID)
}

func TestRunFlagsUnsupportedTestCase(t *testing.T) {
	completer := scriptedCompleter(
		respond(`[]`),
		respond(`{"testCases": [{"Test Case ID": "TC-9", "Description": "Export to PDF"}]}`),
		respond(`{"supported": false, "reason": "Export is not mentioned in the requirements"}`),
	)
	p := newTestPipeline(t, &stubIndexer{matches: chunkMatches()}, completer)

	result, err := p.Run(context.Background(), &core.Request{FilePath: "spec.txt", FeatureSelector: "Export"})
	require.NoError(t, err)

	require.Len(t, result.TestCases, 1)
	assert.True(t, result.TestCases[0].HallucinationFlag)
	assert.NotEmpty(t, result.TestCases[0].HallucinationReason)
	assert.True(t, result.HallucinationReport.FoundIssues)
	require.Len(t, result.HallucinationReport.Issues, 1)
	assert.Contains(t, result.HallucinationReport.Issues[0], "Test Case TC-9 not supported")
}

func TestRunLoaderFailureReturnsError(t *testing.T) {
	p, err := New(
		&stubLoader{err: errors.New("no such file")},
		&stubSplitter{},
		&stubIndexer{},
		scriptedCompleter(respond(""), respond(""), respond("")),
	)
	require.NoError(t, err)
	defer p.Release()

	_, err = p.Run(context.Background(), &core.Request{FilePath: "missing.txt", FeatureSelector: "Login"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading document")
}

func TestRunIndexFailureDegradesIntoResult(t *testing.T) {
	indexer := &stubIndexer{ingestErr: fmt.Errorf("%w: batch 1 of 1 failed after 3 attempts", index.ErrIndexUnavailable)}
	p := newTestPipeline(t, indexer, scriptedCompleter(respond(""), respond(""), respond("")))

	result, err := p.Run(context.Background(), &core.Request{FilePath: "spec.txt", FeatureSelector: "Login"})
	require.NoError(t, err)

	assert.Equal(t, string(core.KindIndexUnavailable), result.ErrorKind)
	assert.NotEmpty(t, result.Error)
	assert.NotNil(t, result.TestCases)
	assert.Empty(t, result.TestCases)
	assert.NotNil(t, result.HallucinationReport.Issues)
	assert.Empty(t, result.HallucinationReport.Issues)
}

func TestRunGenerationRateLimit(t *testing.T) {
	completer := scriptedCompleter(
		respond(`[]`),
		func(string) (string, error) { return "", errors.New("429 too many requests") },
		respond(""),
	)
	p := newTestPipeline(t, &stubIndexer{matches: chunkMatches()}, completer)

	result, err := p.Run(context.Background(), &core.Request{FilePath: "spec.txt", FeatureSelector: "Login"})
	require.NoError(t, err)

	assert.Equal(t, string(core.KindRateLimited), result.ErrorKind)
	assert.Empty(t, result.TestCases)
}

func TestRunGenerationProviderError(t *testing.T) {
	completer := scriptedCompleter(
		respond(`[]`),
		func(string) (string, error) { return "", errors.New("model not found") },
		respond(""),
	)
	p := newTestPipeline(t, &stubIndexer{matches: chunkMatches()}, completer)

	result, err := p.Run(context.Background(), &core.Request{FilePath: "spec.txt", FeatureSelector: "Login"})
	require.NoError(t, err)

	assert.Equal(t, string(core.KindGenerationError), result.ErrorKind)
	assert.Empty(t, result.TestCases)
}

func TestRunValidationFailureIsNonFatal(t *testing.T) {
	completer := scriptedCompleter(
		respond(`[]`),
		respond(`{"testCases": [{"Test Case ID": "TC-1"}, {"Test Case ID": "TC-2"}]}`),
		func(user string) (string, error) {
			if strings.Contains(user, "TC-1") {
				return "", errors.New("transient validation failure")
			}
			return `{"supported": true, "reason": "Supported"}`, nil
		},
	)
	p := newTestPipeline(t, &stubIndexer{matches: chunkMatches()}, completer)

	result, err := p.Run(context.Background(), &core.Request{FilePath: "spec.txt", FeatureSelector: "Login"})
	require.NoError(t, err)

	// Both test cases come back; the one whose check failed stays unflagged.
	require.Len(t, result.TestCases, 2)
	assert.False(t, result.TestCases[0].HallucinationFlag)
	assert.False(t, result.TestCases[1].HallucinationFlag)
	assert.Empty(t, result.ErrorKind)
	require.Len(t, result.HallucinationReport.Issues, 1)
	assert.Contains(t, result.HallucinationReport.Issues[0], "Error checking test case")
}

func TestRunSynthesizesMissingTestCaseIDs(t *testing.T) {
	completer := scriptedCompleter(
		respond(`[]`),
		respond(`[{"Description": "first"}, {"Description": "second"}]`),
		respond(`{"supported": true, "reason": "Supported"}`),
	)
	p := newTestPipeline(t, &stubIndexer{matches: chunkMatches()}, completer)

	result, err := p.Run(context.Background(), &core.Request{FilePath: "spec.txt", FeatureSelector: "Login"})
	require.NoError(t, err)

	require.Len(t, result.TestCases, 2)
	assert.Equal(t, "TC-001", result.TestCases[0].ID)
	assert.Equal(t, "TC-002", result.TestCases[1].ID)
}
