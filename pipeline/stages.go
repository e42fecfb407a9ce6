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

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/forgeqa/caseforge/ai"
	"github.com/forgeqa/caseforge/core"
	"github.com/forgeqa/caseforge/index"
	"github.com/forgeqa/caseforge/storage"
)

// extractionContextChunks caps how much document context the feature
// extraction prompt receives; chunks beyond the cap are dropped.
const extractionContextChunks = 10

// maxExtractedFeatures caps the number of features batch mode will process.
const maxExtractedFeatures = 10

// rateLimitMessage is the user-facing message for rate-limited runs.
const rateLimitMessage = "Rate limit exceeded. Please wait a few minutes or switch to the Ollama provider."

// DocumentLoader reads a request's source into text segments.
type DocumentLoader interface {
	Load(ctx context.Context, req *core.Request) ([]core.Segment, error)
}

// ChunkSplitter cuts segments into indexable chunks.
type ChunkSplitter interface {
	Split(segments []core.Segment) ([]*core.Chunk, error)
}

// Indexer populates and queries the similarity index.
type Indexer interface {
	Ingest(ctx context.Context, chunks []*core.Chunk) (*index.Handle, error)
	Query(ctx context.Context, query string, limit int) ([]*storage.ChunkMatch, error)
}

// Pipeline runs the requirements-to-test-cases workflow.
type Pipeline struct {
	loader         DocumentLoader
	splitter       ChunkSplitter
	indexer        Indexer
	completer      ai.Completer
	validationPool *ants.Pool
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithValidationWorkers sets the worker pool size for concurrent
// test-case validation. Default is 4, minimum 1.
func WithValidationWorkers(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.validationPool != nil {
			p.validationPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.validationPool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// New creates a Pipeline over the given collaborators.
func New(loader DocumentLoader, splitter ChunkSplitter, indexer Indexer, completer ai.Completer, opts ...Option) (*Pipeline, error) {
	if loader == nil {
		return nil, ErrLoaderRequired
	}
	if splitter == nil {
		return nil, ErrSplitterRequired
	}
	if indexer == nil {
		return nil, ErrIndexerRequired
	}
	if completer == nil {
		return nil, ErrCompleterRequired
	}

	pool, err := ants.NewPool(4)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		loader:         loader,
		splitter:       splitter,
		indexer:        indexer,
		completer:      completer,
		validationPool: pool,
		logger:         slog.Default().With("component", "pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Release releases the validation worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.validationPool != nil {
		p.validationPool.Release()
	}
}

// indexStage ingests the state's chunks into the similarity index.
// An exhausted-retries ingestion failure is fatal to the run.
func (p *Pipeline) indexStage(ctx context.Context, s State) Delta {
	p.logger.Info("indexing chunks", "count", len(s.Chunks))

	handle, err := p.indexer.Ingest(ctx, s.Chunks)
	if err != nil {
		return Delta{Failure: &core.Failure{
			Message: err.Error(),
			Kind:    core.KindIndexUnavailable,
		}}
	}

	return Delta{Handle: handle}
}

// extractStage discovers the document's features for batch mode. At
// most the first 10 chunks are used as context; a failed or malformed
// provider response degrades to an empty feature list so the run still
// reaches formatting.
func (p *Pipeline) extractStage(ctx context.Context, s State) Delta {
	p.logger.Info("extracting features")

	contextChunks := s.Chunks
	if len(contextChunks) > extractionContextChunks {
		p.logger.Warn("document exceeds extraction context, truncating",
			"chunks", len(s.Chunks), "used", extractionContextChunks)
		contextChunks = contextChunks[:extractionContextChunks]
	}

	user, err := extractionPrompt.Format(map[string]any{
		"context": joinChunks(contextChunks),
	})
	if err != nil {
		return Delta{Features: []core.Feature{}, Failure: extractionFailure(err)}
	}

	raw, err := p.completer.Complete(ctx, extractionSystem, user)
	if err != nil {
		p.logger.Error("feature extraction failed", "err", err)
		return Delta{Features: []core.Feature{}, Failure: extractionFailure(err)}
	}

	items, shape := ai.DecodeEnvelope(raw, "features")
	if shape == ai.EnvelopeInvalid {
		p.logger.Warn("feature extraction returned an unrecognized shape")
		return Delta{Features: []core.Feature{}}
	}

	features := make([]core.Feature, 0, len(items))
	for _, item := range items {
		name, _ := item["name"].(string)
		if name == "" {
			continue
		}
		description, _ := item["description"].(string)
		features = append(features, core.Feature{Name: name, Description: description})
	}
	if len(features) > maxExtractedFeatures {
		p.logger.Warn("provider returned too many features, truncating",
			"features", len(features), "cap", maxExtractedFeatures)
		features = features[:maxExtractedFeatures]
	}

	p.logger.Info("features extracted", "count", len(features))
	return Delta{Features: features}
}

func extractionFailure(err error) *core.Failure {
	if kind := ai.ClassifyFailure(err); kind == core.KindRateLimited {
		return &core.Failure{Message: rateLimitMessage, Kind: core.KindRateLimited}
	}
	return &core.Failure{
		Message: fmt.Sprintf("Error extracting features: %v", err),
		Kind:    core.KindExtractionError,
	}
}

// retrieveStage queries the index for the active feature, replacing
// any previously retrieved chunks.
func (p *Pipeline) retrieveStage(ctx context.Context, s State) Delta {
	p.logger.Info("retrieving chunks", "feature", s.Feature)

	matches, err := p.indexer.Query(ctx, s.Feature, 0)
	if err != nil {
		return Delta{Retrieved: []*core.Chunk{}, Failure: &core.Failure{
			Message: err.Error(),
			Kind:    ai.ClassifyFailure(err),
		}}
	}

	retrieved := make([]*core.Chunk, 0, len(matches))
	for _, match := range matches {
		retrieved = append(retrieved, match.Chunk)
	}

	p.logger.Debug("chunks retrieved", "feature", s.Feature, "count", len(retrieved))
	return Delta{Retrieved: retrieved}
}

// generateStage asks the provider for test cases for the active
// feature. The test-case limit is rendered into the prompt as an
// instruction only; the returned count is not enforced.
func (p *Pipeline) generateStage(ctx context.Context, s State) Delta {
	p.logger.Info("generating test cases", "feature", s.Feature)

	limitInstruction := ""
	if s.Request.TestCaseLimit > 0 {
		limitInstruction = fmt.Sprintf("Generate exactly %d test cases.", s.Request.TestCaseLimit)
	}

	user, err := generationPrompt.Format(map[string]any{
		"feature_name":      s.Feature,
		"limit_instruction": limitInstruction,
		"retrieved_chunks":  joinChunks(s.Retrieved),
	})
	if err != nil {
		return Delta{TestCases: []*core.TestCase{}, Failure: generationFailure(err)}
	}

	raw, err := p.completer.Complete(ctx, generationSystem, user)
	if err != nil {
		p.logger.Error("test case generation failed", "feature", s.Feature, "err", err)
		return Delta{TestCases: []*core.TestCase{}, Failure: generationFailure(err)}
	}

	items, shape := ai.DecodeEnvelope(raw, "testCases")
	if shape == ai.EnvelopeInvalid {
		p.logger.Warn("generation returned an unrecognized shape", "feature", s.Feature)
		return Delta{TestCases: []*core.TestCase{}}
	}

	cases := make([]*core.TestCase, 0, len(items))
	for i, item := range items {
		cases = append(cases, &core.TestCase{
			ID:     testCaseID(item, i),
			Fields: item,
		})
	}

	p.logger.Info("test cases generated", "feature", s.Feature, "count", len(cases))
	return Delta{TestCases: cases}
}

func generationFailure(err error) *core.Failure {
	if kind := ai.ClassifyFailure(err); kind == core.KindRateLimited {
		return &core.Failure{Message: rateLimitMessage, Kind: core.KindRateLimited}
	}
	return &core.Failure{Message: err.Error(), Kind: core.KindGenerationError}
}

// idFieldNames lists provider field names accepted as the test case
// identifier, in preference order.
var idFieldNames = []string{"Test Case ID", "test_case_id", "testCaseId", "id", "ID"}

// testCaseID extracts the provider's identifier for a test case, or
// synthesizes a positional one when none is present.
func testCaseID(fields map[string]any, position int) string {
	for _, name := range idFieldNames {
		switch v := fields[name].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return fmt.Sprintf("TC-%03d", position+1)
}

// verdict is the expected shape of a validation response.
type verdict struct {
	Supported bool   `json:"supported"`
	Reason    string `json:"reason"`
}

// validateCase judges one test case against the retrieved context,
// setting its hallucination fields in place. Returns an issue string
// when the case is unsupported or when validation itself failed; a
// validation failure leaves the flag false.
func (p *Pipeline) validateCase(ctx context.Context, tc *core.TestCase, contextText string) string {
	user, err := validationPrompt.Format(map[string]any{
		"context":   contextText,
		"test_case": tc.Text(),
	})
	if err != nil {
		return fmt.Sprintf("Error checking test case: %v", err)
	}

	raw, err := p.completer.Complete(ctx, validationSystem, user)
	if err != nil {
		p.logger.Error("validation call failed", "testCase", tc.ID, "err", err)
		return fmt.Sprintf("Error checking test case: %v", err)
	}

	var v verdict
	if err := ai.DecodeObject(raw, &v); err != nil {
		p.logger.Error("validation returned undecodable output", "testCase", tc.ID, "err", err)
		return fmt.Sprintf("Error checking test case: %v", err)
	}

	if !v.Supported {
		tc.HallucinationFlag = true
		tc.HallucinationReason = v.Reason
		return fmt.Sprintf("Test Case %s not supported: %s", tc.ID, v.Reason)
	}

	tc.HallucinationFlag = false
	return ""
}

// validateStage judges every generated test case independently. Calls
// fan out on the validation pool; issues are reassembled in generation
// order. Per-case failures are never fatal.
func (p *Pipeline) validateStage(ctx context.Context, s State) Delta {
	if len(s.TestCases) == 0 {
		return Delta{}
	}

	p.logger.Info("checking hallucinations", "testCases", len(s.TestCases))

	contextText := joinChunks(s.Retrieved)
	results := make([]string, len(s.TestCases))

	var wg sync.WaitGroup
	for i, tc := range s.TestCases {
		i, tc := i, tc
		wg.Add(1)
		err := p.validationPool.Submit(func() {
			defer wg.Done()
			results[i] = p.validateCase(ctx, tc, contextText)
		})
		if err != nil {
			// Pool rejected the task; validate inline.
			results[i] = p.validateCase(ctx, tc, contextText)
			wg.Done()
		}
	}
	wg.Wait()

	var issues []string
	for _, issue := range results {
		if issue != "" {
			issues = append(issues, issue)
		}
	}

	p.logger.Info("hallucination check complete", "issues", len(issues))
	return Delta{Issues: issues}
}

// joinChunks concatenates chunk contents with blank-line separators for
// use as prompt context.
func joinChunks(chunks []*core.Chunk) string {
	parts := make([]string, len(chunks))
	for i, chunk := range chunks {
		parts[i] = chunk.Content
	}
	return strings.Join(parts, "\n\n")
}
