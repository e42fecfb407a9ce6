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
	"github.com/forgeqa/caseforge/core"
	"github.com/forgeqa/caseforge/index"
)

// State is the record threaded through a run. It is never mutated in
// place: stages return a Delta, and apply produces the next State, so
// batch sub-states stay independent of each other and of the parent.
type State struct {
	Request *core.Request
	Mode    core.SelectorMode

	// Feature is the feature currently being processed: the request's
	// selector in single mode, the active extracted feature in batch mode.
	Feature            string
	FeatureDescription string

	Segments  []core.Segment
	Chunks    []*core.Chunk
	Handle    *index.Handle
	Features  []core.Feature
	Retrieved []*core.Chunk
	TestCases []*core.TestCase
	Issues    []string
	Summaries []core.FeatureSummary
	BatchMode bool
	Failure   *core.Failure
}

// newState creates the initial state for a request. The selector is
// classified exactly once, here.
func newState(req *core.Request) State {
	return State{
		Request: req,
		Mode:    core.ClassifySelector(req.FeatureSelector),
		Feature: req.FeatureSelector,
	}
}

// subState creates an isolated per-feature state for batch processing.
// It shares the immutable document data and index handle, and starts
// with empty retrieval, test-case, and issue collections.
func (s State) subState(feature core.Feature) State {
	return State{
		Request:            s.Request,
		Mode:               core.ModeSingle,
		Feature:            feature.Name,
		FeatureDescription: feature.Description,
		Segments:           s.Segments,
		Chunks:             s.Chunks,
		Handle:             s.Handle,
	}
}

// Delta is a partial state update returned by a stage. Nil slices mean
// "no change"; non-nil slices (including empty ones) replace the
// current value. Issues and Summaries append. Failure latches: once a
// state carries a failure, later deltas cannot overwrite it.
type Delta struct {
	Segments  []core.Segment
	Chunks    []*core.Chunk
	Handle    *index.Handle
	Features  []core.Feature
	Retrieved []*core.Chunk
	TestCases []*core.TestCase
	Issues    []string
	Summaries []core.FeatureSummary
	BatchMode bool
	Failure   *core.Failure
}

// apply merges a delta into the state, returning the next state.
func (s State) apply(d Delta) State {
	if d.Segments != nil {
		s.Segments = d.Segments
	}
	if d.Chunks != nil {
		s.Chunks = d.Chunks
	}
	if d.Handle != nil {
		s.Handle = d.Handle
	}
	if d.Features != nil {
		s.Features = d.Features
	}
	if d.Retrieved != nil {
		s.Retrieved = d.Retrieved
	}
	if d.TestCases != nil {
		s.TestCases = d.TestCases
	}
	if len(d.Issues) > 0 {
		// Copy on append so sibling states never share a backing array.
		issues := make([]string, 0, len(s.Issues)+len(d.Issues))
		issues = append(issues, s.Issues...)
		issues = append(issues, d.Issues...)
		s.Issues = issues
	}
	if len(d.Summaries) > 0 {
		summaries := make([]core.FeatureSummary, 0, len(s.Summaries)+len(d.Summaries))
		summaries = append(summaries, s.Summaries...)
		summaries = append(summaries, d.Summaries...)
		s.Summaries = summaries
	}
	if d.BatchMode {
		s.BatchMode = true
	}
	if s.Failure == nil && d.Failure != nil {
		s.Failure = d.Failure
	}
	return s
}
