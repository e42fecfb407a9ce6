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

	"github.com/forgeqa/caseforge/core"
)

// EventType discriminates stream events.
type EventType string

const (
	EventStatus     EventType = "status"
	EventBatchStart EventType = "batch_start"
	EventProgress   EventType = "progress"
	EventTestCase   EventType = "test_case"
	EventError      EventType = "error"
	EventComplete   EventType = "complete"
)

// Event is one progress notification of a streaming run. A run ends
// with exactly one complete or error event; nothing follows either.
type Event struct {
	Type          EventType      `json:"type"`
	Message       string         `json:"message,omitempty"`
	TotalFeatures int            `json:"totalFeatures,omitempty"`
	Current       int            `json:"current,omitempty"`
	Total         int            `json:"total,omitempty"`
	Feature       string         `json:"feature,omitempty"`
	TestCase      *core.TestCase `json:"testCase,omitempty"`
	Result        *Result        `json:"result,omitempty"`
}

// Stream executes the pipeline for a request, emitting events as work
// completes: a test_case event fires immediately after each individual
// case validates, in validation-completion order. The channel closes
// after the terminal event. Cancelling the context stops the run at
// the next checkpoint after the in-flight call returns; no terminal
// event is emitted for a cancelled run.
func (p *Pipeline) Stream(ctx context.Context, req *core.Request) (<-chan Event, error) {
	if err := core.ValidateRequest(req); err != nil {
		return nil, err
	}

	events := make(chan Event, 16)
	go func() {
		defer close(events)
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("panic during streaming run", "panic", r)
				select {
				case events <- Event{Type: EventError, Message: fmt.Sprintf("%v", r)}:
				case <-ctx.Done():
				}
			}
		}()
		p.stream(ctx, req, events)
	}()

	return events, nil
}

func (p *Pipeline) stream(ctx context.Context, req *core.Request, events chan<- Event) {
	// emit delivers an event unless the run has been cancelled.
	emit := func(e Event) bool {
		select {
		case <-ctx.Done():
			return false
		case events <- e:
			return true
		}
	}
	fail := func(message string) {
		emit(Event{Type: EventError, Message: message})
	}

	s := newState(req)
	p.logger.Info("starting streaming run", "source", req.Source(), "selector", req.FeatureSelector, "mode", s.Mode)

	if !emit(Event{Type: EventStatus, Message: "Loading document..."}) {
		return
	}
	segments, err := p.loader.Load(ctx, req)
	if err != nil {
		fail(fmt.Sprintf("Error loading document: %v", err))
		return
	}
	s = s.apply(Delta{Segments: segments})

	if !emit(Event{Type: EventStatus, Message: "Splitting text..."}) {
		return
	}
	chunks, err := p.splitter.Split(s.Segments)
	if err != nil {
		fail(fmt.Sprintf("Error splitting document: %v", err))
		return
	}
	s = s.apply(Delta{Chunks: chunks})

	if !emit(Event{Type: EventStatus, Message: "Creating vector store..."}) {
		return
	}
	s = s.apply(p.indexStage(ctx, s))
	if s.Failure != nil {
		fail(fmt.Sprintf("Error creating vector store: %s", s.Failure.Message))
		return
	}

	if s.Mode == core.ModeAllFeatures {
		p.streamBatch(ctx, s, emit, fail)
	} else {
		p.streamSingle(ctx, s, emit, fail)
	}
}

// streamSingle runs the single-feature path, emitting each test case as
// soon as its validation completes.
func (p *Pipeline) streamSingle(ctx context.Context, s State, emit func(Event) bool, fail func(string)) {
	if !emit(Event{Type: EventStatus, Message: fmt.Sprintf("Generating test cases for %s...", s.Feature)}) {
		return
	}

	s = s.apply(p.retrieveStage(ctx, s))
	if s.Failure == nil {
		s = s.apply(p.generateStage(ctx, s))
	}
	if s.Failure != nil {
		fail(s.Failure.Message)
		return
	}

	contextText := joinChunks(s.Retrieved)
	var issues []string
	for _, tc := range s.TestCases {
		if ctx.Err() != nil {
			return
		}
		if issue := p.validateCase(ctx, tc, contextText); issue != "" {
			issues = append(issues, issue)
		}
		if !emit(Event{Type: EventTestCase, TestCase: tc}) {
			return
		}
	}

	s = s.apply(Delta{Issues: issues})
	emit(Event{Type: EventComplete, Result: formatResult(s)})
}

// streamBatch runs the all-features path. A single feature's failure is
// recorded as an issue and processing moves on; only failures before
// the batch loop terminate the stream.
func (p *Pipeline) streamBatch(ctx context.Context, s State, emit func(Event) bool, fail func(string)) {
	if !emit(Event{Type: EventStatus, Message: "Extracting features..."}) {
		return
	}

	s = s.apply(p.extractStage(ctx, s))
	if s.Failure != nil {
		fail(s.Failure.Message)
		return
	}

	total := len(s.Features)
	if !emit(Event{Type: EventBatchStart, TotalFeatures: total}) {
		return
	}

	var (
		allCases  []*core.TestCase
		allIssues []string
		summaries []core.FeatureSummary
	)

	for i, feature := range s.Features {
		if !emit(Event{Type: EventProgress, Current: i + 1, Total: total, Feature: feature.Name}) {
			return
		}

		cases, issues, hallucinations, stop := p.streamFeature(ctx, s, feature, emit)
		if stop {
			return
		}

		allCases = append(allCases, cases...)
		allIssues = append(allIssues, issues...)
		summaries = append(summaries, core.FeatureSummary{
			Name:               feature.Name,
			Description:        feature.Description,
			TestCaseCount:      len(cases),
			HallucinationCount: hallucinations,
		})
	}

	if allCases == nil {
		allCases = []*core.TestCase{}
	}
	s = s.apply(Delta{
		TestCases: allCases,
		Issues:    allIssues,
		Summaries: summaries,
		BatchMode: true,
	})
	emit(Event{Type: EventComplete, Result: formatResult(s)})
}

// streamFeature runs one feature's sub-pipeline, emitting a test_case
// event as each case validates. Panics and stage failures degrade to a
// single issue naming the feature, so siblings keep processing; stop
// reports that the run was cancelled mid-feature.
func (p *Pipeline) streamFeature(ctx context.Context, s State, feature core.Feature, emit func(Event) bool) (cases []*core.TestCase, issues []string, hallucinations int, stop bool) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("panic while processing feature", "feature", feature.Name, "panic", r)
			cases = nil
			issues = []string{fmt.Sprintf("Error processing feature '%s': %v", feature.Name, r)}
			hallucinations = 0
			stop = false
		}
	}()

	sub := s.subState(feature)
	sub = sub.apply(p.retrieveStage(ctx, sub))
	if sub.Failure == nil {
		sub = sub.apply(p.generateStage(ctx, sub))
	}
	if sub.Failure != nil {
		p.logger.Error("feature failed in stream", "feature", feature.Name, "err", sub.Failure.Message)
		return nil, []string{fmt.Sprintf("Error processing feature '%s': %s", feature.Name, sub.Failure.Message)}, 0, false
	}

	contextText := joinChunks(sub.Retrieved)
	for _, tc := range sub.TestCases {
		if ctx.Err() != nil {
			return nil, nil, 0, true
		}
		if issue := p.validateCase(ctx, tc, contextText); issue != "" {
			issues = append(issues, issue)
		}
		if tc.HallucinationFlag {
			hallucinations++
		}
		tc.Feature = feature.Name
		tc.FeatureDescription = feature.Description
		if !emit(Event{Type: EventTestCase, TestCase: tc, Feature: feature.Name}) {
			return nil, nil, 0, true
		}
	}

	return sub.TestCases, issues, hallucinations, false
}
