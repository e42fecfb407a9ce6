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

// node is a position in the run's state machine.
type node int

const (
	nodeStart node = iota
	nodeIngested
	nodeSplit
	nodeIndexed
	nodeExtracted
	nodeBatch
	nodeRetrieved
	nodeGenerated
	nodeValidated
	nodeFormatted
)

// Run executes the full pipeline for a request and returns the final
// result. Document loading and splitting failures are returned as
// errors; everything from indexing onward degrades into the Result's
// error fields so the payload shape stays well-formed.
func (p *Pipeline) Run(ctx context.Context, req *core.Request) (*Result, error) {
	if err := core.ValidateRequest(req); err != nil {
		return nil, err
	}

	s := newState(req)
	p.logger.Info("starting run", "source", req.Source(), "selector", req.FeatureSelector, "mode", s.Mode)

	current := nodeStart
	for current != nodeFormatted {
		var err error
		current, s, err = p.step(ctx, current, s)
		if err != nil {
			return nil, err
		}
	}

	result := formatResult(s)
	p.logger.Info("run complete", "testCases", len(result.TestCases), "issues", len(result.HallucinationReport.Issues))
	return result, nil
}

// step advances the state machine by one node. After every stage a
// latched failure short-circuits straight to formatting.
func (p *Pipeline) step(ctx context.Context, current node, s State) (node, State, error) {
	switch current {
	case nodeStart:
		segments, err := p.loader.Load(ctx, s.Request)
		if err != nil {
			return current, s, fmt.Errorf("loading document: %w", err)
		}
		return nodeIngested, s.apply(Delta{Segments: segments}), nil

	case nodeIngested:
		chunks, err := p.splitter.Split(s.Segments)
		if err != nil {
			return current, s, fmt.Errorf("splitting document: %w", err)
		}
		p.logger.Info("document split", "segments", len(s.Segments), "chunks", len(chunks))
		return nodeSplit, s.apply(Delta{Chunks: chunks}), nil

	case nodeSplit:
		s = s.apply(p.indexStage(ctx, s))
		return next(nodeIndexed, s), s, nil

	case nodeIndexed:
		if s.Mode == core.ModeAllFeatures {
			return nodeExtracted, s, nil
		}
		return nodeRetrieved, s, nil

	case nodeExtracted:
		s = s.apply(p.extractStage(ctx, s))
		return next(nodeBatch, s), s, nil

	case nodeBatch:
		s = s.apply(p.batchStage(ctx, s))
		return nodeFormatted, s, nil

	case nodeRetrieved:
		s = s.apply(p.retrieveStage(ctx, s))
		return next(nodeGenerated, s), s, nil

	case nodeGenerated:
		s = s.apply(p.generateStage(ctx, s))
		return next(nodeValidated, s), s, nil

	case nodeValidated:
		s = s.apply(p.validateStage(ctx, s))
		return nodeFormatted, s, nil

	default:
		return nodeFormatted, s, nil
	}
}

// next returns the desired node, or jumps to formatting if the state
// has latched a failure.
func next(desired node, s State) node {
	if s.Failure != nil {
		return nodeFormatted
	}
	return desired
}
