package pipeline

import (
	"context"
	"fmt"

	"github.com/forgeqa/caseforge/core"
)

// batchStage runs the retrieve → generate → validate sub-pipeline once
// per extracted feature, in extraction order. Every feature gets an
// isolated sub-state; one feature's failure or panic becomes a single
// issue naming it and never prevents results for the others. A summary
// is recorded per feature regardless of outcome.
func (p *Pipeline) batchStage(ctx context.Context, s State) Delta {
	if len(s.Features) == 0 {
		p.logger.Warn("no features extracted, returning empty results")
		return Delta{TestCases: []*core.TestCase{}, Summaries: []core.FeatureSummary{}, BatchMode: true}
	}

	p.logger.Info("processing features", "count", len(s.Features))

	var (
		allCases  []*core.TestCase
		allIssues []string
		summaries []core.FeatureSummary
	)

	for i, feature := range s.Features {
		p.logger.Info("processing feature", "current", i+1, "total", len(s.Features), "feature", feature.Name)

		cases, issues := p.processFeature(ctx, s, feature)

		hallucinations := 0
		for _, tc := range cases {
			if tc.HallucinationFlag {
				hallucinations++
			}
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

	p.logger.Info("batch processing complete",
		"features", len(summaries), "testCases", len(allCases), "issues", len(allIssues))

	if allCases == nil {
		allCases = []*core.TestCase{}
	}
	return Delta{
		TestCases: allCases,
		Issues:    allIssues,
		Summaries: summaries,
		BatchMode: true,
	}
}

// processFeature runs one feature's sub-pipeline against an isolated
// sub-state and tags the resulting test cases with the feature. Panics
// and stage failures are converted into a single issue string.
func (p *Pipeline) processFeature(ctx context.Context, s State, feature core.Feature) (cases []*core.TestCase, issues []string) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("panic while processing feature", "feature", feature.Name, "panic", r)
			cases = nil
			issues = []string{fmt.Sprintf("Error processing feature '%s': %v", feature.Name, r)}
		}
	}()

	sub := s.subState(feature)

	sub = sub.apply(p.retrieveStage(ctx, sub))
	if sub.Failure == nil {
		sub = sub.apply(p.generateStage(ctx, sub))
	}
	if sub.Failure == nil {
		sub = sub.apply(p.validateStage(ctx, sub))
	}

	if sub.Failure != nil {
		return nil, []string{fmt.Sprintf("Error processing feature '%s': %s", feature.Name, sub.Failure.Message)}
	}

	for _, tc := range sub.TestCases {
		tc.Feature = feature.Name
		tc.FeatureDescription = feature.Description
	}

	return sub.TestCases, sub.Issues
}
