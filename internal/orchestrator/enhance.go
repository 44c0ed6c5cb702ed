package orchestrator

import (
	"context"

	"api-testgen/internal/ai"
	"api-testgen/internal/types"
)

// enhance runs the confidence-gated AI enhancement path for one
// endpoint's cases. Every failure mode (gate unavailable, timeout,
// transport error, low confidence, unparseable response) returns the
// deterministic cases untouched.
func (o *Orchestrator) enhance(ctx context.Context, ep types.Endpoint, analysis types.EndpointAnalysis, cases []types.GeneratedTestCase) []types.GeneratedTestCase {
	if len(cases) == 0 {
		return cases
	}
	if err := o.aiGate.Acquire(ctx, 1); err != nil {
		return cases
	}
	defer o.aiGate.Release(1)

	prompt := ai.BuildEnhancementPrompt(ep, analysis, cases)

	var result ai.Result
	var err error
	for attempt := 0; attempt <= o.cfg.AI.MaxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, o.cfg.AI.Timeout)
		result, err = o.accel.Generate(callCtx, prompt)
		cancel()
		if err == nil {
			break
		}
	}
	o.log.LogAIInteraction(ep.Identity(), o.accel.Name(), result.Confidence, err)
	if err != nil {
		return cases
	}
	if result.Confidence < o.cfg.AI.ConfidenceThreshold {
		o.log.Infof("endpoint %s: discarding AI result below confidence threshold (%.2f < %.2f)",
			ep.Identity(), result.Confidence, o.cfg.AI.ConfidenceThreshold)
		return cases
	}

	enhancements, err := ai.ParseEnhancements(result.Text)
	if err != nil {
		o.log.Warnf("endpoint %s: %v", ep.Identity(), err)
		return cases
	}
	return applyEnhancements(cases, enhancements)
}

// applyEnhancements rewrites names, descriptions and tags for matching
// case ids. Payloads, assertions and ordering never change: the
// deterministic output stays authoritative.
func applyEnhancements(cases []types.GeneratedTestCase, enhancements []ai.CaseEnhancement) []types.GeneratedTestCase {
	byID := make(map[string]ai.CaseEnhancement, len(enhancements))
	for _, e := range enhancements {
		byID[e.ID] = e
	}

	out := make([]types.GeneratedTestCase, len(cases))
	copy(out, cases)
	for i, c := range out {
		e, ok := byID[c.ID]
		if !ok {
			continue
		}
		if e.Name != "" {
			out[i].Name = e.Name
		}
		if e.Description != "" {
			out[i].Description = e.Description
		}
		for _, tag := range e.Tags {
			if !out[i].HasTag(tag) {
				out[i].Tags = append(out[i].Tags, tag)
			}
		}
	}
	return out
}
