package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"api-testgen/internal/types"
)

const enhancementSystemPrompt = "You are an API testing expert. You refine generated test case names, descriptions and tags. Always respond with the requested JSON and nothing else."

// CaseEnhancement is the only shape an accelerator may contribute:
// renames, better descriptions and extra tags for existing cases. Payloads
// stay deterministic.
type CaseEnhancement struct {
	ID          string   `json:"id"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// BuildEnhancementPrompt asks the model to improve the human-facing parts
// of the deterministic cases for one endpoint.
func BuildEnhancementPrompt(ep types.Endpoint, analysis types.EndpointAnalysis, cases []types.GeneratedTestCase) Prompt {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Endpoint: %s %s\n", ep.Method, ep.Path)
	if ep.Summary != "" {
		fmt.Fprintf(&sb, "Summary: %s\n", ep.Summary)
	}
	fmt.Fprintf(&sb, "Complexity: %s, security risk: %s, performance impact: %s\n\n",
		analysis.Complexity.Level, analysis.SecurityRisk.Level, analysis.PerformanceImpact.Level)
	sb.WriteString("Generated test cases:\n")
	for _, c := range cases {
		fmt.Fprintf(&sb, "- id=%s scenario=%s name=%q\n", c.ID, c.Scenario, c.Name)
	}
	sb.WriteString(`
Improve the names and descriptions so a test engineer immediately understands intent, and add domain tags where useful. Do not invent new cases and do not change payloads.

Respond with a JSON array of objects: {"id": "...", "name": "...", "description": "...", "tags": ["..."]}. Include only cases you actually improve.`)

	return Prompt{System: enhancementSystemPrompt, User: sb.String()}
}

// ParseEnhancements decodes the model response, tolerating a fenced code
// block around the JSON.
func ParseEnhancements(text string) ([]CaseEnhancement, error) {
	text = strings.TrimSpace(text)
	if after, ok := strings.CutPrefix(text, "```json"); ok {
		text = after
	} else if after, ok := strings.CutPrefix(text, "```"); ok {
		text = after
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")

	var out []CaseEnhancement
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("failed to parse enhancement response: %w", err)
	}
	return out, nil
}
