package generator

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"api-testgen/internal/types"
)

// caseNamespace seeds the deterministic case ids: SHA-1 UUIDs over
// endpoint identity, scenario and ordinal, stable across runs for
// identical input.
var caseNamespace = uuid.MustParse("7d2e9c4a-0b31-4f6e-8a57-c1d9e0f2b384")

// baseCaseDuration is the per-case execution estimate before scaling.
const baseCaseDuration = 500 * time.Millisecond

// BuildCase turns one candidate into the immutable public output unit.
// The ordinal is the candidate's position in generation order and feeds
// the deterministic id.
func BuildCase(ep types.Endpoint, c types.CandidateTestCase, ordinal int, strategy string, createdAt time.Time) types.GeneratedTestCase {
	id := uuid.NewSHA1(caseNamespace, []byte(fmt.Sprintf("%s|%s|%d", ep.Identity(), c.Scenario, ordinal))).String()

	return types.GeneratedTestCase{
		ID:                id,
		Name:              c.Name,
		Description:       c.Description,
		Scenario:          c.Scenario,
		Strategy:          strategy,
		Steps:             buildSteps(ep, c),
		Data:              buildData(c),
		Assertions:        buildAssertions(c),
		Priority:          c.Priority,
		EstimatedDuration: estimateDuration(c),
		Complexity:        c.Complexity,
		Tags:              buildTags(c),
		CreatedAt:         createdAt,
	}
}

func buildSteps(ep types.Endpoint, c types.CandidateTestCase) []types.TestStep {
	var steps []types.TestStep
	order := 1

	if ep.RequiresAuthentication() && !hasMarker(c, "missing-auth") {
		steps = append(steps, types.TestStep{
			Order:  order,
			Action: "authenticate",
			Target: fmt.Sprintf("security schemes: %v", ep.Security),
		})
		order++
	}

	headers := map[string]string{}
	for k, v := range c.Headers {
		headers[k] = v
	}
	if c.ContentType != "" {
		headers["Content-Type"] = c.ContentType
	}
	request := types.TestStep{
		Order:   order,
		Action:  "send-request",
		Method:  ep.Method,
		Target:  ep.Path,
		Payload: c.Payload,
		Headers: headers,
	}
	if len(c.PathParams) > 0 || len(c.QueryParams) > 0 {
		request.Params = map[string]interface{}{}
		if len(c.PathParams) > 0 {
			request.Params["path"] = c.PathParams
		}
		if len(c.QueryParams) > 0 {
			request.Params["query"] = c.QueryParams
		}
	}
	steps = append(steps, request)
	order++

	if c.Expectations != nil && c.Expectations.ConcurrencyLevel > 1 {
		steps = append(steps, types.TestStep{
			Order:  order,
			Action: "repeat-concurrently",
			Target: fmt.Sprintf("%d parallel clients", c.Expectations.ConcurrencyLevel),
		})
		order++
	}

	steps = append(steps, types.TestStep{
		Order:  order,
		Action: "validate-response",
	})
	return steps
}

func buildData(c types.CandidateTestCase) types.TestDataSet {
	return types.TestDataSet{
		PathParams:  c.PathParams,
		QueryParams: c.QueryParams,
		Body:        c.Payload,
		Headers:     c.Headers,
		ContentType: c.ContentType,
	}
}

func buildAssertions(c types.CandidateTestCase) []types.Assertion {
	assertions := []types.Assertion{{
		Kind:        "status",
		Target:      "response.status",
		Expected:    c.ExpectedStatus,
		Description: fmt.Sprintf("status code is %d", c.ExpectedStatus),
	}}
	if !c.ExpectSuccess {
		assertions = append(assertions, types.Assertion{
			Kind:        "status-class",
			Target:      "response.status",
			Expected:    "non-2xx",
			Description: "request must not be treated as successful",
		})
	}
	if c.Expectations == nil {
		return assertions
	}
	for _, name := range sortedHeaderNames(c.Expectations.Headers) {
		assertions = append(assertions, types.Assertion{
			Kind:        "header",
			Target:      "response.headers." + name,
			Expected:    c.Expectations.Headers[name],
			Description: fmt.Sprintf("header %s matches", name),
		})
	}
	if c.Expectations.MaxDuration > 0 {
		assertions = append(assertions, types.Assertion{
			Kind:        "duration",
			Target:      "response.time",
			Expected:    c.Expectations.MaxDuration.String(),
			Description: fmt.Sprintf("responds within %v", c.Expectations.MaxDuration),
		})
	}
	for _, marker := range c.Expectations.SecurityMarkers {
		assertions = append(assertions, types.Assertion{
			Kind:        "security",
			Target:      "response.body",
			Expected:    marker,
			Description: fmt.Sprintf("no evidence of %s succeeding", marker),
		})
	}
	return assertions
}

// estimateDuration scales the base constant for security, load and
// large-payload cases.
func estimateDuration(c types.CandidateTestCase) time.Duration {
	d := baseCaseDuration
	switch c.Scenario {
	case types.ScenarioSecurity:
		d *= 2
	case types.ScenarioPerformance:
		d *= 4
		if c.Expectations != nil && c.Expectations.ConcurrencyLevel > 0 {
			d += time.Duration(c.Expectations.ConcurrencyLevel) * 20 * time.Millisecond
		}
	}
	if hasTag(c.Tags, "large-payload") || hasTag(c.Tags, "oversized") {
		d *= 3
	}
	return d
}

func buildTags(c types.CandidateTestCase) []string {
	tags := []string{string(c.Scenario)}
	for _, t := range c.Tags {
		if !hasTag(tags, t) {
			tags = append(tags, t)
		}
	}
	return tags
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func hasMarker(c types.CandidateTestCase, marker string) bool {
	if c.Expectations == nil {
		return false
	}
	for _, m := range c.Expectations.SecurityMarkers {
		if m == marker {
			return true
		}
	}
	return false
}

func sortedHeaderNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
