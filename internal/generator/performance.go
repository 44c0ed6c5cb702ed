package generator

import (
	"fmt"
	"time"

	"api-testgen/internal/types"
)

// concurrencyLevels is the fixed ladder of parallel-load cases.
var concurrencyLevels = []int{1, 10, 50}

// largePayloadFloor is the item count used for the large-payload case when
// the schema declares no array bound.
const largePayloadFloor = 100

// performance emits the fixed concurrency ladder plus a large-payload
// case whose size scales with the declared array and string bounds.
func (g *Generator) performance(ep types.Endpoint, cons EndpointConstraints, analysis types.EndpointAnalysis) []types.CandidateTestCase {
	var out []types.CandidateTestCase
	pathParams, queryParams := g.requestParams(ep, cons)
	status := successStatus(ep)

	ceiling := 2 * time.Second
	if analysis.PerformanceImpact.Level >= types.LevelHigh {
		ceiling = 5 * time.Second
	}

	for _, level := range concurrencyLevels {
		out = append(out, types.CandidateTestCase{
			Scenario:       types.ScenarioPerformance,
			Name:           fmt.Sprintf("%s %s under %d concurrent requests", ep.Method, ep.Path, level),
			Description:    fmt.Sprintf("Latency ceiling %v must hold at concurrency %d", ceiling, level),
			PathParams:     pathParams,
			QueryParams:    queryParams,
			ExpectedStatus: status,
			ExpectSuccess:  true,
			Expectations: &types.Expectations{
				MaxDuration:      ceiling,
				ConcurrencyLevel: level,
			},
			Priority:   3,
			Complexity: 3,
			Tags:       []string{"performance", "load"},
		})
	}

	for _, ct := range cons.BodyContentTypes() {
		body := cons.Body[ct]
		payload := g.largePayload(body)
		if payload == nil {
			continue
		}
		out = append(out, types.CandidateTestCase{
			Scenario:       types.ScenarioPerformance,
			Name:           fmt.Sprintf("%s %s with maximum-size %s payload", ep.Method, ep.Path, ct),
			Description:    "Payload sized to the declared bounds, or the default floor when unbounded",
			ContentType:    ct,
			Payload:        payload,
			PathParams:     pathParams,
			QueryParams:    queryParams,
			ExpectedStatus: status,
			ExpectSuccess:  true,
			Expectations:   &types.Expectations{MaxDuration: 2 * ceiling},
			Priority:       4,
			Complexity:     4,
			Tags:           []string{"performance", "large-payload"},
		})
		break // one large-payload case per endpoint is enough
	}
	return out
}

// largePayload builds the biggest representable payload: arrays filled to
// their maximum item count, strings to their maximum length.
func (g *Generator) largePayload(c *types.DataConstraints) interface{} {
	if c == nil {
		return nil
	}
	switch c.Type {
	case "array":
		count := int64(largePayloadFloor)
		if c.MaxItems != nil {
			count = *c.MaxItems
		}
		out := make([]interface{}, 0, count)
		for i := int64(0); i < count; i++ {
			out = append(out, g.synth.Valid("", c.Items))
		}
		return out
	case "object":
		out := make(map[string]interface{})
		for _, name := range sortedPropertyNames(c) {
			prop := c.Properties[name]
			if prop != nil && prop.Type == "string" {
				out[name] = g.synth.MaximalString(prop)
			} else if prop != nil && prop.Type == "array" {
				out[name] = g.largePayload(prop)
			} else {
				out[name] = g.synth.Valid(name, prop)
			}
		}
		return out
	case "string":
		return g.synth.MaximalString(c)
	default:
		return nil
	}
}
