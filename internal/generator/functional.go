package generator

import (
	"fmt"

	"api-testgen/internal/types"
)

// functional emits one valid-request case per supported content type, and
// one status-contract case per declared non-2xx response. A response with
// no declared schema still yields a body-shape-agnostic case asserting
// status and content type only.
func (g *Generator) functional(ep types.Endpoint, cons EndpointConstraints) []types.CandidateTestCase {
	var out []types.CandidateTestCase
	pathParams, queryParams := g.requestParams(ep, cons)
	status := successStatus(ep)

	contentTypes := cons.BodyContentTypes()
	if len(contentTypes) == 0 {
		out = append(out, types.CandidateTestCase{
			Scenario:       types.ScenarioFunctional,
			Name:           fmt.Sprintf("%s %s returns %d", ep.Method, ep.Path, status),
			Description:    "Valid request with no payload succeeds",
			PathParams:     pathParams,
			QueryParams:    queryParams,
			ExpectedStatus: status,
			ExpectSuccess:  true,
			Priority:       2,
			Complexity:     1,
			Tags:           []string{"happy-path"},
		})
	}
	for _, ct := range contentTypes {
		out = append(out, types.CandidateTestCase{
			Scenario:       types.ScenarioFunctional,
			Name:           fmt.Sprintf("%s %s accepts valid %s payload", ep.Method, ep.Path, ct),
			Description:    "Payload synthesized from the declared schema, every known property populated",
			ContentType:    ct,
			Payload:        g.bodyPayload(cons.Body[ct]),
			PathParams:     pathParams,
			QueryParams:    queryParams,
			ExpectedStatus: status,
			ExpectSuccess:  true,
			Priority:       2,
			Complexity:     2,
			Tags:           []string{"happy-path", "schema"},
		})
	}

	for _, code := range declaredStatuses(ep) {
		if code < 400 {
			continue
		}
		out = append(out, types.CandidateTestCase{
			Scenario:       types.ScenarioFunctional,
			Name:           fmt.Sprintf("%s %s declares %d response contract", ep.Method, ep.Path, code),
			Description:    fmt.Sprintf("Error status %d is reachable and carries the declared shape", code),
			PathParams:     pathParams,
			ExpectedStatus: code,
			ExpectSuccess:  false,
			Priority:       3,
			Complexity:     1,
			Tags:           []string{"error-handling"},
		})
	}
	return out
}

// bodyPayload synthesizes a full valid body for the given constraints.
func (g *Generator) bodyPayload(c *types.DataConstraints) interface{} {
	if c == nil {
		return map[string]interface{}{}
	}
	switch c.Type {
	case "array":
		return g.synth.validArray("", c)
	case "object", "":
		return g.synth.ValidObject(c)
	default:
		return g.synth.Valid("", c)
	}
}
