package generator

import (
	"fmt"
	"strings"

	"api-testgen/internal/types"
)

// edge emits cases tiered by the configured aggressiveness. Each tier is
// strictly additive: extreme includes everything aggressive does, and so
// on down to none, which emits nothing.
func (g *Generator) edge(ep types.Endpoint, cons EndpointConstraints) []types.CandidateTestCase {
	tier := g.opts.EdgeTier
	if tier == types.EdgeNone {
		return nil
	}

	var out []types.CandidateTestCase
	pathParams, queryParams := g.requestParams(ep, cons)
	hasBody := len(cons.Body) > 0
	ct := ""
	if cts := cons.BodyContentTypes(); len(cts) > 0 {
		ct = cts[0]
	}

	// basic: empty body for body-carrying endpoints.
	if hasBody {
		out = append(out, types.CandidateTestCase{
			Scenario:       types.ScenarioEdgeCase,
			Name:           fmt.Sprintf("%s %s with empty body", ep.Method, ep.Path),
			Description:    "Declared body omitted entirely",
			ContentType:    ct,
			PathParams:     pathParams,
			QueryParams:    queryParams,
			ExpectedStatus: 400,
			ExpectSuccess:  false,
			Priority:       4,
			Complexity:     1,
			Tags:           []string{"edge", "empty-body"},
		})
	}

	if tier >= types.EdgeStandard {
		if hasBody {
			payload := g.synth.ValidObject(cons.Body[ct])
			for _, name := range stringProperties(cons.Body[ct]) {
				payload[name] = "ünïcödé-❤-테스트-🚀"
				break
			}
			out = append(out, types.CandidateTestCase{
				Scenario:       types.ScenarioEdgeCase,
				Name:           fmt.Sprintf("%s %s with unicode content", ep.Method, ep.Path),
				Description:    "Multi-byte and emoji content in a string property",
				ContentType:    ct,
				Payload:        payload,
				PathParams:     pathParams,
				QueryParams:    queryParams,
				ExpectedStatus: successStatus(ep),
				ExpectSuccess:  true,
				Priority:       4,
				Complexity:     2,
				Tags:           []string{"edge", "unicode"},
			})
		} else if len(queryParams) > 0 {
			query := copyValues(queryParams)
			for name := range query {
				query[name] = "ünïcödé-❤"
			}
			out = append(out, types.CandidateTestCase{
				Scenario:       types.ScenarioEdgeCase,
				Name:           fmt.Sprintf("%s %s with unicode query values", ep.Method, ep.Path),
				Description:    "Multi-byte content in query parameters",
				PathParams:     pathParams,
				QueryParams:    query,
				ExpectedStatus: successStatus(ep),
				ExpectSuccess:  true,
				Priority:       4,
				Complexity:     2,
				Tags:           []string{"edge", "unicode"},
			})
		}
	}

	if tier >= types.EdgeAggressive && hasBody {
		out = append(out, types.CandidateTestCase{
			Scenario:       types.ScenarioEdgeCase,
			Name:           fmt.Sprintf("%s %s with oversized payload", ep.Method, ep.Path),
			Description:    "Payload far beyond any declared bound",
			ContentType:    ct,
			Payload:        map[string]interface{}{"oversized": strings.Repeat("x", 1<<16)},
			PathParams:     pathParams,
			QueryParams:    queryParams,
			ExpectedStatus: 413,
			ExpectSuccess:  false,
			Priority:       4,
			Complexity:     3,
			Tags:           []string{"edge", "oversized"},
		})
	}

	if tier >= types.EdgeExtreme && hasBody {
		out = append(out, types.CandidateTestCase{
			Scenario:       types.ScenarioEdgeCase,
			Name:           fmt.Sprintf("%s %s with truncated payload", ep.Method, ep.Path),
			Description:    "Syntactically invalid body, cut off mid-document",
			ContentType:    ct,
			Payload:        `{"truncated": "yes", "field`,
			PathParams:     pathParams,
			QueryParams:    queryParams,
			ExpectedStatus: 400,
			ExpectSuccess:  false,
			Priority:       4,
			Complexity:     3,
			Tags:           []string{"edge", "corrupted"},
		})
	}
	return out
}
