package generator

import (
	"fmt"
	"sort"

	"api-testgen/internal/types"
)

// deepNestingDepth is how far the cross-scenario case nests its payload.
const deepNestingDepth = 6

// dataQuality emits integrity-oriented cases: nullable fields actually
// null, uniqueness violations for unique arrays, and, only when the
// functional category is also enabled, one deep-nested-structure
// cross-scenario case combining schema validation with data integrity.
func (g *Generator) dataQuality(ep types.Endpoint, cons EndpointConstraints) []types.CandidateTestCase {
	var out []types.CandidateTestCase
	pathParams, queryParams := g.requestParams(ep, cons)
	status := successStatus(ep)

	for _, ct := range cons.BodyContentTypes() {
		body := cons.Body[ct]
		if body == nil || len(body.Properties) == 0 {
			continue
		}

		if nullable := nullableProperties(body); len(nullable) > 0 {
			payload := g.synth.ValidObject(body)
			for _, name := range nullable {
				payload[name] = nil
			}
			out = append(out, types.CandidateTestCase{
				Scenario:       types.ScenarioDataQuality,
				Name:           fmt.Sprintf("%s %s with nullable fields null", ep.Method, ep.Path),
				Description:    "Every nullable property sent as explicit null",
				ContentType:    ct,
				Payload:        payload,
				PathParams:     pathParams,
				QueryParams:    queryParams,
				ExpectedStatus: status,
				ExpectSuccess:  true,
				Priority:       3,
				Complexity:     2,
				Tags:           []string{"data-quality", "null-handling"},
			})
		}

		for _, name := range uniqueArrayProperties(body) {
			payload := g.synth.ValidObject(body)
			dup := g.synth.Valid(name, body.Properties[name].Items)
			payload[name] = []interface{}{dup, dup}
			out = append(out, types.CandidateTestCase{
				Scenario:       types.ScenarioDataQuality,
				Name:           fmt.Sprintf("%s %s rejects duplicate items in %s", ep.Method, ep.Path, name),
				Description:    "uniqueItems array sent with two identical members",
				ContentType:    ct,
				Payload:        payload,
				PathParams:     pathParams,
				QueryParams:    queryParams,
				ExpectedStatus: 400,
				ExpectSuccess:  false,
				Priority:       3,
				Complexity:     2,
				Tags:           []string{"data-quality", "uniqueness"},
			})
		}

		// Cross-scenario combination, gated on both prerequisites.
		if g.opts.Scenarios[types.ScenarioFunctional] {
			payload := g.synth.ValidObject(body)
			nested := interface{}(map[string]interface{}{"value": "leaf"})
			for i := 0; i < deepNestingDepth; i++ {
				nested = map[string]interface{}{"nested": nested}
			}
			payload["_structure_probe"] = nested
			out = append(out, types.CandidateTestCase{
				Scenario:       types.ScenarioDataQuality,
				Name:           fmt.Sprintf("%s %s schema validation with deep-nested structure", ep.Method, ep.Path),
				Description:    "Valid payload carrying a deeply nested extra structure; validation must stay consistent",
				ContentType:    ct,
				Payload:        payload,
				PathParams:     pathParams,
				QueryParams:    queryParams,
				ExpectedStatus: status,
				ExpectSuccess:  true,
				Priority:       4,
				Complexity:     3,
				Tags:           []string{"data-quality", "schema", "cross-scenario"},
			})
		}
		break // one content type carries the data-quality cases
	}
	return out
}

func nullableProperties(body *types.DataConstraints) []string {
	var names []string
	for name, prop := range body.Properties {
		if prop != nil && prop.Nullable {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func uniqueArrayProperties(body *types.DataConstraints) []string {
	var names []string
	for name, prop := range body.Properties {
		if prop != nil && prop.Type == "array" && prop.UniqueItems {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
