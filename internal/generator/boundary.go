package generator

import (
	"fmt"
	"sort"

	"api-testgen/internal/types"
)

// maxBoundaryPairs caps pairwise combination cases per endpoint.
const maxBoundaryPairs = 3

// boundary emits minimum and maximum representable values per bounded
// body property, plus a bounded number of pairwise combinations when at
// least two properties are constrained.
func (g *Generator) boundary(ep types.Endpoint, cons EndpointConstraints) []types.CandidateTestCase {
	var out []types.CandidateTestCase
	pathParams, queryParams := g.requestParams(ep, cons)
	status := successStatus(ep)

	for _, ct := range cons.BodyContentTypes() {
		body := cons.Body[ct]
		if body == nil || len(body.Properties) == 0 {
			continue
		}
		bounded := boundedProperties(body)
		for _, name := range bounded {
			prop := body.Properties[name]
			for _, side := range []string{"minimum", "maximum"} {
				payload := g.synth.ValidObject(body)
				payload[name] = g.boundaryValue(prop, side)
				out = append(out, types.CandidateTestCase{
					Scenario:       types.ScenarioBoundary,
					Name:           fmt.Sprintf("%s %s with %s at %s bound", ep.Method, ep.Path, name, side),
					Description:    fmt.Sprintf("Property %q set to its %s representable value", name, side),
					ContentType:    ct,
					Payload:        payload,
					PathParams:     pathParams,
					QueryParams:    queryParams,
					ExpectedStatus: status,
					ExpectSuccess:  true,
					Priority:       3,
					Complexity:     2,
					Tags:           []string{"boundary"},
				})
			}
		}

		if len(bounded) >= 2 {
			pairs := 0
			for i := 0; i < len(bounded) && pairs < maxBoundaryPairs; i++ {
				for j := i + 1; j < len(bounded) && pairs < maxBoundaryPairs; j++ {
					payload := g.synth.ValidObject(body)
					payload[bounded[i]] = g.boundaryValue(body.Properties[bounded[i]], "maximum")
					payload[bounded[j]] = g.boundaryValue(body.Properties[bounded[j]], "maximum")
					out = append(out, types.CandidateTestCase{
						Scenario:       types.ScenarioBoundary,
						Name:           fmt.Sprintf("%s %s with %s and %s both at maximum", ep.Method, ep.Path, bounded[i], bounded[j]),
						Description:    "Two constrained properties at their bounds simultaneously",
						ContentType:    ct,
						Payload:        payload,
						PathParams:     pathParams,
						QueryParams:    queryParams,
						ExpectedStatus: status,
						ExpectSuccess:  true,
						Priority:       3,
						Complexity:     3,
						Tags:           []string{"boundary", "combinatorial"},
					})
					pairs++
				}
			}
		}
	}

	// Bounded query parameters get the same min/max treatment.
	for _, p := range ep.Parameters {
		if p.In != "query" {
			continue
		}
		c := cons.Parameters[p.Name]
		if !hasBounds(c) {
			continue
		}
		for _, side := range []string{"minimum", "maximum"} {
			query := copyValues(queryParams)
			query[p.Name] = g.boundaryValue(c, side)
			out = append(out, types.CandidateTestCase{
				Scenario:       types.ScenarioBoundary,
				Name:           fmt.Sprintf("%s %s with query %s at %s bound", ep.Method, ep.Path, p.Name, side),
				Description:    fmt.Sprintf("Query parameter %q at its %s representable value", p.Name, side),
				PathParams:     pathParams,
				QueryParams:    query,
				ExpectedStatus: status,
				ExpectSuccess:  true,
				Priority:       3,
				Complexity:     2,
				Tags:           []string{"boundary"},
			})
		}
	}
	return out
}

// boundaryValue returns the extreme value on the requested side.
func (g *Generator) boundaryValue(c *types.DataConstraints, side string) interface{} {
	if c == nil {
		c = &types.DataConstraints{}
	}
	switch c.Type {
	case "string":
		if side == "minimum" {
			return g.synth.MinimalString(c)
		}
		return g.synth.MaximalString(c)
	case "integer":
		if side == "minimum" {
			if c.Minimum != nil {
				return int64(*c.Minimum)
			}
			return int64(0)
		}
		if c.Maximum != nil {
			return int64(*c.Maximum)
		}
		return int64(2147483647)
	case "number":
		if side == "minimum" {
			if c.Minimum != nil {
				return *c.Minimum
			}
			return 0.0
		}
		if c.Maximum != nil {
			return *c.Maximum
		}
		return 1e9
	case "array":
		count := int64(0)
		if side == "minimum" {
			if c.MinItems != nil {
				count = *c.MinItems
			}
		} else {
			count = 10
			if c.MaxItems != nil {
				count = *c.MaxItems
			}
		}
		out := make([]interface{}, 0, count)
		for i := int64(0); i < count; i++ {
			out = append(out, g.synth.Valid("", c.Items))
		}
		return out
	default:
		return g.synth.Valid("", c)
	}
}

// boundedProperties lists the property names carrying explicit bounds, in
// sorted order.
func boundedProperties(body *types.DataConstraints) []string {
	var names []string
	for name, prop := range body.Properties {
		if hasBounds(prop) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func hasBounds(c *types.DataConstraints) bool {
	if c == nil {
		return false
	}
	return c.MinLength != nil || c.MaxLength != nil ||
		c.Minimum != nil || c.Maximum != nil ||
		c.MinItems != nil || c.MaxItems != nil
}

func copyValues(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
