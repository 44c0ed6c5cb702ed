package generator

import (
	"sort"

	"api-testgen/internal/types"
)

// EndpointConstraints carries the analyzer's output for one endpoint:
// request-body constraints per content type and per-parameter constraints.
type EndpointConstraints struct {
	Body       map[string]*types.DataConstraints
	Parameters map[string]*types.DataConstraints
}

// BodyContentTypes returns the declared content types in sorted order.
func (c EndpointConstraints) BodyContentTypes() []string {
	out := make([]string, 0, len(c.Body))
	for ct := range c.Body {
		out = append(out, ct)
	}
	sort.Strings(out)
	return out
}

// Options configures scenario generation.
type Options struct {
	Scenarios map[types.Scenario]bool
	EdgeTier  types.EdgeAggressiveness
	Seeds     ValueSource
}

// Generator enumerates candidate test cases for one endpoint. Pure and
// deterministic: identical input yields an identical candidate list.
type Generator struct {
	opts  Options
	synth *Synthesizer
}

// New creates a scenario generator.
func New(opts Options) *Generator {
	return &Generator{
		opts:  opts,
		synth: NewSynthesizer(opts.Seeds),
	}
}

// Generate produces candidates for every enabled scenario category, in
// fixed category order. Disabling all categories yields an empty slice.
func (g *Generator) Generate(ep types.Endpoint, cons EndpointConstraints, analysis types.EndpointAnalysis) []types.CandidateTestCase {
	var out []types.CandidateTestCase
	for _, scenario := range types.AllScenarios {
		if !g.opts.Scenarios[scenario] {
			continue
		}
		switch scenario {
		case types.ScenarioFunctional:
			out = append(out, g.functional(ep, cons)...)
		case types.ScenarioBoundary:
			out = append(out, g.boundary(ep, cons)...)
		case types.ScenarioSecurity:
			out = append(out, g.security(ep, cons, analysis)...)
		case types.ScenarioPerformance:
			out = append(out, g.performance(ep, cons, analysis)...)
		case types.ScenarioEdgeCase:
			out = append(out, g.edge(ep, cons)...)
		case types.ScenarioDataQuality:
			out = append(out, g.dataQuality(ep, cons)...)
		}
	}
	return out
}

// successStatus picks the lowest declared 2xx status, defaulting to 200.
func successStatus(ep types.Endpoint) int {
	status := 0
	for code := range ep.Responses {
		if code >= 200 && code < 300 && (status == 0 || code < status) {
			status = code
		}
	}
	if status == 0 {
		return 200
	}
	return status
}

// declaredStatuses returns the endpoint's response codes in ascending
// order.
func declaredStatuses(ep types.Endpoint) []int {
	codes := make([]int, 0, len(ep.Responses))
	for code := range ep.Responses {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

// requestParams synthesizes valid path and query parameter values.
func (g *Generator) requestParams(ep types.Endpoint, cons EndpointConstraints) (path, query map[string]interface{}) {
	path = make(map[string]interface{})
	query = make(map[string]interface{})
	for _, p := range ep.Parameters {
		c := cons.Parameters[p.Name]
		switch p.In {
		case "path":
			path[p.Name] = g.synth.Valid(p.Name, c)
		case "query":
			if p.Required {
				query[p.Name] = g.synth.Valid(p.Name, c)
			}
		}
	}
	return path, query
}

// stringProperties lists body properties of string type in sorted order.
func stringProperties(c *types.DataConstraints) []string {
	if c == nil {
		return nil
	}
	var names []string
	for name, prop := range c.Properties {
		if prop != nil && prop.Type == "string" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
