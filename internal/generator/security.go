package generator

import (
	"fmt"
	"strings"

	"api-testgen/internal/types"
)

// Fixed attack corpora. Small on purpose: the budget favors one good
// probe per class over exhaustive fuzzing, which is an executor concern.
var (
	sqlInjectionPayloads = []string{
		"' OR '1'='1",
		"'; DROP TABLE users; --",
		"1 UNION SELECT null, version()--",
	}
	xssPayloads = []string{
		"<script>alert('xss')</script>",
		"\"><img src=x onerror=alert(1)>",
	}
	xxePayload = `<?xml version="1.0"?><!DOCTYPE r [<!ENTITY x SYSTEM "file:///etc/passwd">]><r>&x;</r>`
)

// security emits injection and XSS probes against string-typed inputs,
// an XXE probe only when the endpoint accepts XML, and a missing-auth
// case for authenticated endpoints.
func (g *Generator) security(ep types.Endpoint, cons EndpointConstraints, analysis types.EndpointAnalysis) []types.CandidateTestCase {
	var out []types.CandidateTestCase
	pathParams, queryParams := g.requestParams(ep, cons)

	for _, ct := range cons.BodyContentTypes() {
		body := cons.Body[ct]
		if isXMLContentType(ct) {
			out = append(out, types.CandidateTestCase{
				Scenario:       types.ScenarioSecurity,
				Name:           fmt.Sprintf("%s %s rejects XXE payload", ep.Method, ep.Path),
				Description:    "External-entity expansion attempt in the XML body",
				ContentType:    ct,
				Payload:        xxePayload,
				PathParams:     pathParams,
				QueryParams:    queryParams,
				ExpectedStatus: 400,
				ExpectSuccess:  false,
				Expectations:   &types.Expectations{SecurityMarkers: []string{"xxe"}},
				Priority:       1,
				Complexity:     3,
				Tags:           []string{"security", "xxe"},
			})
			continue
		}

		targets := stringProperties(body)
		if len(targets) == 0 {
			continue
		}
		target := targets[0]
		for i, attack := range sqlInjectionPayloads {
			payload := g.synth.ValidObject(body)
			payload[target] = attack
			out = append(out, types.CandidateTestCase{
				Scenario:       types.ScenarioSecurity,
				Name:           fmt.Sprintf("%s %s rejects SQL injection in %s (#%d)", ep.Method, ep.Path, target, i+1),
				Description:    "Injection probe in a string property; the API must not execute or reflect it",
				ContentType:    ct,
				Payload:        payload,
				PathParams:     pathParams,
				QueryParams:    queryParams,
				ExpectedStatus: 400,
				ExpectSuccess:  false,
				Expectations:   &types.Expectations{SecurityMarkers: []string{"sql-injection"}},
				Priority:       1,
				Complexity:     3,
				Tags:           []string{"security", "injection"},
			})
		}
		for i, attack := range xssPayloads {
			payload := g.synth.ValidObject(body)
			payload[target] = attack
			out = append(out, types.CandidateTestCase{
				Scenario:       types.ScenarioSecurity,
				Name:           fmt.Sprintf("%s %s sanitizes XSS in %s (#%d)", ep.Method, ep.Path, target, i+1),
				Description:    "Script payload in a string property must be rejected or escaped",
				ContentType:    ct,
				Payload:        payload,
				PathParams:     pathParams,
				QueryParams:    queryParams,
				ExpectedStatus: 400,
				ExpectSuccess:  false,
				Expectations:   &types.Expectations{SecurityMarkers: []string{"xss"}},
				Priority:       1,
				Complexity:     3,
				Tags:           []string{"security", "xss"},
			})
		}
	}

	// Query parameters take one injection probe each.
	for _, p := range ep.Parameters {
		if p.In != "query" {
			continue
		}
		query := copyValues(queryParams)
		query[p.Name] = sqlInjectionPayloads[0]
		out = append(out, types.CandidateTestCase{
			Scenario:       types.ScenarioSecurity,
			Name:           fmt.Sprintf("%s %s rejects injection via query %s", ep.Method, ep.Path, p.Name),
			Description:    "Injection probe through a query parameter",
			PathParams:     pathParams,
			QueryParams:    query,
			ExpectedStatus: 400,
			ExpectSuccess:  false,
			Expectations:   &types.Expectations{SecurityMarkers: []string{"sql-injection"}},
			Priority:       1,
			Complexity:     2,
			Tags:           []string{"security", "injection"},
		})
	}

	if ep.RequiresAuthentication() {
		out = append(out, types.CandidateTestCase{
			Scenario:       types.ScenarioSecurity,
			Name:           fmt.Sprintf("%s %s without credentials is denied", ep.Method, ep.Path),
			Description:    "Request omits every configured security scheme",
			PathParams:     pathParams,
			QueryParams:    queryParams,
			ExpectedStatus: 401,
			ExpectSuccess:  false,
			Expectations:   &types.Expectations{SecurityMarkers: []string{"missing-auth"}},
			Priority:       1,
			Complexity:     2,
			Tags:           []string{"security", "authentication"},
		})
	}
	return out
}

func isXMLContentType(ct string) bool {
	return strings.Contains(ct, "xml")
}
