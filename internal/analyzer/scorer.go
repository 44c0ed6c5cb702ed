package analyzer

import (
	"fmt"
	"strings"

	"api-testgen/internal/types"
)

// Thresholds bucket an accumulated score into LOW/MEDIUM/HIGH/CRITICAL:
// score <= Low is LOW, <= Medium is MEDIUM, <= High is HIGH, above is
// CRITICAL. The defaults are tuned by observation, not derived; treat them
// as configuration, not business rules.
type Thresholds struct {
	Low    int
	Medium int
	High   int
}

// DefaultThresholds are the per-dimension defaults.
var DefaultThresholds = ScorerOptions{
	Complexity:  Thresholds{Low: 5, Medium: 10, High: 16},
	Security:    Thresholds{Low: 3, Medium: 7, High: 12},
	Performance: Thresholds{Low: 3, Medium: 7, High: 12},
}

// ScorerOptions overrides the bucketing thresholds per dimension.
type ScorerOptions struct {
	Complexity  Thresholds
	Security    Thresholds
	Performance Thresholds
}

// sensitivePathTokens raise security risk when they appear in the path.
var sensitivePathTokens = []string{"admin", "internal", "file", "upload", "export", "batch", "search", "auth", "token", "password"}

// injectionProneNames raise security risk when a parameter carries one.
var injectionProneNames = []string{"query", "sql", "file", "command", "path", "url", "filter"}

// heavyPathTokens raise performance impact.
var heavyPathTokens = []string{"search", "batch", "export", "report", "all", "list", "bulk"}

// methodComplexity weights mutating methods higher.
var methodComplexity = map[string]int{
	"GET": 1, "HEAD": 1, "OPTIONS": 1, "TRACE": 1,
	"DELETE": 2,
	"POST":   3, "PUT": 3, "PATCH": 3,
}

// Scorer computes the three endpoint score dimensions. Total and
// deterministic: identical endpoint shape always yields identical output,
// which cache correctness and reproducible prioritization depend on.
type Scorer struct {
	opts ScorerOptions
}

// NewScorer creates a scorer with the given thresholds; zero-value
// dimensions fall back to the defaults.
func NewScorer(opts ScorerOptions) *Scorer {
	if opts.Complexity == (Thresholds{}) {
		opts.Complexity = DefaultThresholds.Complexity
	}
	if opts.Security == (Thresholds{}) {
		opts.Security = DefaultThresholds.Security
	}
	if opts.Performance == (Thresholds{}) {
		opts.Performance = DefaultThresholds.Performance
	}
	return &Scorer{opts: opts}
}

// Score analyzes the endpoint shape along all three dimensions.
func (s *Scorer) Score(ep types.Endpoint) types.EndpointAnalysis {
	cScore, cFactors := s.complexity(ep)
	sScore, sFactors := s.security(ep)
	pScore, pFactors := s.performance(ep)
	return types.EndpointAnalysis{
		Endpoint:          ep.Identity(),
		Complexity:        bucket(cScore, cFactors, s.opts.Complexity),
		SecurityRisk:      bucket(sScore, sFactors, s.opts.Security),
		PerformanceImpact: bucket(pScore, pFactors, s.opts.Performance),
	}
}

func (s *Scorer) complexity(ep types.Endpoint) (int, []string) {
	score := 0
	var factors []string

	if w := methodComplexity[ep.Method]; w > 0 {
		score += w
		factors = append(factors, fmt.Sprintf("method %s (+%d)", ep.Method, w))
	}

	pathParams, queryParams := countParams(ep)
	if pathParams > 0 {
		score += pathParams * 2
		factors = append(factors, fmt.Sprintf("%d path parameter(s) (+%d)", pathParams, pathParams*2))
	}
	if queryParams > 0 {
		score += queryParams
		factors = append(factors, fmt.Sprintf("%d query parameter(s) (+%d)", queryParams, queryParams))
	}
	if ep.HasRequestBody() {
		score += 3
		factors = append(factors, "request body (+3)")
	}
	if n := len(ep.Responses); n > 1 {
		score += n - 1
		factors = append(factors, fmt.Sprintf("%d response types (+%d)", n, n-1))
	}
	if ep.RequiresAuthentication() {
		score++
		factors = append(factors, "authentication required (+1)")
	}
	return score, factors
}

func (s *Scorer) security(ep types.Endpoint) (int, []string) {
	score := 0
	var factors []string

	if !ep.RequiresAuthentication() {
		score += 4
		factors = append(factors, "no authentication required (+4)")
	}
	if isMutating(ep.Method) {
		score += 2
		factors = append(factors, fmt.Sprintf("mutating method %s (+2)", ep.Method))
	}
	for _, token := range sensitivePathTokens {
		if pathContainsToken(ep.Path, token) {
			score += 3
			factors = append(factors, fmt.Sprintf("sensitive path token %q (+3)", token))
		}
	}
	for _, param := range ep.Parameters {
		name := strings.ToLower(param.Name)
		for _, risky := range injectionProneNames {
			if strings.Contains(name, risky) {
				score += 2
				factors = append(factors, fmt.Sprintf("injection-prone parameter %q (+2)", param.Name))
				break
			}
		}
	}
	if ep.HasRequestBody() {
		score++
		factors = append(factors, "accepts request body (+1)")
	}
	return score, factors
}

func (s *Scorer) performance(ep types.Endpoint) (int, []string) {
	score := 0
	var factors []string

	for _, token := range heavyPathTokens {
		if pathContainsToken(ep.Path, token) {
			score += 3
			factors = append(factors, fmt.Sprintf("heavy operation token %q (+3)", token))
		}
	}
	pathParams, queryParams := countParams(ep)
	if ep.Method == "GET" && pathParams == 0 {
		score += 2
		factors = append(factors, "collection read (+2)")
	}
	if queryParams > 2 {
		score += 2
		factors = append(factors, fmt.Sprintf("%d query parameters (+2)", queryParams))
	}
	if ep.HasRequestBody() {
		score += 2
		factors = append(factors, "request body processing (+2)")
	}
	if isMutating(ep.Method) {
		score++
		factors = append(factors, "write operation (+1)")
	}
	return score, factors
}

// FallbackAnalysis is the minimal deterministic substitute used when a
// full analysis fails: every dimension at MEDIUM so the endpoint neither
// escapes scrutiny nor dominates prioritization.
func FallbackAnalysis(ep types.Endpoint) types.EndpointAnalysis {
	card := types.ScoreCard{
		Score:   1,
		Level:   types.LevelMedium,
		Factors: []string{"fallback analysis after error"},
	}
	return types.EndpointAnalysis{
		Endpoint:          ep.Identity(),
		Complexity:        card,
		SecurityRisk:      card,
		PerformanceImpact: card,
		Fallback:          true,
	}
}

func bucket(score int, factors []string, t Thresholds) types.ScoreCard {
	level := types.LevelCritical
	switch {
	case score <= t.Low:
		level = types.LevelLow
	case score <= t.Medium:
		level = types.LevelMedium
	case score <= t.High:
		level = types.LevelHigh
	}
	return types.ScoreCard{Score: score, Level: level, Factors: factors}
}

func countParams(ep types.Endpoint) (pathParams, queryParams int) {
	for _, p := range ep.Parameters {
		switch p.In {
		case "path":
			pathParams++
		case "query":
			queryParams++
		}
	}
	return
}

func isMutating(method string) bool {
	switch method {
	case "POST", "PUT", "PATCH", "DELETE":
		return true
	}
	return false
}

func pathContainsToken(path, token string) bool {
	for _, segment := range strings.Split(strings.ToLower(path), "/") {
		segment = strings.Trim(segment, "{}")
		if strings.Contains(segment, token) {
			return true
		}
	}
	return false
}
