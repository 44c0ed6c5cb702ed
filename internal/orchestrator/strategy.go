package orchestrator

import (
	"fmt"

	"api-testgen/internal/config"
	"api-testgen/internal/types"
)

// BatchStrategy is the single recommended strategy for the whole batch,
// aggregated from per-endpoint analyses.
type BatchStrategy struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// complexityEscalationThreshold is the average complexity score above
// which the batch escalates to the most advanced strategy tier.
const complexityEscalationThreshold = 12

// recommendStrategy applies the aggregate rules: any HIGH or CRITICAL
// security risk forces a security-first strategy; high average complexity
// escalates the tier; otherwise the configured strategy stands.
func recommendStrategy(configured string, analyses []types.EndpointAnalysis) BatchStrategy {
	if len(analyses) == 0 {
		return BatchStrategy{
			Name:       configured,
			Confidence: 0.5,
			Rationale:  "no endpoints analyzed; keeping configured strategy",
		}
	}

	riskyEndpoints := 0
	totalComplexity := 0
	for _, a := range analyses {
		if a.SecurityRisk.Level >= types.LevelHigh {
			riskyEndpoints++
		}
		totalComplexity += a.Complexity.Score
	}
	avgComplexity := totalComplexity / len(analyses)

	if riskyEndpoints > 0 {
		return BatchStrategy{
			Name:       "security-first",
			Confidence: 0.9,
			Rationale: fmt.Sprintf("%d of %d endpoints carry HIGH or CRITICAL security risk",
				riskyEndpoints, len(analyses)),
		}
	}
	if avgComplexity > complexityEscalationThreshold {
		return BatchStrategy{
			Name:       config.StrategyExpert,
			Confidence: 0.8,
			Rationale: fmt.Sprintf("average complexity score %d exceeds %d; escalating tier",
				avgComplexity, complexityEscalationThreshold),
		}
	}
	return BatchStrategy{
		Name:       configured,
		Confidence: 0.7,
		Rationale:  fmt.Sprintf("no escalation rule matched across %d endpoints", len(analyses)),
	}
}
