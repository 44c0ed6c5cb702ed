package types

// Level is an ordered bucketing of an accumulated heuristic score.
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelHigh
	LevelCritical
)

// String makes Level satisfy fmt.Stringer.
func (l Level) String() string {
	switch l {
	case LevelLow:
		return "LOW"
	case LevelMedium:
		return "MEDIUM"
	case LevelHigh:
		return "HIGH"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ScoreCard is one heuristic dimension: the accumulated score, its level
// bucket and the human-readable factors that contributed.
type ScoreCard struct {
	Score   int
	Level   Level
	Factors []string
}

// EndpointAnalysis is the derived scoring record for one endpoint.
// Recomputing it from the same endpoint is deterministic; Fallback marks a
// minimal substitute produced after an analysis failure.
type EndpointAnalysis struct {
	Endpoint          string
	Complexity        ScoreCard
	SecurityRisk      ScoreCard
	PerformanceImpact ScoreCard
	Fallback          bool
}
