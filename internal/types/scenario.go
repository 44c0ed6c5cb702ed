package types

// Scenario classifies test intent. One tagged category plus an independent
// numeric complexity replaces the source's parallel strategy/scenario/
// category enumerations.
type Scenario string

const (
	ScenarioFunctional  Scenario = "functional"
	ScenarioBoundary    Scenario = "boundary"
	ScenarioSecurity    Scenario = "security"
	ScenarioPerformance Scenario = "performance"
	ScenarioEdgeCase    Scenario = "edge-case"
	ScenarioDataQuality Scenario = "data-quality"
)

// AllScenarios lists every category in generation order.
var AllScenarios = []Scenario{
	ScenarioFunctional,
	ScenarioBoundary,
	ScenarioSecurity,
	ScenarioPerformance,
	ScenarioEdgeCase,
	ScenarioDataQuality,
}

// Valid reports whether s names a known category.
func (s Scenario) Valid() bool {
	for _, known := range AllScenarios {
		if s == known {
			return true
		}
	}
	return false
}

// EdgeAggressiveness tiers the edge-case generator. Each tier is strictly
// additive over the previous one.
type EdgeAggressiveness int

const (
	EdgeNone EdgeAggressiveness = iota
	EdgeBasic
	EdgeStandard
	EdgeAggressive
	EdgeExtreme
)

// ParseEdgeAggressiveness maps a config string to a tier.
func ParseEdgeAggressiveness(s string) (EdgeAggressiveness, bool) {
	switch s {
	case "none":
		return EdgeNone, true
	case "basic":
		return EdgeBasic, true
	case "standard", "":
		return EdgeStandard, true
	case "aggressive":
		return EdgeAggressive, true
	case "extreme":
		return EdgeExtreme, true
	default:
		return EdgeNone, false
	}
}
