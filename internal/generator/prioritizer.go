package generator

import (
	"sort"
	"strings"

	"api-testgen/internal/types"
)

// Prioritize sorts cases by the documented scoring formula and truncates
// to maxCount. Pure sort-and-truncate: the result length is always
// min(len(cases), maxCount), ties keep generation order (stable sort),
// and no case is ever edited.
//
// Scoring: security +100, performance +80, error-handling +70,
// business/workflow in the name +60, boundary +50, schema +40, edge +30,
// plus complexity*5 and (6-priority)*10.
func Prioritize(cases []types.GeneratedTestCase, maxCount int) []types.GeneratedTestCase {
	out := make([]types.GeneratedTestCase, len(cases))
	copy(out, cases)

	sort.SliceStable(out, func(i, j int) bool {
		return priorityScore(out[i]) > priorityScore(out[j])
	})

	if maxCount > 0 && len(out) > maxCount {
		out = out[:maxCount]
	}
	return out
}

func priorityScore(c types.GeneratedTestCase) int {
	score := 0
	name := strings.ToLower(c.Name)

	if c.HasTag("security") {
		score += 100
	}
	if c.HasTag("performance") {
		score += 80
	}
	// The builder only applies this tag to cases targeting an error
	// status, so no extra status check is needed here.
	if c.HasTag("error-handling") {
		score += 70
	}
	if strings.Contains(name, "business") || strings.Contains(name, "workflow") {
		score += 60
	}
	if c.HasTag("boundary") || strings.Contains(name, "boundary") {
		score += 50
	}
	if c.HasTag("schema") || strings.Contains(name, "schema") {
		score += 40
	}
	if c.HasTag("edge") || strings.Contains(name, "edge") {
		score += 30
	}

	score += c.Complexity * 5
	score += (6 - c.Priority) * 10
	return score
}
