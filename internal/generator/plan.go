package generator

import (
	"sort"
	"time"

	"api-testgen/internal/types"
)

// Resource tiers are advisory hints for a downstream executor; nothing in
// this tool consumes them.
var resourceTiers = map[string]types.ResourceEstimate{
	"LOW":    {Tier: "LOW", Threads: 2, MemoryMB: 256, CPUCores: 1},
	"MEDIUM": {Tier: "MEDIUM", Threads: 4, MemoryMB: 512, CPUCores: 2},
	"HIGH":   {Tier: "HIGH", Threads: 8, MemoryMB: 1024, CPUCores: 4},
}

// BuildPlan derives the execution plan for a finalized case list. Order
// defaults to ascending priority with generation order breaking ties.
func BuildPlan(cases []types.GeneratedTestCase) types.ExecutionPlan {
	ordered := make([]types.GeneratedTestCase, len(cases))
	copy(ordered, cases)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	order := make([]string, len(ordered))
	for i, c := range ordered {
		order[i] = c.ID
	}
	return buildPlanOrdered(ordered, order)
}

// BuildPlanWithOrder uses an explicit execution order; ids not present in
// cases are ignored.
func BuildPlanWithOrder(cases []types.GeneratedTestCase, order []string) types.ExecutionPlan {
	byID := make(map[string]types.GeneratedTestCase, len(cases))
	for _, c := range cases {
		byID[c.ID] = c
	}
	var ordered []types.GeneratedTestCase
	var kept []string
	for _, id := range order {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
			kept = append(kept, id)
		}
	}
	return buildPlanOrdered(ordered, kept)
}

func buildPlanOrdered(ordered []types.GeneratedTestCase, order []string) types.ExecutionPlan {
	var execution time.Duration
	maxComplexity := 0
	hasLoad := false
	for _, c := range ordered {
		execution += c.EstimatedDuration
		if c.Complexity > maxComplexity {
			maxComplexity = c.Complexity
		}
		if c.HasTag("performance") {
			hasLoad = true
		}
	}

	preparation := execution / 10
	validation := execution / 5
	cleanup := 2 * time.Second
	reporting := time.Second

	phases := []types.ExecutionPhase{
		{Name: "preparation", EstimatedDuration: preparation},
		{Name: "execution", CaseIDs: order, EstimatedDuration: execution},
		{Name: "validation", EstimatedDuration: validation},
		{Name: "cleanup", EstimatedDuration: cleanup},
		{Name: "reporting", EstimatedDuration: reporting},
	}

	tier := "LOW"
	switch {
	case hasLoad || maxComplexity >= 4:
		tier = "HIGH"
	case maxComplexity >= 2:
		tier = "MEDIUM"
	}

	strategy := "sequential"
	if len(ordered) > 3 && !hasLoad {
		strategy = "parallel"
	}

	return types.ExecutionPlan{
		Order:             order,
		Strategy:          strategy,
		Phases:            phases,
		Resources:         resourceTiers[tier],
		EstimatedDuration: preparation + execution + validation + cleanup + reporting,
	}
}
