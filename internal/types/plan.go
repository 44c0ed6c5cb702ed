package types

import "time"

// ExecutionPlan is advisory metadata for a downstream executor: ordered
// case ids, fixed phases and tiered resource hints. This tool never runs
// anything itself.
type ExecutionPlan struct {
	Order             []string         `json:"order"`
	Strategy          string           `json:"strategy"`
	Phases            []ExecutionPhase `json:"phases"`
	Resources         ResourceEstimate `json:"resources"`
	EstimatedDuration time.Duration    `json:"estimated_duration"`
}

// ExecutionPhase is one of the five fixed plan phases.
type ExecutionPhase struct {
	Name              string        `json:"name"`
	CaseIDs           []string      `json:"case_ids,omitempty"`
	EstimatedDuration time.Duration `json:"estimated_duration"`
}

// ResourceEstimate tiers the thread/memory/CPU hints for the plan.
type ResourceEstimate struct {
	Tier     string `json:"tier"`
	Threads  int    `json:"threads"`
	MemoryMB int    `json:"memory_mb"`
	CPUCores int    `json:"cpu_cores"`
}
