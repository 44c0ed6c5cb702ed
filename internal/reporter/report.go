package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"api-testgen/internal/orchestrator"
	"api-testgen/internal/types"
)

// Reporter writes the generation artifact: the structured suites a
// downstream renderer turns into executable test code, plus an optional
// text summary.
type Reporter struct {
	outputDir string
	summary   bool
}

// NewReporter creates a reporter writing into outputDir.
func NewReporter(outputDir string, summary bool) *Reporter {
	return &Reporter{outputDir: outputDir, summary: summary}
}

// WriteResult serializes the run result as JSON and returns the artifact
// path.
func (r *Reporter) WriteResult(result *orchestrator.Result) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	path := filepath.Join(r.outputDir, fmt.Sprintf("testsuites_%s.json", time.Now().Format("2006-01-02_15-04-05")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write result file: %w", err)
	}

	if r.summary {
		r.printSummary(result)
	}
	return path, nil
}

func (r *Reporter) printSummary(result *orchestrator.Result) {
	identities := make([]string, 0, len(result.Suites))
	for identity := range result.Suites {
		identities = append(identities, identity)
	}
	sort.Strings(identities)

	totalCases := 0
	fallbacks := 0
	perScenario := make(map[types.Scenario]int)
	for _, identity := range identities {
		suite := result.Suites[identity]
		totalCases += len(suite.Cases)
		if suite.Fallback {
			fallbacks++
		}
		for _, c := range suite.Cases {
			perScenario[c.Scenario]++
		}
	}

	fmt.Printf("Strategy: %s (confidence %.2f): %s\n", result.Strategy.Name, result.Strategy.Confidence, result.Strategy.Rationale)
	fmt.Printf("Endpoints: %d, test cases: %d", len(identities), totalCases)
	if fallbacks > 0 {
		fmt.Printf(" (%d fallback suite(s))", fallbacks)
	}
	fmt.Println()
	for _, scenario := range types.AllScenarios {
		if n := perScenario[scenario]; n > 0 {
			fmt.Printf("  %-12s %d\n", scenario, n)
		}
	}
}
