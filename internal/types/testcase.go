package types

import "time"

// CandidateTestCase is one unprioritized generation output. Later stages
// wrap or filter candidates; they never edit fields in place.
type CandidateTestCase struct {
	Scenario    Scenario
	Name        string
	Description string
	ContentType string

	// Payload is the request body, nil for negative or body-less cases.
	Payload     interface{}
	PathParams  map[string]interface{}
	QueryParams map[string]interface{}
	Headers     map[string]string

	ExpectedStatus int
	ExpectSuccess  bool
	Expectations   *Expectations

	// Priority is 1 (highest) through 5; Complexity is an independent
	// numeric weight contributed by the scenario generator.
	Priority   int
	Complexity int
	Tags       []string
}

// Expectations carries optional extra assertions beyond the status code.
type Expectations struct {
	Headers         map[string]string
	MaxDuration     time.Duration
	SecurityMarkers []string
	// ConcurrencyLevel is set on performance cases that exercise parallel
	// load; zero means single-shot.
	ConcurrencyLevel int
}

// TestStep is one ordered action inside a generated case.
type TestStep struct {
	Order   int                    `json:"order"`
	Action  string                 `json:"action"`
	Method  string                 `json:"method,omitempty"`
	Target  string                 `json:"target,omitempty"`
	Payload interface{}            `json:"payload,omitempty"`
	Headers map[string]string      `json:"headers,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// Assertion is one structured expectation a downstream renderer turns into
// framework-specific assertion code.
type Assertion struct {
	Kind        string      `json:"kind"`
	Target      string      `json:"target"`
	Expected    interface{} `json:"expected"`
	Description string      `json:"description,omitempty"`
}

// TestDataSet is the concrete data a generated case sends.
type TestDataSet struct {
	PathParams  map[string]interface{} `json:"path_params,omitempty"`
	QueryParams map[string]interface{} `json:"query_params,omitempty"`
	Body        interface{}            `json:"body,omitempty"`
	Headers     map[string]string      `json:"headers,omitempty"`
	ContentType string                 `json:"content_type,omitempty"`
}

// GeneratedTestCase is the public output unit. Built once from a candidate
// and immutable thereafter.
type GeneratedTestCase struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Description       string        `json:"description"`
	Scenario          Scenario      `json:"scenario"`
	Strategy          string        `json:"strategy"`
	Steps             []TestStep    `json:"steps"`
	Data              TestDataSet   `json:"data"`
	Assertions        []Assertion   `json:"assertions"`
	Priority          int           `json:"priority"`
	EstimatedDuration time.Duration `json:"estimated_duration"`
	Complexity        int           `json:"complexity"`
	Tags              []string      `json:"tags"`
	CreatedAt         time.Time     `json:"created_at"`
}

// HasTag reports whether the case carries the given tag.
func (c GeneratedTestCase) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// TestSuite is the finalized, prioritized, budgeted case set plus its
// execution plan for one endpoint.
type TestSuite struct {
	Endpoint  string              `json:"endpoint"`
	Method    string              `json:"method"`
	Path      string              `json:"path"`
	Strategy  string              `json:"strategy"`
	Cases     []GeneratedTestCase `json:"cases"`
	Plan      ExecutionPlan       `json:"plan"`
	Fallback  bool                `json:"fallback,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}
