package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api-testgen/internal/ai"
	"api-testgen/internal/cache"
	"api-testgen/internal/config"
	"api-testgen/internal/logger"
	"api-testgen/internal/types"
)

// fakeAccelerator renames the first case it sees in the prompt. Failures
// and confidence are scripted per test.
type fakeAccelerator struct {
	mu         sync.Mutex
	confidence float64
	failures   int
	calls      int
}

func (f *fakeAccelerator) Name() string { return "fake" }

func (f *fakeAccelerator) Generate(_ context.Context, p ai.Prompt) (ai.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return ai.Result{}, errors.New("transient provider error")
	}

	var id string
	for _, line := range strings.Split(p.User, "\n") {
		if rest, ok := strings.CutPrefix(line, "- id="); ok {
			id = strings.Fields(rest)[0]
			break
		}
	}
	if id == "" {
		return ai.Result{Text: "[]", Confidence: f.confidence}, nil
	}
	data, _ := json.Marshal([]ai.CaseEnhancement{{
		ID:   id,
		Name: "Enhanced: verify resource creation end to end",
		Tags: []string{"ai-reviewed"},
	}})
	return ai.Result{Text: "```json\n" + string(data) + "\n```", Confidence: f.confidence}, nil
}

// blockingAccelerator parks every call until its context is cancelled,
// standing in for a hung provider.
type blockingAccelerator struct {
	started chan struct{}
	once    sync.Once
}

func (b *blockingAccelerator) Name() string { return "blocking" }

func (b *blockingAccelerator) Generate(ctx context.Context, _ ai.Prompt) (ai.Result, error) {
	b.once.Do(func() { close(b.started) })
	<-ctx.Done()
	return ai.Result{}, ctx.Err()
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Generation.MaxWorkers = 2
	return cfg
}

func newTestOrchestrator(t *testing.T, cfg *config.Config, accel ai.Generator) *Orchestrator {
	t.Helper()
	caches := cache.NewService(time.Minute, 0)
	t.Cleanup(caches.Shutdown)
	return New(cfg, caches, accel, nil, logger.NewDiscard())
}

func simpleEndpoint(method, path, opID string) types.Endpoint {
	return types.Endpoint{
		Method:      method,
		Path:        path,
		OperationID: opID,
		Responses:   map[int]types.ResponseSpec{200: {}},
	}
}

func bodyEndpoint() types.Endpoint {
	schema := &openapi3.SchemaRef{Value: &openapi3.Schema{
		Type:     &openapi3.Types{"object"},
		Required: []string{"name"},
		Properties: openapi3.Schemas{
			"name": {Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
		},
	}}
	return types.Endpoint{
		Method:      "POST",
		Path:        "/items",
		OperationID: "createItem",
		RequestBody: &types.RequestBody{
			Required: true,
			Content:  map[string]*openapi3.SchemaRef{"application/json": schema},
		},
		Responses: map[int]types.ResponseSpec{201: {}, 400: {}},
	}
}

func TestGenerateSuitePerEndpoint(t *testing.T) {
	o := newTestOrchestrator(t, testConfig(), ai.Disabled{})
	endpoints := []types.Endpoint{
		simpleEndpoint("GET", "/items", "listItems"),
		bodyEndpoint(),
		simpleEndpoint("DELETE", "/items/{id}", "deleteItem"),
	}

	result, err := o.Generate(context.Background(), endpoints)

	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, StateCompleted, o.State())
	require.Len(t, result.Suites, len(endpoints))
	require.Len(t, result.Analyses, len(endpoints))
	for _, ep := range endpoints {
		suite, ok := result.Suites[ep.Identity()]
		require.True(t, ok, "every endpoint gets a suite")
		assert.NotEmpty(t, suite.Cases)
		assert.False(t, suite.Fallback)
		assert.Equal(t, len(suite.Cases), len(suite.Plan.Order))
	}
}

func TestGenerateNoEndpoints(t *testing.T) {
	o := newTestOrchestrator(t, testConfig(), ai.Disabled{})

	_, err := o.Generate(context.Background(), nil)

	assert.Error(t, err)
}

func TestGenerateRerunAfterCompletion(t *testing.T) {
	o := newTestOrchestrator(t, testConfig(), ai.Disabled{})
	endpoints := []types.Endpoint{simpleEndpoint("GET", "/items", "listItems")}

	_, err := o.Generate(context.Background(), endpoints)
	require.NoError(t, err)

	_, err = o.Generate(context.Background(), endpoints)
	assert.NoError(t, err, "a completed orchestrator accepts a new run")
}

func TestGenerateRespectsCaseBudget(t *testing.T) {
	cfg := testConfig()
	cfg.Generation.Quality = "basic" // budget of 10
	o := newTestOrchestrator(t, cfg, ai.Disabled{})

	ep := bodyEndpoint()
	ep.Security = []string{"bearerAuth"}
	result, err := o.Generate(context.Background(), []types.Endpoint{ep})

	require.NoError(t, err)
	suite := result.Suites[ep.Identity()]
	assert.LessOrEqual(t, len(suite.Cases), 10)
}

func TestGenerateAllScenariosDisabledYieldsEmptySuite(t *testing.T) {
	cfg := testConfig()
	cfg.Generation.Scenarios = []string{}
	o := newTestOrchestrator(t, cfg, ai.Disabled{})
	ep := bodyEndpoint()

	result, err := o.Generate(context.Background(), []types.Endpoint{ep})

	require.NoError(t, err)
	suite, ok := result.Suites[ep.Identity()]
	require.True(t, ok)
	assert.NotNil(t, suite.Cases, "empty suite, never a null case list")
	assert.Empty(t, suite.Cases)
}

func TestGenerateDeterministicAcrossRuns(t *testing.T) {
	endpoints := []types.Endpoint{
		simpleEndpoint("GET", "/items", "listItems"),
		bodyEndpoint(),
	}
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	caseIDs := func() map[string][]string {
		o := newTestOrchestrator(t, testConfig(), ai.Disabled{})
		o.now = func() time.Time { return fixed }
		result, err := o.Generate(context.Background(), endpoints)
		require.NoError(t, err)
		out := make(map[string][]string)
		for identity, suite := range result.Suites {
			ids := make([]string, len(suite.Cases))
			for i, c := range suite.Cases {
				ids[i] = c.ID
			}
			out[identity] = ids
		}
		return out
	}

	assert.Equal(t, caseIDs(), caseIDs(), "identical input and config must reproduce the same ordered ids")
}

func TestGenerateCancelledContextFallsBack(t *testing.T) {
	o := newTestOrchestrator(t, testConfig(), ai.Disabled{})
	endpoints := []types.Endpoint{
		simpleEndpoint("GET", "/items", "listItems"),
		simpleEndpoint("GET", "/orders", "listOrders"),
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := o.Generate(ctx, endpoints)

	require.NoError(t, err, "cancellation degrades, it does not fail the run")
	require.Len(t, result.Suites, len(endpoints))
	for _, suite := range result.Suites {
		assert.True(t, suite.Fallback)
		require.Len(t, suite.Cases, 1)
		assert.Contains(t, suite.Cases[0].Tags, "fallback")
	}
}

func TestGenerateServesSecondRunFromSuiteCache(t *testing.T) {
	o := newTestOrchestrator(t, testConfig(), ai.Disabled{})
	ep := simpleEndpoint("GET", "/items", "listItems")
	first := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	o.now = func() time.Time { return first }

	_, err := o.Generate(context.Background(), []types.Endpoint{ep})
	require.NoError(t, err)

	o.now = func() time.Time { return first.Add(time.Hour) }
	result, err := o.Generate(context.Background(), []types.Endpoint{ep})
	require.NoError(t, err)

	suite := result.Suites[ep.Identity()]
	assert.Equal(t, first, suite.CreatedAt, "cache hit keeps the original suite")
}

func TestShutdownGraceBoundsInFlightWork(t *testing.T) {
	cfg := testConfig()
	cfg.Generation.MaxWorkers = 1
	cfg.AI.Providers = []config.ProviderConfig{{Name: "openai", APIKey: "k"}}
	cfg.AI.MaxRetries = 0
	accel := &blockingAccelerator{started: make(chan struct{})}
	o := newTestOrchestrator(t, cfg, accel)
	o.grace = 20 * time.Millisecond

	second := bodyEndpoint()
	second.Path = "/orders"
	second.OperationID = "createOrder"
	endpoints := []types.Endpoint{bodyEndpoint(), second}

	type runOutcome struct {
		result *Result
		err    error
	}
	outcome := make(chan runOutcome, 1)
	go func() {
		result, err := o.Generate(context.Background(), endpoints)
		outcome <- runOutcome{result, err}
	}()

	select {
	case <-accel.started:
	case <-time.After(5 * time.Second):
		t.Fatal("accelerator was never invoked")
	}
	o.Shutdown()

	select {
	case out := <-outcome:
		require.NoError(t, out.err)
		require.Len(t, out.result.Suites, len(endpoints))
		fallbacks := 0
		for _, suite := range out.result.Suites {
			if suite.Fallback {
				fallbacks++
			} else {
				assert.NotEmpty(t, suite.Cases, "the in-flight endpoint keeps its deterministic cases")
			}
		}
		assert.Equal(t, 1, fallbacks, "the queued endpoint degrades to the fallback suite")
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown grace did not unblock the in-flight AI call")
	}
}

func TestEnhancementAppliedAboveThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.AI.Providers = []config.ProviderConfig{{Name: "openai", APIKey: "k"}}
	accel := &fakeAccelerator{confidence: 0.9}
	o := newTestOrchestrator(t, cfg, accel)

	result, err := o.Generate(context.Background(), []types.Endpoint{bodyEndpoint()})

	require.NoError(t, err)
	assert.Positive(t, accel.calls)
	enhanced := false
	for _, suite := range result.Suites {
		for _, c := range suite.Cases {
			if strings.HasPrefix(c.Name, "Enhanced:") {
				enhanced = true
				assert.True(t, c.HasTag("ai-reviewed"))
			}
		}
	}
	assert.True(t, enhanced, "high-confidence enhancement must be merged")
}

func TestEnhancementDiscardedBelowThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.AI.Providers = []config.ProviderConfig{{Name: "openai", APIKey: "k"}}
	accel := &fakeAccelerator{confidence: 0.3}
	o := newTestOrchestrator(t, cfg, accel)

	result, err := o.Generate(context.Background(), []types.Endpoint{bodyEndpoint()})

	require.NoError(t, err)
	assert.Positive(t, accel.calls)
	for _, suite := range result.Suites {
		for _, c := range suite.Cases {
			assert.NotContains(t, c.Name, "Enhanced:")
			assert.False(t, c.HasTag("ai-reviewed"))
		}
	}
}

func TestEnhancementRetriesTransientFailures(t *testing.T) {
	cfg := testConfig()
	cfg.AI.Providers = []config.ProviderConfig{{Name: "openai", APIKey: "k"}}
	cfg.AI.MaxRetries = 2
	accel := &fakeAccelerator{confidence: 0.9, failures: 1}
	o := newTestOrchestrator(t, cfg, accel)

	result, err := o.Generate(context.Background(), []types.Endpoint{bodyEndpoint()})

	require.NoError(t, err)
	assert.Equal(t, 2, accel.calls)
	enhanced := false
	for _, suite := range result.Suites {
		for _, c := range suite.Cases {
			if strings.HasPrefix(c.Name, "Enhanced:") {
				enhanced = true
			}
		}
	}
	assert.True(t, enhanced)
}

func TestAIEligibility(t *testing.T) {
	cfg := testConfig()
	cfg.AI.Providers = []config.ProviderConfig{{Name: "openai", APIKey: "k"}}
	o := newTestOrchestrator(t, cfg, &fakeAccelerator{confidence: 0.9})

	low := types.EndpointAnalysis{
		Complexity:        types.ScoreCard{Level: types.LevelLow},
		SecurityRisk:      types.ScoreCard{Level: types.LevelMedium},
		PerformanceImpact: types.ScoreCard{Level: types.LevelLow},
	}
	assert.False(t, o.aiEligible(low), "uninteresting endpoints skip the accelerator")

	complexCase := low
	complexCase.Complexity.Level = types.LevelMedium
	assert.True(t, o.aiEligible(complexCase))

	risky := low
	risky.SecurityRisk.Level = types.LevelCritical
	assert.True(t, o.aiEligible(risky))

	disabled := newTestOrchestrator(t, cfg, ai.Disabled{})
	assert.False(t, disabled.aiEligible(complexCase), "the no-op generator never gets calls")
}

func TestApplyEnhancements(t *testing.T) {
	cases := []types.GeneratedTestCase{
		{ID: "a", Name: "original a", Description: "desc a", Tags: []string{"functional"}},
		{ID: "b", Name: "original b", Tags: []string{"security"}},
	}
	enhancements := []ai.CaseEnhancement{
		{ID: "a", Name: "better a", Tags: []string{"functional", "reviewed"}},
		{ID: "ghost", Name: "never applied"},
	}

	out := applyEnhancements(cases, enhancements)

	assert.Equal(t, "better a", out[0].Name)
	assert.Equal(t, "desc a", out[0].Description, "empty enhancement fields keep the original")
	assert.Equal(t, []string{"functional", "reviewed"}, out[0].Tags)
	assert.Equal(t, "original b", out[1].Name)
	assert.Equal(t, "original a", cases[0].Name, "input slice stays untouched")
}

func TestRecommendStrategy(t *testing.T) {
	analysis := func(complexity int, security types.Level) types.EndpointAnalysis {
		return types.EndpointAnalysis{
			Complexity:   types.ScoreCard{Score: complexity},
			SecurityRisk: types.ScoreCard{Level: security},
		}
	}

	empty := recommendStrategy(config.StrategyAdvanced, nil)
	assert.Equal(t, config.StrategyAdvanced, empty.Name)
	assert.Equal(t, 0.5, empty.Confidence)

	risky := recommendStrategy(config.StrategyAdvanced, []types.EndpointAnalysis{
		analysis(3, types.LevelLow),
		analysis(4, types.LevelHigh),
	})
	assert.Equal(t, "security-first", risky.Name)
	assert.Equal(t, 0.9, risky.Confidence)

	complexBatch := recommendStrategy(config.StrategyBasic, []types.EndpointAnalysis{
		analysis(20, types.LevelLow),
		analysis(18, types.LevelMedium),
	})
	assert.Equal(t, config.StrategyExpert, complexBatch.Name)

	calm := recommendStrategy(config.StrategyAdvanced, []types.EndpointAnalysis{
		analysis(3, types.LevelLow),
	})
	assert.Equal(t, config.StrategyAdvanced, calm.Name)
	assert.Equal(t, 0.7, calm.Confidence)
}

func TestStateStringAndTerminal(t *testing.T) {
	assert.Equal(t, "Idle", StateIdle.String())
	assert.Equal(t, "Completed", StateCompleted.String())
	assert.Equal(t, "ShuttingDown", StateShuttingDown.String())

	assert.True(t, StateCompleted.Terminal())
	assert.True(t, StateFailed.Terminal())
	assert.False(t, StateGenerating.Terminal())
	assert.False(t, StateShuttingDown.Terminal())
}
