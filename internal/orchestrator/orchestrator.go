// Package orchestrator fans analysis and generation out across all
// endpoints with bounded concurrency, applies the optional AI enhancement
// path, and assembles the final suite per endpoint. It is the only
// component aware of concurrency; everything it calls is pure.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"api-testgen/internal/ai"
	"api-testgen/internal/analyzer"
	"api-testgen/internal/cache"
	"api-testgen/internal/config"
	"api-testgen/internal/generator"
	"api-testgen/internal/logger"
	"api-testgen/internal/types"
)

// Result is the aggregated output of one generation run: exactly one
// suite per input endpoint, keyed by endpoint identity, independent of
// completion order.
type Result struct {
	RunID    string                            `json:"run_id"`
	Strategy BatchStrategy                     `json:"strategy"`
	Analyses map[string]types.EndpointAnalysis `json:"analyses"`
	Suites   map[string]types.TestSuite        `json:"suites"`
}

// defaultShutdownGrace is how long in-flight endpoint work may keep
// running after Shutdown before the run context is cancelled.
const defaultShutdownGrace = 10 * time.Second

// Orchestrator drives the generation state machine. One Generate call at
// a time; construct with New.
type Orchestrator struct {
	cfg      *config.Config
	caches   *cache.Service
	analyzer *analyzer.Analyzer
	scorer   *analyzer.Scorer
	gen      *generator.Generator
	accel    ai.Generator
	log      *logger.Logger
	aiGate   *semaphore.Weighted
	now      func() time.Time
	grace    time.Duration

	mu        sync.Mutex
	state     State
	cancelRun context.CancelFunc

	shutdown     chan struct{}
	shutdownOnce sync.Once
}

// New wires the orchestrator. The accelerator may be ai.Disabled{};
// seeds may be nil.
func New(cfg *config.Config, caches *cache.Service, accel ai.Generator, seeds generator.ValueSource, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		caches:   caches,
		analyzer: analyzer.NewAnalyzer(cfg.Generation.MaxSchemaDepth, caches.Constraints),
		scorer:   analyzer.NewScorer(analyzer.ScorerOptions{}),
		gen: generator.New(generator.Options{
			Scenarios: cfg.EnabledScenarios(),
			EdgeTier:  cfg.EdgeTier(),
			Seeds:     seeds,
		}),
		accel:    accel,
		log:      log,
		aiGate:   semaphore.NewWeighted(int64(cfg.AI.MaxConcurrent)),
		now:      time.Now,
		grace:    defaultShutdownGrace,
		state:    StateIdle,
		shutdown: make(chan struct{}),
	}
}

// State returns the current run state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Shutdown stops intake of new endpoint work. In-flight work gets the
// grace period to finish; past it the run context is cancelled, so
// stragglers (an AI call in particular) unblock and their endpoints fall
// back to the minimal deterministic suite. The run still produces an
// entry for every endpoint.
func (o *Orchestrator) Shutdown() {
	o.shutdownOnce.Do(func() {
		close(o.shutdown)
		o.mu.Lock()
		if !o.state.Terminal() {
			o.state = StateShuttingDown
		}
		o.mu.Unlock()

		time.AfterFunc(o.grace, func() {
			o.mu.Lock()
			cancel := o.cancelRun
			o.mu.Unlock()
			if cancel != nil {
				cancel()
			}
		})
	})
}

func (o *Orchestrator) stopping() bool {
	select {
	case <-o.shutdown:
		return true
	default:
		return false
	}
}

// transition advances the state machine; it refuses to leave terminal
// states and keeps ShuttingDown sticky.
func (o *Orchestrator) transition(runID string, to State) {
	o.mu.Lock()
	from := o.state
	if !from.Terminal() && from != StateShuttingDown {
		o.state = to
	}
	o.mu.Unlock()
	o.log.LogStateTransition(runID, from.String(), to.String())
}

// endpointWork tracks one endpoint through the run.
type endpointWork struct {
	ep          types.Endpoint
	cons        generator.EndpointConstraints
	analysis    types.EndpointAnalysis
	cases       []types.GeneratedTestCase
	suite       *types.TestSuite // set when served from cache or fallback
	interrupted bool
}

// Generate runs the full pipeline over the endpoint list. It is
// non-reentrant: a second call while a run is active fails. Only
// structural problems return an error; per-endpoint and AI failures are
// recovered internally.
func (o *Orchestrator) Generate(ctx context.Context, endpoints []types.Endpoint) (*Result, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("no operations to generate tests for")
	}

	o.mu.Lock()
	if o.state != StateIdle && !o.state.Terminal() {
		state := o.state
		o.mu.Unlock()
		return nil, fmt.Errorf("generation already in progress (state %s)", state)
	}
	o.state = StateIdle
	o.mu.Unlock()

	// The run context is what the shutdown grace timer cancels.
	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	o.mu.Lock()
	o.cancelRun = cancelRun
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.cancelRun = nil
		o.mu.Unlock()
	}()

	runID := uuid.New().String()
	createdAt := o.now().UTC().Truncate(time.Second)
	work := make([]endpointWork, len(endpoints))

	// Analyzing: parallel, bounded, never aborts the batch.
	o.transition(runID, StateAnalyzing)
	o.forEachEndpoint(runCtx, endpoints, func(i int, ep types.Endpoint) {
		work[i] = o.analyzeEndpoint(ep)
	}, func(i int, ep types.Endpoint) {
		work[i] = endpointWork{ep: ep, analysis: analyzer.FallbackAnalysis(ep), interrupted: true}
	})

	// Strategizing: aggregate the per-endpoint analyses.
	o.transition(runID, StateStrategizing)
	analyses := make([]types.EndpointAnalysis, len(work))
	for i, w := range work {
		analyses[i] = w.analysis
	}
	strategy := recommendStrategy(o.cfg.Generation.Strategy, analyses)
	o.log.Infof("run %s strategy %q (confidence %.2f): %s", runID, strategy.Name, strategy.Confidence, strategy.Rationale)

	// Generating: deterministic cases always; AI enhancement is additive.
	o.transition(runID, StateGenerating)
	fingerprint := o.cfg.Fingerprint()
	o.forEachEndpoint(runCtx, endpoints, func(i int, ep types.Endpoint) {
		w := &work[i]
		if w.interrupted {
			return
		}
		if cached := o.cachedSuite(ep, fingerprint); cached != nil {
			w.suite = cached
			return
		}
		candidates := o.gen.Generate(ep, w.cons, w.analysis)
		cases := make([]types.GeneratedTestCase, 0, len(candidates))
		for ordinal, candidate := range candidates {
			cases = append(cases, generator.BuildCase(ep, candidate, ordinal, strategy.Name, createdAt))
		}
		if o.aiEligible(w.analysis) {
			cases = o.enhance(runCtx, ep, w.analysis, cases)
		}
		w.cases = cases
	}, func(i int, ep types.Endpoint) {
		work[i].interrupted = true
	})

	// Optimizing: budget and order per endpoint.
	o.transition(runID, StateOptimizing)
	budget := o.cfg.MaxCasesPerEndpoint()
	for i := range work {
		if work[i].suite == nil && !work[i].interrupted {
			work[i].cases = generator.Prioritize(work[i].cases, budget)
		}
	}

	// Validating: build plans and assemble suites.
	o.transition(runID, StateValidating)
	result := &Result{
		RunID:    runID,
		Strategy: strategy,
		Analyses: make(map[string]types.EndpointAnalysis, len(work)),
		Suites:   make(map[string]types.TestSuite, len(work)),
	}
	for i := range work {
		w := &work[i]
		identity := w.ep.Identity()
		result.Analyses[identity] = w.analysis

		var suite types.TestSuite
		switch {
		case w.suite != nil:
			suite = *w.suite
		case w.interrupted:
			suite = o.fallbackSuite(w.ep, strategy.Name, createdAt)
		default:
			cases := w.cases
			if cases == nil {
				cases = []types.GeneratedTestCase{}
			}
			suite = types.TestSuite{
				Endpoint:  identity,
				Method:    w.ep.Method,
				Path:      w.ep.Path,
				Strategy:  strategy.Name,
				Cases:     cases,
				Plan:      generator.BuildPlan(cases),
				CreatedAt: createdAt,
			}
			o.caches.Suites.Put(suiteKey(w.ep, fingerprint), suite)
		}
		result.Suites[identity] = suite
	}

	o.transition(runID, StateCompleted)
	return result, nil
}

// forEachEndpoint runs fn over the endpoints through the bounded worker
// pool. Work not started before cancellation or shutdown gets skipped(i)
// instead; a panic inside fn is recovered into skipped(i) as well.
func (o *Orchestrator) forEachEndpoint(ctx context.Context, endpoints []types.Endpoint, fn, skipped func(int, types.Endpoint)) {
	sem := make(chan struct{}, o.cfg.Workers())
	var wg sync.WaitGroup

	for i, ep := range endpoints {
		wg.Add(1)
		go func(i int, ep types.Endpoint) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil || o.stopping() {
				skipped(i, ep)
				return
			}
			defer func() {
				if r := recover(); r != nil {
					o.log.Warnf("endpoint %s: recovered panic: %v", ep.Identity(), r)
					skipped(i, ep)
				}
			}()
			fn(i, ep)
		}(i, ep)
	}
	wg.Wait()
}

// analyzeEndpoint computes constraints and scores for one endpoint,
// consulting the analysis cache. Failures degrade to the deterministic
// fallback analysis and never propagate.
func (o *Orchestrator) analyzeEndpoint(ep types.Endpoint) (w endpointWork) {
	w.ep = ep
	defer func() {
		if r := recover(); r != nil {
			o.log.Warnf("endpoint %s: analysis failed, using fallback: %v", ep.Identity(), r)
			w.cons = generator.EndpointConstraints{}
			w.analysis = analyzer.FallbackAnalysis(ep)
		}
	}()

	w.cons = generator.EndpointConstraints{
		Body:       make(map[string]*types.DataConstraints),
		Parameters: make(map[string]*types.DataConstraints),
	}
	if ep.RequestBody != nil {
		for contentType, ref := range ep.RequestBody.Content {
			w.cons.Body[contentType] = o.analyzer.Analyze(ref)
		}
	}
	for _, p := range ep.Parameters {
		w.cons.Parameters[p.Name] = o.analyzer.Analyze(p.Schema)
	}

	key := "analysis:" + ep.Identity()
	if cached, ok := o.caches.Analyses.Get(key); ok {
		if a, ok := cached.(types.EndpointAnalysis); ok {
			w.analysis = a
			return w
		}
	}
	w.analysis = o.scorer.Score(ep)
	o.caches.Analyses.Put(key, w.analysis)
	return w
}

// aiEligible gates the accelerator on the endpoint being interesting
// enough to spend an external call on.
func (o *Orchestrator) aiEligible(a types.EndpointAnalysis) bool {
	if !o.cfg.AIEnabled() {
		return false
	}
	if _, disabled := o.accel.(ai.Disabled); disabled {
		return false
	}
	return a.Complexity.Level >= types.LevelMedium ||
		a.SecurityRisk.Level >= types.LevelHigh ||
		a.PerformanceImpact.Level >= types.LevelHigh
}

func (o *Orchestrator) cachedSuite(ep types.Endpoint, fingerprint string) *types.TestSuite {
	cached, ok := o.caches.Suites.Get(suiteKey(ep, fingerprint))
	if !ok {
		return nil
	}
	suite, ok := cached.(types.TestSuite)
	if !ok {
		return nil
	}
	return &suite
}

// fallbackSuite is the minimal deterministic suite for an endpoint whose
// processing was interrupted or failed entirely: one smoke case.
func (o *Orchestrator) fallbackSuite(ep types.Endpoint, strategyName string, createdAt time.Time) types.TestSuite {
	candidate := types.CandidateTestCase{
		Scenario:       types.ScenarioFunctional,
		Name:           fmt.Sprintf("%s %s smoke test", ep.Method, ep.Path),
		Description:    "Minimal request; full generation did not complete for this endpoint",
		ExpectedStatus: 200,
		ExpectSuccess:  true,
		Priority:       2,
		Complexity:     1,
		Tags:           []string{"smoke", "fallback"},
	}
	cases := []types.GeneratedTestCase{generator.BuildCase(ep, candidate, 0, strategyName, createdAt)}
	return types.TestSuite{
		Endpoint:  ep.Identity(),
		Method:    ep.Method,
		Path:      ep.Path,
		Strategy:  strategyName,
		Cases:     cases,
		Plan:      generator.BuildPlan(cases),
		Fallback:  true,
		CreatedAt: createdAt,
	}
}

func suiteKey(ep types.Endpoint, fingerprint string) string {
	return "suite:" + ep.Identity() + "|" + fingerprint
}
