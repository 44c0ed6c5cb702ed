package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"api-testgen/internal/types"
)

// Strategy tiers for generation. AIDriven additionally enables the AI
// enhancement path when providers are configured.
const (
	StrategyBasic    = "basic"
	StrategyAdvanced = "advanced"
	StrategyExpert   = "expert"
	StrategyAIDriven = "ai-driven"
)

// Quality tiers bound the number of cases kept per endpoint.
var qualityBudgets = map[string]int{
	"basic":      10,
	"standard":   25,
	"high":       50,
	"exhaustive": 100,
}

// MaxWorkersCeiling is the hard cap on the endpoint worker pool regardless
// of configuration.
const MaxWorkersCeiling = 32

// Config holds the full generation configuration. It is immutable after
// Load/Validate; components receive it by value or read-only pointer.
type Config struct {
	Generation GenerationConfig `yaml:"generation"`
	AI         AIConfig         `yaml:"ai"`
	Cache      CacheConfig      `yaml:"cache"`
	Seed       SeedConfig       `yaml:"seed"`
	Output     OutputConfig     `yaml:"output"`
}

// GenerationConfig controls the deterministic pipeline.
type GenerationConfig struct {
	Strategy           string   `yaml:"strategy"`
	Scenarios          []string `yaml:"scenarios"`
	Quality            string   `yaml:"quality"`
	EdgeAggressiveness string   `yaml:"edge_aggressiveness"`
	MaxWorkers         int      `yaml:"max_workers"`
	// MaxSchemaDepth bounds constraint analysis recursion.
	MaxSchemaDepth int `yaml:"max_schema_depth"`
}

// AIConfig controls the optional accelerator. An empty provider list
// disables AI entirely.
type AIConfig struct {
	Providers           []ProviderConfig `yaml:"providers"`
	ConfidenceThreshold float64          `yaml:"confidence_threshold"`
	Timeout             time.Duration    `yaml:"timeout"`
	MaxConcurrent       int              `yaml:"max_concurrent"`
	MaxRetries          int              `yaml:"max_retries"`
}

// ProviderConfig identifies one AI provider.
type ProviderConfig struct {
	Name        string  `yaml:"name"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// CacheConfig controls the shared cache service.
type CacheConfig struct {
	TTL              time.Duration `yaml:"ttl"`
	EvictionInterval time.Duration `yaml:"eviction_interval"`
}

// SeedConfig points at optional realism sources for functional payloads.
type SeedConfig struct {
	File string   `yaml:"file"`
	DB   DBConfig `yaml:"db"`
}

// DBConfig identifies a database to sample column values from.
type DBConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	// SampleSize rows per table.
	SampleSize int `yaml:"sample_size"`
}

// OutputConfig controls the suite artifact writer.
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Summary bool   `yaml:"summary"`
	LogDir  string `yaml:"log_dir"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Generation: GenerationConfig{
			Strategy:           StrategyAdvanced,
			Scenarios:          scenarioNames(types.AllScenarios),
			Quality:            "standard",
			EdgeAggressiveness: "standard",
			MaxWorkers:         5,
			MaxSchemaDepth:     8,
		},
		AI: AIConfig{
			ConfidenceThreshold: 0.7,
			Timeout:             30 * time.Second,
			MaxConcurrent:       2,
			MaxRetries:          2,
		},
		Cache: CacheConfig{
			TTL:              30 * time.Minute,
			EvictionInterval: time.Minute,
		},
		Output: OutputConfig{
			Dir:     "reports",
			Summary: true,
			LogDir:  "logs",
		},
	}
}

// Load reads the YAML config at path, applies defaults for omitted fields
// and validates. Configuration errors are fatal before any analysis runs.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Generation.Strategy == "" {
		c.Generation.Strategy = d.Generation.Strategy
	}
	// nil means the key was absent. An explicit empty list stays empty:
	// it is the only way to disable every scenario category.
	if c.Generation.Scenarios == nil {
		c.Generation.Scenarios = d.Generation.Scenarios
	}
	if c.Generation.Quality == "" {
		c.Generation.Quality = d.Generation.Quality
	}
	if c.Generation.EdgeAggressiveness == "" {
		c.Generation.EdgeAggressiveness = d.Generation.EdgeAggressiveness
	}
	if c.Generation.MaxWorkers == 0 {
		c.Generation.MaxWorkers = d.Generation.MaxWorkers
	}
	if c.Generation.MaxSchemaDepth == 0 {
		c.Generation.MaxSchemaDepth = d.Generation.MaxSchemaDepth
	}
	if c.AI.ConfidenceThreshold == 0 {
		c.AI.ConfidenceThreshold = d.AI.ConfidenceThreshold
	}
	if c.AI.Timeout == 0 {
		c.AI.Timeout = d.AI.Timeout
	}
	if c.AI.MaxConcurrent == 0 {
		c.AI.MaxConcurrent = d.AI.MaxConcurrent
	}
	if c.AI.MaxRetries == 0 {
		c.AI.MaxRetries = d.AI.MaxRetries
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = d.Cache.TTL
	}
	if c.Cache.EvictionInterval == 0 {
		c.Cache.EvictionInterval = d.Cache.EvictionInterval
	}
	if c.Output.Dir == "" {
		c.Output.Dir = d.Output.Dir
	}
	if c.Output.LogDir == "" {
		c.Output.LogDir = d.Output.LogDir
	}
	if c.Seed.DB.SampleSize == 0 {
		c.Seed.DB.SampleSize = 20
	}
}

// Validate rejects invalid configuration before any analysis begins.
func (c *Config) Validate() error {
	switch c.Generation.Strategy {
	case StrategyBasic, StrategyAdvanced, StrategyExpert, StrategyAIDriven:
	default:
		return fmt.Errorf("unknown generation strategy %q", c.Generation.Strategy)
	}
	if _, ok := qualityBudgets[c.Generation.Quality]; !ok {
		return fmt.Errorf("unknown quality tier %q", c.Generation.Quality)
	}
	if _, ok := types.ParseEdgeAggressiveness(c.Generation.EdgeAggressiveness); !ok {
		return fmt.Errorf("unknown edge aggressiveness %q", c.Generation.EdgeAggressiveness)
	}
	if c.Generation.MaxWorkers <= 0 {
		return fmt.Errorf("max_workers must be positive, got %d", c.Generation.MaxWorkers)
	}
	if c.Generation.MaxSchemaDepth <= 0 {
		return fmt.Errorf("max_schema_depth must be positive, got %d", c.Generation.MaxSchemaDepth)
	}
	for _, s := range c.Generation.Scenarios {
		if !types.Scenario(s).Valid() {
			return fmt.Errorf("unknown scenario %q", s)
		}
	}
	if c.AI.ConfidenceThreshold <= 0 || c.AI.ConfidenceThreshold > 1 {
		return fmt.Errorf("ai confidence threshold must be in (0,1], got %v", c.AI.ConfidenceThreshold)
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("ai timeout must be positive, got %v", c.AI.Timeout)
	}
	if c.AI.MaxConcurrent <= 0 {
		return fmt.Errorf("ai max_concurrent must be positive, got %d", c.AI.MaxConcurrent)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %v", c.Cache.TTL)
	}
	for _, p := range c.AI.Providers {
		if p.Name == "" {
			return fmt.Errorf("ai provider missing name")
		}
	}
	if db := c.Seed.DB; db.Type != "" {
		switch db.Type {
		case "postgres", "mysql", "sqlserver":
		default:
			return fmt.Errorf("unsupported seed db type %q", db.Type)
		}
	}
	return nil
}

// Workers returns the effective worker-pool size, clamped to the ceiling.
func (c *Config) Workers() int {
	if c.Generation.MaxWorkers > MaxWorkersCeiling {
		return MaxWorkersCeiling
	}
	return c.Generation.MaxWorkers
}

// MaxCasesPerEndpoint returns the case budget implied by the quality tier.
func (c *Config) MaxCasesPerEndpoint() int {
	return qualityBudgets[c.Generation.Quality]
}

// EnabledScenarios returns the configured categories as a set.
func (c *Config) EnabledScenarios() map[types.Scenario]bool {
	out := make(map[types.Scenario]bool, len(c.Generation.Scenarios))
	for _, s := range c.Generation.Scenarios {
		out[types.Scenario(s)] = true
	}
	return out
}

// EdgeTier returns the parsed edge aggressiveness tier.
func (c *Config) EdgeTier() types.EdgeAggressiveness {
	tier, _ := types.ParseEdgeAggressiveness(c.Generation.EdgeAggressiveness)
	return tier
}

// AIEnabled reports whether the accelerator path is active.
func (c *Config) AIEnabled() bool {
	return len(c.AI.Providers) > 0
}

func scenarioNames(ss []types.Scenario) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}
