// Package ai is the accelerator boundary. The core consumes exactly one
// capability, Generate(prompt) -> (text, confidence) or failure, and
// treats every failure as "AI unavailable". Nothing here is required for
// correctness; the deterministic pipeline always runs.
package ai

import (
	"context"
	"errors"
)

// ErrDisabled is returned by the no-op generator.
var ErrDisabled = errors.New("ai generation disabled")

// Prompt is one structured generation request.
type Prompt struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Result carries the raw model output and a confidence estimate in
// [0, 1]. Results below the configured threshold are discarded by the
// caller, never merged.
type Result struct {
	Text       string
	Confidence float64
}

// Generator is the single narrow capability the core depends on.
type Generator interface {
	Name() string
	Generate(ctx context.Context, p Prompt) (Result, error)
}

// Disabled is the no-op implementation used when no provider is
// configured or reachable.
type Disabled struct{}

// Name implements Generator.
func (Disabled) Name() string { return "disabled" }

// Generate implements Generator.
func (Disabled) Generate(context.Context, Prompt) (Result, error) {
	return Result{}, ErrDisabled
}
