package ai

import (
	"fmt"

	"api-testgen/internal/config"
)

// NewGenerator builds the accelerator for the first supported provider in
// the configuration. An empty provider list yields the Disabled
// implementation rather than an error: absent AI is a normal mode.
func NewGenerator(cfg config.AIConfig) (Generator, error) {
	if len(cfg.Providers) == 0 {
		return Disabled{}, nil
	}
	for _, p := range cfg.Providers {
		switch p.Name {
		case "openai":
			return NewOpenAIGenerator(p), nil
		}
	}
	return nil, fmt.Errorf("no supported AI provider among %d configured", len(cfg.Providers))
}
