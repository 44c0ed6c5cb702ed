package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Fingerprint returns a stable hash of the fields that influence generated
// output. Suites are cached by endpoint identity plus this fingerprint, so
// a config change never serves stale suites.
func (c *Config) Fingerprint() string {
	scenarios := append([]string(nil), c.Generation.Scenarios...)
	sort.Strings(scenarios)

	providers := make([]string, 0, len(c.AI.Providers))
	for _, p := range c.AI.Providers {
		providers = append(providers, p.Name+"/"+p.Model)
	}
	sort.Strings(providers)

	h := sha256.New()
	fmt.Fprintf(h, "strategy=%s;scenarios=%s;quality=%s;edge=%s;depth=%d;",
		c.Generation.Strategy,
		strings.Join(scenarios, ","),
		c.Generation.Quality,
		c.Generation.EdgeAggressiveness,
		c.Generation.MaxSchemaDepth,
	)
	fmt.Fprintf(h, "providers=%s;confidence=%v;", strings.Join(providers, ","), c.AI.ConfidenceThreshold)
	return hex.EncodeToString(h.Sum(nil))[:16]
}
