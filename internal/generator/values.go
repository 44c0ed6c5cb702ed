// Package generator enumerates candidate test cases per scenario
// category, prioritizes them under the configured budget and builds the
// execution plan. Everything in this package is pure and synchronous.
package generator

import (
	"math"
	"sort"
	"strings"

	"api-testgen/internal/types"
)

// defaultStringCap bounds synthesized string length when the schema
// declares no maximum.
const defaultStringCap = 64

// ValueSource offers observed sample values (from a seed file or a live
// database) keyed by field name. Strictly best-effort: a miss falls back
// to deterministic synthesis.
type ValueSource interface {
	Lookup(field string) (interface{}, bool)
}

// formatValues are the fixed representatives per string format.
var formatValues = map[string]string{
	"email":     "test@example.com",
	"date":      "2024-01-01",
	"date-time": "2024-01-01T12:00:00Z",
	"uuid":      "123e4567-e89b-12d3-a456-426614174000",
	"uri":       "https://example.com/resource",
	"url":       "https://example.com/resource",
	"hostname":  "api.example.com",
	"ipv4":      "192.168.1.1",
	"ipv6":      "2001:db8::1",
	"byte":      "c2FtcGxl",
	"password":  "S3cure!pass",
}

// Synthesizer produces concrete values from constraint records. Total: an
// absent constraint always falls back to a sensible default, never an
// error.
type Synthesizer struct {
	seeds ValueSource
}

// NewSynthesizer creates a synthesizer; seeds may be nil.
func NewSynthesizer(seeds ValueSource) *Synthesizer {
	return &Synthesizer{seeds: seeds}
}

// Valid returns a value satisfying the constraints, preferring enum
// members, then seed samples, then format-aware defaults.
func (s *Synthesizer) Valid(field string, c *types.DataConstraints) interface{} {
	if c == nil {
		c = &types.DataConstraints{}
	}
	if len(c.Enum) > 0 {
		return c.Enum[0]
	}
	if s.seeds != nil && field != "" {
		if v, ok := s.seeds.Lookup(field); ok && v != nil {
			return v
		}
	}

	switch c.Type {
	case "string":
		return s.validString(c)
	case "integer":
		return int64(s.validNumber(c))
	case "number":
		return s.validNumber(c)
	case "boolean":
		return true
	case "array":
		return s.validArray(field, c)
	case "object":
		return s.ValidObject(c)
	default:
		// Untyped node: a string is the least surprising default.
		return "sample_value"
	}
}

// ValidObject builds a payload covering every known property; required
// properties are always present even when the walk found no constraints
// for them.
func (s *Synthesizer) ValidObject(c *types.DataConstraints) map[string]interface{} {
	out := make(map[string]interface{})
	if c == nil {
		return out
	}
	for _, name := range sortedPropertyNames(c) {
		out[name] = s.Valid(name, c.Properties[name])
	}
	for _, name := range c.Required {
		if _, ok := out[name]; !ok {
			out[name] = "sample_value"
		}
	}
	return out
}

func (s *Synthesizer) validString(c *types.DataConstraints) string {
	value := ""
	if v, ok := formatValues[c.Format]; ok {
		value = v
	} else if c.Pattern != "" {
		value = stringForPattern(c.Pattern)
	} else {
		value = "sample_string"
	}
	return fitLength(value, c)
}

func (s *Synthesizer) validNumber(c *types.DataConstraints) float64 {
	value := 42.0
	if c.Minimum != nil && value < *c.Minimum {
		value = *c.Minimum
	}
	if c.Maximum != nil && value > *c.Maximum {
		value = *c.Maximum
	}
	if c.MultipleOf != nil && *c.MultipleOf > 0 {
		value = snapToMultiple(value, *c.MultipleOf, c.Minimum, c.Maximum)
	}
	return value
}

func (s *Synthesizer) validArray(field string, c *types.DataConstraints) []interface{} {
	count := int64(1)
	if c.MinItems != nil && *c.MinItems > count {
		count = *c.MinItems
	}
	if c.MaxItems != nil && *c.MaxItems < count {
		count = *c.MaxItems
	}
	out := make([]interface{}, 0, count)
	for i := int64(0); i < count; i++ {
		out = append(out, s.Valid(field, c.Items))
	}
	return out
}

// MinimalString returns the shortest representable string for the
// constraints; MaximalString the longest (capped when unbounded).
func (s *Synthesizer) MinimalString(c *types.DataConstraints) string {
	length := int64(0)
	if c != nil && c.MinLength != nil {
		length = *c.MinLength
	}
	return repeatedString(length)
}

func (s *Synthesizer) MaximalString(c *types.DataConstraints) string {
	length := int64(defaultStringCap)
	if c != nil && c.MaxLength != nil {
		length = *c.MaxLength
	}
	return repeatedString(length)
}

// fitLength clips or pads the value into the declared length bounds.
func fitLength(value string, c *types.DataConstraints) string {
	if c.MaxLength != nil && int64(len(value)) > *c.MaxLength {
		value = value[:*c.MaxLength]
	}
	if c.MinLength != nil && int64(len(value)) < *c.MinLength {
		value += strings.Repeat("a", int(*c.MinLength)-len(value))
	}
	return value
}

func repeatedString(length int64) string {
	if length <= 0 {
		return ""
	}
	return strings.Repeat("a", int(length))
}

// stringForPattern does not implement regex generation; it picks a value
// shaped like the common pattern classes, same approach as naive sampling.
func stringForPattern(pattern string) string {
	switch {
	case strings.Contains(pattern, "\\d"), strings.Contains(pattern, "[0-9]"):
		return "12345"
	case strings.Contains(pattern, "[a-zA-Z]"), strings.Contains(pattern, "[a-z]"):
		return "abcde"
	default:
		return "sample_string"
	}
}

func snapToMultiple(value, multiple float64, min, max *float64) float64 {
	snapped := math.Round(value/multiple) * multiple
	if min != nil && snapped < *min {
		snapped += multiple * math.Ceil((*min-snapped)/multiple)
	}
	if max != nil && snapped > *max {
		snapped -= multiple * math.Ceil((snapped-*max)/multiple)
	}
	return snapped
}

func sortedPropertyNames(c *types.DataConstraints) []string {
	names := make([]string, 0, len(c.Properties))
	for name := range c.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
