// Package analyzer turns raw schema nodes into normalized constraint
// records and scores endpoints for complexity, security risk and
// performance impact. Everything here is pure and total; the only side
// effect is memoization through the injected cache.
package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"api-testgen/internal/cache"
	"api-testgen/internal/types"

	"github.com/getkin/kin-openapi/openapi3"
)

// scalarTypes is the fixed probe order for a schema's declared type, so a
// node never ends up with more than one type set.
var scalarTypes = []string{"object", "array", "string", "integer", "number", "boolean"}

// Analyzer converts schema nodes into DataConstraints. Recursion is
// bounded by maxDepth and a visited set, so cyclic component schemas
// terminate; past either limit the remainder is treated as unconstrained.
type Analyzer struct {
	maxDepth int
	cache    *cache.Cache
}

// NewAnalyzer creates an analyzer. The cache may be nil; it is a pure
// memoization layer and never required for correctness.
func NewAnalyzer(maxDepth int, c *cache.Cache) *Analyzer {
	if maxDepth <= 0 {
		maxDepth = 8
	}
	return &Analyzer{maxDepth: maxDepth, cache: c}
}

// Analyze returns the normalized constraints for the given schema node.
// A nil or empty node yields an unconstrained (non-nil) record.
func (a *Analyzer) Analyze(ref *openapi3.SchemaRef) *types.DataConstraints {
	key := SchemaKey(ref)
	if a.cache != nil && key != "" {
		if cached, ok := a.cache.Get(key); ok {
			if c, ok := cached.(*types.DataConstraints); ok {
				return c
			}
		}
	}

	visited := make(map[*openapi3.Schema]bool)
	constraints := a.walk(ref, 0, visited)

	if a.cache != nil && key != "" {
		a.cache.Put(key, constraints)
	}
	return constraints
}

func (a *Analyzer) walk(ref *openapi3.SchemaRef, depth int, visited map[*openapi3.Schema]bool) *types.DataConstraints {
	out := &types.DataConstraints{}
	if ref == nil || ref.Value == nil {
		return out
	}
	if depth >= a.maxDepth {
		return out
	}
	schema := ref.Value
	if visited[schema] {
		// Cycle on the current path: break here and leave the remainder
		// unconstrained.
		return out
	}
	// visited tracks the active path only. A schema shared by sibling
	// properties (one resolved component referenced twice) is a DAG, not a
	// cycle, and must keep its constraints on every encounter.
	visited[schema] = true
	defer delete(visited, schema)

	if schema.Type != nil {
		for _, t := range scalarTypes {
			if schema.Type.Is(t) {
				out.Type = t
				break
			}
		}
	}
	out.Format = schema.Format
	out.Nullable = schema.Nullable
	out.Pattern = schema.Pattern

	// kin-openapi models minLength/minItems/minProps as plain integers, so
	// zero is indistinguishable from absent; zero is also the OpenAPI
	// default, so it stays unset either way.
	if schema.MinLength > 0 {
		out.MinLength = int64Ptr(int64(schema.MinLength))
	}
	if schema.MaxLength != nil {
		out.MaxLength = int64Ptr(int64(*schema.MaxLength))
	}
	if schema.Min != nil {
		v := *schema.Min
		out.Minimum = &v
	}
	if schema.Max != nil {
		v := *schema.Max
		out.Maximum = &v
	}
	if schema.MultipleOf != nil {
		v := *schema.MultipleOf
		out.MultipleOf = &v
	}
	if schema.MinItems > 0 {
		out.MinItems = int64Ptr(int64(schema.MinItems))
	}
	if schema.MaxItems != nil {
		out.MaxItems = int64Ptr(int64(*schema.MaxItems))
	}
	out.UniqueItems = schema.UniqueItems
	if len(schema.Required) > 0 {
		out.Required = append([]string(nil), schema.Required...)
		sort.Strings(out.Required)
	}
	if schema.MinProps > 0 {
		out.MinProperties = int64Ptr(int64(schema.MinProps))
	}
	if schema.MaxProps != nil {
		out.MaxProperties = int64Ptr(int64(*schema.MaxProps))
	}
	if len(schema.Enum) > 0 {
		out.Enum = append([]interface{}(nil), schema.Enum...)
	}

	if len(schema.Properties) > 0 {
		out.Properties = make(map[string]*types.DataConstraints, len(schema.Properties))
		for _, name := range sortedKeys(schema.Properties) {
			out.Properties[name] = a.walk(schema.Properties[name], depth+1, visited)
		}
	}
	if schema.Items != nil {
		out.Items = a.walk(schema.Items, depth+1, visited)
	}
	return out
}

// SchemaKey returns a stable cache key for a schema node: its component
// reference when present, otherwise a content fingerprint. Empty means
// "do not cache".
func SchemaKey(ref *openapi3.SchemaRef) string {
	if ref == nil || ref.Value == nil {
		return ""
	}
	if ref.Ref != "" {
		return ref.Ref
	}
	data, err := json.Marshal(ref.Value)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return "schema:" + hex.EncodeToString(sum[:8])
}

func int64Ptr(v int64) *int64 { return &v }

func sortedKeys(m map[string]*openapi3.SchemaRef) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
