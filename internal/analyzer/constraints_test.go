package analyzer

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api-testgen/internal/cache"
)

func uint64Ptr(v uint64) *uint64    { return &v }
func float64Ptr(v float64) *float64 { return &v }

func stringSchema() *openapi3.Schema {
	return &openapi3.Schema{Type: &openapi3.Types{"string"}}
}

func TestAnalyzeExtractsBounds(t *testing.T) {
	a := NewAnalyzer(8, nil)

	schema := &openapi3.Schema{
		Type:      &openapi3.Types{"string"},
		Format:    "email",
		MinLength: 2,
		MaxLength: uint64Ptr(50),
		Pattern:   "^[a-z]+$",
	}
	c := a.Analyze(&openapi3.SchemaRef{Value: schema})

	assert.Equal(t, "string", c.Type)
	assert.Equal(t, "email", c.Format)
	require.NotNil(t, c.MinLength)
	assert.Equal(t, int64(2), *c.MinLength)
	require.NotNil(t, c.MaxLength)
	assert.Equal(t, int64(50), *c.MaxLength)
	assert.Equal(t, "^[a-z]+$", c.Pattern)
}

func TestAnalyzeAbsentBoundsStayNil(t *testing.T) {
	a := NewAnalyzer(8, nil)

	c := a.Analyze(&openapi3.SchemaRef{Value: stringSchema()})

	assert.Nil(t, c.MaxLength, "missing maxLength must not become a bound")
	assert.Nil(t, c.MinLength)
	assert.Nil(t, c.Minimum)
	assert.Nil(t, c.Maximum)
	assert.Nil(t, c.MultipleOf)
	assert.Empty(t, c.Enum)
}

func TestAnalyzeNumericConstraints(t *testing.T) {
	a := NewAnalyzer(8, nil)

	schema := &openapi3.Schema{
		Type:       &openapi3.Types{"integer"},
		Min:        float64Ptr(1),
		Max:        float64Ptr(100),
		MultipleOf: float64Ptr(5),
	}
	c := a.Analyze(&openapi3.SchemaRef{Value: schema})

	assert.Equal(t, "integer", c.Type)
	require.NotNil(t, c.Minimum)
	assert.Equal(t, 1.0, *c.Minimum)
	require.NotNil(t, c.Maximum)
	assert.Equal(t, 100.0, *c.Maximum)
	require.NotNil(t, c.MultipleOf)
	assert.Equal(t, 5.0, *c.MultipleOf)
}

func TestAnalyzeObjectProperties(t *testing.T) {
	a := NewAnalyzer(8, nil)

	schema := &openapi3.Schema{
		Type:     &openapi3.Types{"object"},
		Required: []string{"name", "email"},
		Properties: openapi3.Schemas{
			"name":  {Value: &openapi3.Schema{Type: &openapi3.Types{"string"}, MaxLength: uint64Ptr(10)}},
			"email": {Value: &openapi3.Schema{Type: &openapi3.Types{"string"}, Format: "email"}},
			"age":   {Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}}},
		},
	}
	c := a.Analyze(&openapi3.SchemaRef{Value: schema})

	assert.Equal(t, "object", c.Type)
	assert.Equal(t, []string{"email", "name"}, c.Required)
	require.Len(t, c.Properties, 3)
	require.NotNil(t, c.Properties["name"].MaxLength)
	assert.Equal(t, int64(10), *c.Properties["name"].MaxLength)
	assert.Equal(t, "email", c.Properties["email"].Format)
}

func TestAnalyzeNilSchemaIsTotal(t *testing.T) {
	a := NewAnalyzer(8, nil)

	assert.True(t, a.Analyze(nil).Unconstrained())
	assert.True(t, a.Analyze(&openapi3.SchemaRef{}).Unconstrained())
}

func TestAnalyzeCyclicSchemaTerminates(t *testing.T) {
	a := NewAnalyzer(8, nil)

	// A references B which references A.
	schemaA := &openapi3.Schema{Type: &openapi3.Types{"object"}}
	schemaB := &openapi3.Schema{Type: &openapi3.Types{"object"}}
	schemaA.Properties = openapi3.Schemas{"b": {Value: schemaB}}
	schemaB.Properties = openapi3.Schemas{"a": {Value: schemaA}}

	c := a.Analyze(&openapi3.SchemaRef{Value: schemaA})

	assert.Equal(t, "object", c.Type)
	require.Contains(t, c.Properties, "b")
	// The inner recurrence of A is cut, not looped.
	inner := c.Properties["b"].Properties["a"]
	assert.True(t, inner.Unconstrained())
}

func TestAnalyzeSharedSchemaKeepsConstraints(t *testing.T) {
	a := NewAnalyzer(8, nil)

	// Two properties resolving to the same schema node, as the loader
	// produces when both carry the same component reference.
	shared := &openapi3.Schema{Type: &openapi3.Types{"string"}, MaxLength: uint64Ptr(5)}
	root := &openapi3.Schema{Type: &openapi3.Types{"object"}, Properties: openapi3.Schemas{
		"home": {Value: shared},
		"work": {Value: shared},
	}}

	c := a.Analyze(&openapi3.SchemaRef{Value: root})

	for _, name := range []string{"home", "work"} {
		prop := c.Properties[name]
		require.NotNil(t, prop, name)
		assert.Equal(t, "string", prop.Type, name)
		require.NotNil(t, prop.MaxLength, name)
		assert.Equal(t, int64(5), *prop.MaxLength, name)
	}
}

func TestAnalyzeDepthBoundDegradesGracefully(t *testing.T) {
	a := NewAnalyzer(2, nil)

	leaf := &openapi3.Schema{Type: &openapi3.Types{"string"}, MaxLength: uint64Ptr(3)}
	deep := &openapi3.Schema{Type: &openapi3.Types{"object"}, Properties: openapi3.Schemas{
		"level2": {Value: &openapi3.Schema{Type: &openapi3.Types{"object"}, Properties: openapi3.Schemas{
			"level3": {Value: leaf},
		}}},
	}}

	c := a.Analyze(&openapi3.SchemaRef{Value: deep})
	assert.Equal(t, "object", c.Type)
	// Past the depth bound the remainder is unconstrained, never an error.
	assert.True(t, c.Properties["level2"].Properties["level3"].Unconstrained())
}

func TestAnalyzeMemoizesByRef(t *testing.T) {
	svc := cache.NewService(0, 0)
	defer svc.Shutdown()
	a := NewAnalyzer(8, svc.Constraints)

	ref := &openapi3.SchemaRef{Ref: "#/components/schemas/User", Value: stringSchema()}
	first := a.Analyze(ref)
	second := a.Analyze(ref)

	assert.Same(t, first, second)
	assert.Equal(t, 1, svc.Constraints.Len())
}

func TestSchemaKeyStableForEqualContent(t *testing.T) {
	ref1 := &openapi3.SchemaRef{Value: stringSchema()}
	ref2 := &openapi3.SchemaRef{Value: stringSchema()}

	assert.Equal(t, SchemaKey(ref1), SchemaKey(ref2))
	assert.Empty(t, SchemaKey(nil))
}
