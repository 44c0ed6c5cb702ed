package types

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// Endpoint represents one (method, path) operation extracted from an
// OpenAPI document. It is immutable once built by the parser; identity is
// (method, path, operation id).
type Endpoint struct {
	Method      string
	Path        string
	OperationID string
	Summary     string
	Parameters  []Parameter
	RequestBody *RequestBody
	Responses   map[int]ResponseSpec
	Security    []string
	Tags        []string
}

// Identity returns the stable key used for caches and result maps.
func (e Endpoint) Identity() string {
	return fmt.Sprintf("%s %s %s", e.Method, e.Path, e.OperationID)
}

// HasParameters reports whether the operation declares any parameter.
func (e Endpoint) HasParameters() bool {
	return len(e.Parameters) > 0
}

// HasRequestBody reports whether the operation declares a request body.
func (e Endpoint) HasRequestBody() bool {
	return e.RequestBody != nil && len(e.RequestBody.Content) > 0
}

// RequiresAuthentication reports whether any security scheme applies.
func (e Endpoint) RequiresAuthentication() bool {
	return len(e.Security) > 0
}

// Parameter represents one declared parameter (path, query, header, cookie).
type Parameter struct {
	Name     string
	In       string
	Required bool
	Schema   *openapi3.SchemaRef
}

// RequestBody describes the declared request body, one schema per content
// type.
type RequestBody struct {
	Required bool
	Content  map[string]*openapi3.SchemaRef
}

// ResponseSpec describes one declared response.
type ResponseSpec struct {
	Description string
	Content     map[string]*openapi3.SchemaRef
}
