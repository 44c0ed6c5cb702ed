package parser

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"api-testgen/internal/types"

	"github.com/getkin/kin-openapi/openapi3"
)

// methodOrder fixes the extraction order for operations under one path.
// Unrecognized verbs in the document are ignored.
var methodOrder = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS", "TRACE"}

// Parser loads an OpenAPI 3.x / Swagger document and extracts endpoints.
type Parser struct {
	client *http.Client
	doc    *openapi3.T
}

// New creates a parser.
func New() *Parser {
	return &Parser{client: &http.Client{}}
}

// LoadFile parses the document at the given file path.
func (p *Parser) LoadFile(path string) error {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("failed to parse OpenAPI document %s: %w", path, err)
	}
	return p.accept(doc)
}

// LoadData parses an in-memory document.
func (p *Parser) LoadData(data []byte) error {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}
	return p.accept(doc)
}

// LoadURL fetches the document from a base URL, probing the usual
// swagger.json locations.
func (p *Parser) LoadURL(baseURL string) error {
	urls := []string{
		fmt.Sprintf("%s/swagger/v1/swagger.json", baseURL),
		fmt.Sprintf("%s/swagger.json", baseURL),
		fmt.Sprintf("%s/v1/swagger.json", baseURL),
		fmt.Sprintf("%s/api/swagger.json", baseURL),
		fmt.Sprintf("%s/api/v1/swagger.json", baseURL),
		fmt.Sprintf("%s/openapi.json", baseURL),
		baseURL,
	}

	var lastErr error
	for _, url := range urls {
		data, err := p.fetch(url)
		if err != nil {
			lastErr = err
			continue
		}
		if err := p.LoadData(data); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("failed to fetch OpenAPI documentation from any known URL: %w", lastErr)
}

func (p *Parser) fetch(url string) ([]byte, error) {
	resp, err := p.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// accept rejects documents without the required top-level structure. This
// is the only fatal input check: everything past it degrades per endpoint.
func (p *Parser) accept(doc *openapi3.T) error {
	if doc == nil || doc.Paths == nil || len(doc.Paths.Map()) == 0 {
		return fmt.Errorf("document declares no paths; not a usable OpenAPI description")
	}
	p.doc = doc
	return nil
}

// Endpoints extracts every recognized operation in deterministic order:
// paths sorted lexically, methods in fixed verb order.
func (p *Parser) Endpoints() ([]types.Endpoint, error) {
	if p.doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	pathMap := p.doc.Paths.Map()
	paths := make([]string, 0, len(pathMap))
	for path := range pathMap {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var endpoints []types.Endpoint
	for _, path := range paths {
		item := pathMap[path]
		ops := item.Operations()
		for _, method := range methodOrder {
			op, ok := ops[method]
			if !ok || op == nil {
				continue
			}
			endpoints = append(endpoints, p.extract(method, path, item, op))
		}
	}
	return endpoints, nil
}

func (p *Parser) extract(method, path string, item *openapi3.PathItem, op *openapi3.Operation) types.Endpoint {
	ep := types.Endpoint{
		Method:      method,
		Path:        path,
		OperationID: op.OperationID,
		Summary:     op.Summary,
		Responses:   make(map[int]types.ResponseSpec),
		Tags:        append([]string(nil), op.Tags...),
	}

	// Path-item parameters apply to every operation beneath it.
	for _, ref := range item.Parameters {
		if param := toParameter(ref); param != nil {
			ep.Parameters = append(ep.Parameters, *param)
		}
	}
	for _, ref := range op.Parameters {
		if param := toParameter(ref); param != nil {
			ep.Parameters = append(ep.Parameters, *param)
		}
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		body := &types.RequestBody{
			Required: op.RequestBody.Value.Required,
			Content:  make(map[string]*openapi3.SchemaRef),
		}
		for contentType, media := range op.RequestBody.Value.Content {
			if media != nil {
				body.Content[contentType] = p.resolve(media.Schema)
			}
		}
		if len(body.Content) > 0 {
			ep.RequestBody = body
		}
	}

	if op.Responses != nil {
		for statusCode, ref := range op.Responses.Map() {
			code := 0
			if _, err := fmt.Sscanf(statusCode, "%d", &code); err != nil || code == 0 {
				continue
			}
			if ref == nil || ref.Value == nil {
				continue
			}
			spec := types.ResponseSpec{Content: make(map[string]*openapi3.SchemaRef)}
			if ref.Value.Description != nil {
				spec.Description = *ref.Value.Description
			}
			for contentType, media := range ref.Value.Content {
				if media != nil && media.Schema != nil {
					spec.Content[contentType] = p.resolve(media.Schema)
				}
			}
			ep.Responses[code] = spec
		}
	}

	ep.Security = p.securitySchemes(op)
	return ep
}

func toParameter(ref *openapi3.ParameterRef) *types.Parameter {
	if ref == nil || ref.Value == nil {
		return nil
	}
	p := ref.Value
	return &types.Parameter{
		Name:     p.Name,
		In:       p.In,
		Required: p.Required,
		Schema:   p.Schema,
	}
}

// securitySchemes collects the scheme names applying to the operation,
// falling back to the document-level requirement.
func (p *Parser) securitySchemes(op *openapi3.Operation) []string {
	requirements := p.doc.Security
	if op.Security != nil {
		requirements = *op.Security
	}

	seen := make(map[string]bool)
	var names []string
	for _, req := range requirements {
		for name := range req {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// resolve follows a component reference to its schema when the loader did
// not already inline it.
func (p *Parser) resolve(ref *openapi3.SchemaRef) *openapi3.SchemaRef {
	if ref == nil {
		return nil
	}
	if ref.Value == nil && ref.Ref != "" && p.doc.Components != nil {
		name := strings.TrimPrefix(ref.Ref, "#/components/schemas/")
		if resolved, ok := p.doc.Components.Schemas[name]; ok {
			return resolved
		}
	}
	return ref
}
