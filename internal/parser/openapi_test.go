package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petstore = `{
  "openapi": "3.0.0",
  "info": {"title": "Pet Store", "version": "1.0.0"},
  "security": [{"globalKey": []}],
  "paths": {
    "/pets/{petId}": {
      "parameters": [
        {"name": "petId", "in": "path", "required": true, "schema": {"type": "integer"}}
      ],
      "get": {
        "operationId": "getPet",
        "responses": {
          "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Pet"}}}},
          "404": {"description": "Not Found"}
        }
      },
      "delete": {
        "operationId": "deletePet",
        "security": [{"bearerAuth": []}],
        "responses": {"204": {"description": "Deleted"}}
      }
    },
    "/pets": {
      "post": {
        "operationId": "createPet",
        "security": [],
        "requestBody": {
          "required": true,
          "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Pet"}}}
        },
        "responses": {"201": {"description": "Created"}}
      },
      "get": {
        "operationId": "listPets",
        "parameters": [
          {"name": "limit", "in": "query", "schema": {"type": "integer", "maximum": 100}}
        ],
        "responses": {"200": {"description": "OK"}}
      }
    }
  },
  "components": {
    "schemas": {
      "Pet": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "maxLength": 50},
          "tag": {"type": "string"}
        }
      }
    },
    "securitySchemes": {
      "bearerAuth": {"type": "http", "scheme": "bearer"},
      "globalKey": {"type": "apiKey", "in": "header", "name": "X-Key"}
    }
  }
}`

func loadPetstore(t *testing.T) *Parser {
	t.Helper()
	p := New()
	require.NoError(t, p.LoadData([]byte(petstore)))
	return p
}

func TestEndpointsDeterministicOrder(t *testing.T) {
	p := loadPetstore(t)

	endpoints, err := p.Endpoints()

	require.NoError(t, err)
	require.Len(t, endpoints, 4)

	identities := make([]string, len(endpoints))
	for i, ep := range endpoints {
		identities[i] = ep.Method + " " + ep.Path
	}
	// Paths sorted lexically, methods in fixed verb order within a path.
	assert.Equal(t, []string{
		"GET /pets",
		"POST /pets",
		"GET /pets/{petId}",
		"DELETE /pets/{petId}",
	}, identities)
}

func TestExtractPathItemParameters(t *testing.T) {
	p := loadPetstore(t)
	endpoints, err := p.Endpoints()
	require.NoError(t, err)

	var getPet *struct{ idx int }
	for i, ep := range endpoints {
		if ep.OperationID == "getPet" {
			getPet = &struct{ idx int }{i}
		}
	}
	require.NotNil(t, getPet)

	ep := endpoints[getPet.idx]
	require.Len(t, ep.Parameters, 1, "path-item level parameters apply to the operation")
	assert.Equal(t, "petId", ep.Parameters[0].Name)
	assert.Equal(t, "path", ep.Parameters[0].In)
	assert.True(t, ep.Parameters[0].Required)
}

func TestExtractRequestBodyAndResponses(t *testing.T) {
	p := loadPetstore(t)
	endpoints, err := p.Endpoints()
	require.NoError(t, err)

	for _, ep := range endpoints {
		switch ep.OperationID {
		case "createPet":
			require.NotNil(t, ep.RequestBody)
			assert.True(t, ep.RequestBody.Required)
			require.Contains(t, ep.RequestBody.Content, "application/json")
			schema := ep.RequestBody.Content["application/json"]
			require.NotNil(t, schema.Value)
			assert.Contains(t, schema.Value.Properties, "name")
			assert.Contains(t, ep.Responses, 201)
		case "getPet":
			assert.Contains(t, ep.Responses, 200)
			assert.Contains(t, ep.Responses, 404)
			assert.Equal(t, "Not Found", ep.Responses[404].Description)
		}
	}
}

func TestSecuritySchemeResolution(t *testing.T) {
	p := loadPetstore(t)
	endpoints, err := p.Endpoints()
	require.NoError(t, err)

	byOp := make(map[string][]string)
	for _, ep := range endpoints {
		byOp[ep.OperationID] = ep.Security
	}

	assert.Equal(t, []string{"bearerAuth"}, byOp["deletePet"], "operation-level security wins")
	assert.Empty(t, byOp["createPet"], "an explicit empty requirement disables the global one")
	assert.Equal(t, []string{"globalKey"}, byOp["getPet"], "document-level security is the default")
}

func TestLoadDataRejectsDocumentWithoutPaths(t *testing.T) {
	p := New()

	err := p.LoadData([]byte(`{"openapi": "3.0.0", "info": {"title": "Empty", "version": "1"}, "paths": {}}`))

	assert.Error(t, err)
}

func TestLoadDataRejectsGarbage(t *testing.T) {
	p := New()
	assert.Error(t, p.LoadData([]byte("not a spec at all {{{")))
}

func TestLoadFileMissing(t *testing.T) {
	p := New()
	assert.Error(t, p.LoadFile("/nonexistent/swagger.json"))
}

func TestEndpointsWithoutLoadedDocument(t *testing.T) {
	p := New()
	_, err := p.Endpoints()
	assert.Error(t, err)
}
