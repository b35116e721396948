package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const refSpec = `openapi: "3.0.0"
info:
  title: Ref API
  version: "1.0.0"
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Pet"
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
`

const recursiveSpec = `openapi: "3.0.0"
info:
  title: Recursive API
  version: "1.0.0"
paths: {}
components:
  schemas:
    Node:
      type: object
      properties:
        children:
          type: array
          items:
            $ref: "#/components/schemas/Node"
`

func TestDereferenceTool_LocalRefs(t *testing.T) {
	input := dereferenceInput{Spec: specInput{Content: refSpec}}
	_, output, err := handleDereference(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.Equal(t, "yaml", output.Format)
	assert.Equal(t, "ref-api.yaml", output.Filename)
	assert.NotEmpty(t, output.Document)
	assert.Empty(t, output.WrittenTo)
	// The response schema is inlined; the schema name survives under components.
	assert.Contains(t, output.Document, "name:")
}

func TestDereferenceTool_RecursiveSchema(t *testing.T) {
	input := dereferenceInput{Spec: specInput{Content: recursiveSpec}}
	_, output, err := handleDereference(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	// The cycle must come back as an internal pointer, not an infinite expansion.
	assert.Contains(t, output.Document, "#/components/schemas/Node")
}

func TestDereferenceTool_OutputFile(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "bundled.yaml")

	input := dereferenceInput{
		Spec:   specInput{Content: refSpec},
		Output: outPath,
	}
	_, output, err := handleDereference(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.Equal(t, outPath, output.WrittenTo)
	assert.Empty(t, output.Document, "document should not be inline when written to file")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Ref API")
}

func TestDereferenceTool_JSONInput(t *testing.T) {
	input := dereferenceInput{Spec: specInput{Content: `{"openapi": "3.0.0", "info": {"title": "J", "version": "1"}, "paths": {}}`}}
	_, output, err := handleDereference(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.Equal(t, "json", output.Format)
	assert.Equal(t, "j.json", output.Filename)
}

func TestDereferenceTool_InvalidSpec(t *testing.T) {
	input := dereferenceInput{Spec: specInput{Content: "not valid yaml: ["}}
	result, output, err := handleDereference(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.Empty(t, output.Document)
}

func TestDereferenceTool_NoInputProvided(t *testing.T) {
	input := dereferenceInput{}
	result, output, err := handleDereference(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.Empty(t, output.Document)
}

func TestDereferenceTool_InvalidOutputPath(t *testing.T) {
	input := dereferenceInput{
		Spec:   specInput{Content: refSpec},
		Output: "/nonexistent/dir/file.yaml",
	}
	result, output, err := handleDereference(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.Empty(t, output.WrittenTo)
}
