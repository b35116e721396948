package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsURL(t *testing.T) {
	assert.True(t, isURL("http://example.com/openapi.yaml"))
	assert.True(t, isURL("https://example.com/openapi.yaml"))
	assert.False(t, isURL("openapi.yaml"))
	assert.False(t, isURL("./relative/openapi.yaml"))
	assert.False(t, isURL("/abs/openapi.yaml"))
}

func TestLoadSpecFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("openapi: \"3.0.0\"\n"), 0o644))

	data, sourceURL, err := loadSpec(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "openapi: \"3.0.0\"\n", string(data))
	assert.Empty(t, sourceURL)
}

func TestLoadSpecFileNotFound(t *testing.T) {
	_, _, err := loadSpec(context.Background(), "/nonexistent/spec.yaml")
	assert.Error(t, err)
}

func TestWriteOutputToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")

	require.NoError(t, writeOutput(path, []byte("hello\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestHandleResolve(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "spec.yaml")
	outPath := filepath.Join(dir, "bundled.yaml")

	spec := `openapi: "3.0.0"
info:
  title: CLI Test
  version: "1.0.0"
paths:
  /pets:
    get:
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
`
	require.NoError(t, os.WriteFile(inPath, []byte(spec), 0o644))

	require.NoError(t, handleResolve([]string{"-o", outPath, inPath}))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "type: object")
	assert.NotContains(t, string(data), "#/components/schemas/Pet")
}

func TestHandleConvert(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "spec.yaml")
	outPath := filepath.Join(dir, "converted.yaml")

	spec := `openapi: "3.0.0"
info:
  title: CLI Test
  version: "1.0.0"
paths: {}
`
	require.NoError(t, os.WriteFile(inPath, []byte(spec), 0o644))

	require.NoError(t, handleConvert([]string{"-o", outPath, inPath}))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "3.1.0")
}

func TestHandleArazzo(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "flows.arazzo.yaml")
	outPath := filepath.Join(dir, "flow.mmd")

	spec := `arazzo: "1.0.0"
info:
  title: CLI Flow
  version: "1.0.0"
workflows:
  - workflowId: go
    steps:
      - stepId: first
`
	require.NoError(t, os.WriteFile(inPath, []byte(spec), 0o644))

	require.NoError(t, handleArazzo([]string{"-format", "mermaid", "-o", outPath, inPath}))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "graph TD")
}

func TestHandleArazzoInvalidFormat(t *testing.T) {
	err := handleArazzo([]string{"-format", "svg", "whatever.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestHandleResolveMissingArg(t *testing.T) {
	err := handleResolve(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one file path or URL")
}
