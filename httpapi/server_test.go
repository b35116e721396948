package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(Config{APIVersion: "1.2.3"})
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

const petstoreYAML = `
openapi: 3.0.3
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
`

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/v1/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.2.3", rec.Header().Get("API-Version"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestDereferencePostYAMLBody(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodPost, "/v1/dereference", petstoreYAML)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="petstore.yaml"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "1.2.3", rec.Header().Get("API-Version"))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &doc))
	assert.NotContains(t, rec.Body.String(), "$ref")
}

func TestDereferencePostJSONBodyAnswersJSON(t *testing.T) {
	s := newTestServer(t)
	body := `{"openapi": "3.0.3", "info": {"title": "JSON Petstore", "version": "1.0.0"}, "paths": {}}`
	rec := doRequest(t, s, http.MethodPost, "/v1/dereference", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="json-petstore.json"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, json.Valid(rec.Body.Bytes()))
}

func TestDereferenceRemoteRefFetchedOnce(t *testing.T) {
	var hits atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("components:\n  schemas:\n    Pet:\n      type: object\n    Tag:\n      type: string\n"))
	}))
	defer upstream.Close()

	body := fmt.Sprintf(`
openapi: 3.0.3
info:
  title: Remote
  version: 1.0.0
paths: {}
components:
  schemas:
    A:
      $ref: '%[1]s/shared.yaml#/components/schemas/Pet'
    B:
      $ref: '%[1]s/shared.yaml#/components/schemas/Tag'
`, upstream.URL)

	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodPost, "/v1/dereference", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int32(1), hits.Load(), "one external document, one fetch")
}

func TestDereferenceEnvelopeWithURL(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(petstoreYAML))
	}))
	defer upstream.Close()

	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodPost, "/v1/dereference",
		fmt.Sprintf(`{"oasUrl": %q}`, upstream.URL+"/petstore.yaml"))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "petstore")
}

func TestDereferenceGETRequiresOasURL(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/v1/dereference", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")

	var problem APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, http.StatusBadRequest, problem.Status)
	require.Len(t, problem.InvalidParams, 1)
	assert.Equal(t, "oasUrl", problem.InvalidParams[0].Name)
}

func TestDereferencePointerMissIsProblem(t *testing.T) {
	s := newTestServer(t)
	body := `
openapi: 3.0.3
info:
  title: Broken
  version: 1.0.0
paths: {}
x-bad:
  $ref: '#/components/schemas/Missing'
`
	rec := doRequest(t, s, http.MethodPost, "/v1/dereference", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var problem APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "Bad Request", problem.Title)
	assert.Contains(t, problem.Detail, "pointer")
	assert.NotEmpty(t, problem.Instance)
}

func TestDereferenceRecursiveSchemaSerializes(t *testing.T) {
	s := newTestServer(t)
	body := `
openapi: 3.0.3
info:
  title: Recursive
  version: 1.0.0
paths: {}
components:
  schemas:
    Node:
      type: object
      properties:
        children:
          $ref: '#/components/schemas/Node'
`
	rec := doRequest(t, s, http.MethodPost, "/v1/dereference", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "'#/components/schemas/Node'",
		"cycles come back as references after decycling")
}

func TestConvertUpgrade(t *testing.T) {
	s := newTestServer(t)
	body := `
openapi: 3.0.3
info:
  title: Conv
  version: 1.0.0
paths: {}
components:
  schemas:
    Name:
      type: string
      nullable: true
`
	rec := doRequest(t, s, http.MethodPost, "/v1/convert", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, `attachment; filename="openapi-3-1-0.yaml"`, rec.Header().Get("Content-Disposition"))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.1.0", doc["openapi"])
}

func TestConvertUnsupportedVersion(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodPost, "/v1/convert", "swagger: \"2.0\"\ninfo: {}\n")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var problem APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, http.StatusBadRequest, problem.Status)
}

func TestArazzoVisualize(t *testing.T) {
	s := newTestServer(t)
	spec := `
workflows:
  - workflowId: w1
    steps:
      - stepId: s1
        operationId: op1
`
	rec := doRequest(t, s, http.MethodPost, "/v1/arazzo/visualize", spec)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Contains(t, result["markdown"], "### Workflow: w1")
	assert.Contains(t, result["mermaid"], "graph TD")
}

func TestArazzoVisualizeOutputFilter(t *testing.T) {
	s := newTestServer(t)
	body := `{"arazzoBody": "workflows:\n  - workflowId: w1\n    steps:\n      - stepId: s1\n", "output": "markdown"}`
	rec := doRequest(t, s, http.MethodPost, "/v1/arazzo/visualize", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result["markdown"])
	assert.Empty(t, result["mermaid"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	_ = doRequest(t, s, http.MethodGet, "/v1/health", "")

	rec := doRequest(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "oasforge_http_requests_total")
}
