package trees

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKeys(t *testing.T) {
	in := map[any]any{
		200: map[any]any{
			"description": "ok",
		},
		"paths": []any{
			map[any]any{true: "weird"},
		},
	}

	out, ok := NormalizeKeys(in).(map[string]any)
	require.True(t, ok, "normalized root should be map[string]any")

	resp, ok := out["200"].(map[string]any)
	require.True(t, ok, "numeric key should become %q", "200")
	assert.Equal(t, "ok", resp["description"])

	paths, ok := out["paths"].([]any)
	require.True(t, ok)
	elem, ok := paths[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "weird", elem["true"])
}

func TestDeepCopyIndependence(t *testing.T) {
	original := map[string]any{
		"schema": map[string]any{"type": "object"},
		"tags":   []any{"a", "b"},
	}

	clone, ok := DeepCopy(original).(map[string]any)
	require.True(t, ok)

	clone["schema"].(map[string]any)["type"] = "string"
	clone["tags"].([]any)[0] = "z"

	assert.Equal(t, "object", original["schema"].(map[string]any)["type"])
	assert.Equal(t, "a", original["tags"].([]any)[0])
}

func TestDeepCopyPreservesCycles(t *testing.T) {
	node := map[string]any{"type": "object"}
	props := map[string]any{"self": node}
	node["properties"] = props

	clone, ok := DeepCopy(node).(map[string]any)
	require.True(t, ok)
	cloneProps, ok := clone["properties"].(map[string]any)
	require.True(t, ok)

	cloneID := reflect.ValueOf(clone).Pointer()
	selfID := reflect.ValueOf(cloneProps["self"]).Pointer()
	originalID := reflect.ValueOf(node).Pointer()
	assert.Equal(t, cloneID, selfID, "back-edge should close on the clone")
	assert.NotEqual(t, originalID, selfID, "clone must not alias the original")
}

func TestDeepCopyScalars(t *testing.T) {
	assert.Equal(t, 42, DeepCopy(42))
	assert.Equal(t, "x", DeepCopy("x"))
	assert.Nil(t, DeepCopy(nil))
}
