package resolver

import (
	"errors"
	"testing"

	"github.com/oasforge/oasforge/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pointerTestDoc() map[string]any {
	return map[string]any{
		"info": map[string]any{
			"title": "Test API",
		},
		"paths": map[string]any{
			"/pets/{id}": map[string]any{
				"get": map[string]any{"operationId": "getPet"},
			},
		},
		"tilde~key": "tilde-value",
		"servers": []any{
			map[string]any{"url": "https://api.example.com"},
			map[string]any{"url": "https://staging.example.com"},
		},
	}
}

func TestLookupPointer(t *testing.T) {
	doc := pointerTestDoc()

	tests := []struct {
		name    string
		pointer string
		want    any
	}{
		{"whole document", "", doc},
		{"nested key", "/info/title", "Test API"},
		{"escaped slash", "/paths/~1pets~1{id}/get/operationId", "getPet"},
		{"escaped tilde", "/tilde~0key", "tilde-value"},
		{"array index", "/servers/1/url", "https://staging.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lookupPointer(doc, tt.pointer)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupPointerErrors(t *testing.T) {
	doc := pointerTestDoc()

	tests := []struct {
		name    string
		pointer string
	}{
		{"missing key", "/info/nope"},
		{"non-numeric index", "/servers/first"},
		{"index out of bounds", "/servers/2"},
		{"negative index", "/servers/-1"},
		{"traverse into scalar", "/info/title/deeper"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lookupPointer(doc, tt.pointer)
			require.Error(t, err)
			assert.True(t, errors.Is(err, oaserrors.ErrPointerNotFound))

			var perr *oaserrors.PointerError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.pointer, perr.Pointer)
		})
	}
}

func TestPointerTokenEscaping(t *testing.T) {
	// ~01 must decode to ~1, not to / (RFC 6901 ordering).
	assert.Equal(t, "~1", unescapePointerToken("~01"))
	assert.Equal(t, "a/b~c", unescapePointerToken("a~1b~0c"))
	assert.Equal(t, "a~1b~0c", escapePointerToken("a/b~c"))
}
