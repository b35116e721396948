package resolver

import (
	"strconv"
	"strings"

	"github.com/oasforge/oasforge/oaserrors"
)

// lookupPointer resolves an RFC 6901 JSON Pointer within a document tree.
// The pointer is the fragment with any leading "#" already stripped; an
// empty pointer addresses the whole document.
func lookupPointer(doc any, pointer string) (any, error) {
	if pointer == "" {
		return doc, nil
	}

	current := doc
	for _, segment := range strings.Split(pointer, "/") {
		if segment == "" {
			continue
		}
		token := unescapePointerToken(segment)

		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[token]
			if !ok {
				return nil, &oaserrors.PointerError{
					Pointer: pointer,
					Segment: token,
					Message: "key not found",
				}
			}
			current = next

		case []any:
			index, err := strconv.Atoi(token)
			if err != nil {
				return nil, &oaserrors.PointerError{
					Pointer: pointer,
					Segment: token,
					Message: "array index must be a non-negative integer",
				}
			}
			if index < 0 || index >= len(typed) {
				return nil, &oaserrors.PointerError{
					Pointer: pointer,
					Segment: token,
					Message: "array index out of bounds",
				}
			}
			current = typed[index]

		default:
			return nil, &oaserrors.PointerError{
				Pointer: pointer,
				Segment: token,
				Message: "cannot traverse into a scalar",
			}
		}
	}

	return current, nil
}

// unescapePointerToken unescapes JSON Pointer tokens.
// Per RFC 6901, ~1 represents / and ~0 represents ~; ~1 must be rewritten
// before ~0 so "~01" decodes to "~1" rather than "/".
func unescapePointerToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}

// escapePointerToken escapes a key for embedding in a JSON Pointer.
func escapePointerToken(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}
