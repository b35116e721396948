package resolver

import (
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Decycle rewrites a resolved document tree so it can be serialized: every
// edge that closes an identity cycle is replaced by a {"$ref": <pointer>}
// node addressing the first (shallowest, in traversal order) occurrence of
// the target. Acyclic input passes through structurally unchanged.
//
// Pointers prefer a canonical component location (#/components/<kind>/<name>
// or #/definitions/<name>) when the target first appeared under one, falling
// back to the exact first-seen path. Decycle never fails; it returns a fresh
// tree and leaves the input untouched.
func Decycle(node any) any {
	d := &decycler{
		visiting:  make(map[uintptr]bool),
		firstSeen: make(map[uintptr]string),
		component: make(map[uintptr]string),
	}
	out, _ := d.visit(node, nil, "")
	return out
}

// decycler carries traversal state: the ancestor set (cycle detection), the
// first-seen pointer per node, and the preferred component pointer per node.
type decycler struct {
	visiting  map[uintptr]bool
	firstSeen map[uintptr]string
	component map[uintptr]string
}

// cycleMarker signals to the caller that a child closed a cycle. A bubbling
// marker means the child was a properties map: a bare $ref is not valid
// there, so the enclosing schema is replaced wholesale instead.
type cycleMarker struct {
	pointer string
	bubble  bool
}

func (d *decycler) visit(node any, path []string, parentKey string) (any, *cycleMarker) {
	id, ok := nodeIdentity(node)
	if !ok {
		return node, nil
	}

	if d.visiting[id] {
		ptr, ok := d.component[id]
		if !ok {
			ptr = d.firstSeen[id]
		}
		return nil, &cycleMarker{pointer: ptr, bubble: parentKey == "properties"}
	}

	if _, seen := d.firstSeen[id]; !seen {
		d.firstSeen[id] = pointerFromPath(path)
	}
	if _, seen := d.component[id]; !seen {
		if ptr, ok := componentPointer(path); ok {
			d.component[id] = ptr
		}
	}

	d.visiting[id] = true
	defer delete(d.visiting, id)

	switch typed := node.(type) {
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		out := make(map[string]any, len(typed))
		for _, key := range keys {
			childPath := append(path[:len(path):len(path)], key)
			child, marker := d.visit(typed[key], childPath, key)
			if marker != nil {
				if marker.bubble {
					return map[string]any{"$ref": marker.pointer}, nil
				}
				out[key] = map[string]any{"$ref": marker.pointer}
				continue
			}
			out[key] = child
		}
		return out, nil

	case []any:
		out := make([]any, len(typed))
		for i, elem := range typed {
			childPath := append(path[:len(path):len(path)], strconv.Itoa(i))
			child, marker := d.visit(elem, childPath, strconv.Itoa(i))
			if marker != nil {
				if marker.bubble {
					return map[string]any{"$ref": marker.pointer}, nil
				}
				out[i] = map[string]any{"$ref": marker.pointer}
				continue
			}
			out[i] = child
		}
		return out, nil

	default:
		return node, nil
	}
}

// nodeIdentity returns a stable identity for mapping and sequence nodes so
// traversals can tell aliased nodes apart from equal copies. Scalars have no
// identity.
func nodeIdentity(node any) (uintptr, bool) {
	switch node.(type) {
	case map[string]any, []any:
		return reflect.ValueOf(node).Pointer(), true
	default:
		return 0, false
	}
}

// pointerFromPath renders a traversal path as a URI-fragment JSON Pointer.
func pointerFromPath(path []string) string {
	if len(path) == 0 {
		return "#"
	}
	escaped := make([]string, len(path))
	for i, segment := range path {
		escaped[i] = escapePointerToken(segment)
	}
	return "#/" + strings.Join(escaped, "/")
}

// componentPointer returns the canonical component pointer for a path that
// passes through #/components/<kind>/<name> or #/definitions/<name>, using
// the earliest match so nested component-shaped keys deeper in the tree do
// not win over the real location.
func componentPointer(path []string) (string, bool) {
	for i, segment := range path {
		if segment == "components" && i+3 <= len(path) {
			return "#/components/" + escapePointerToken(path[i+1]) + "/" + escapePointerToken(path[i+2]), true
		}
		if segment == "definitions" && i+2 <= len(path) {
			return "#/definitions/" + escapePointerToken(path[i+1]), true
		}
	}
	return "", false
}
