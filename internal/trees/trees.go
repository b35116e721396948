// Package trees provides helpers for the untyped document trees
// (map[string]any / []any / scalars) that oasforge operates on.
package trees

import (
	"fmt"
	"reflect"
)

// NormalizeKeys rewrites every mapping in the tree so that all keys are
// strings. YAML allows non-string mapping keys (numeric status codes are the
// common case in OpenAPI documents); downstream code assumes map[string]any
// throughout, so normalization happens once at parse time.
func NormalizeKeys(value any) any {
	switch t := value.(type) {
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, v := range t {
			m[fmt.Sprint(k)] = NormalizeKeys(v)
		}
		return m
	case map[string]any:
		for k, v := range t {
			t[k] = NormalizeKeys(v)
		}
		return t
	case []any:
		for i, v := range t {
			t[i] = NormalizeKeys(v)
		}
		return t
	default:
		return value
	}
}

// DeepCopy returns a structurally independent copy of the tree. Maps and
// slices are cloned recursively; scalars are returned as-is. Aliased nodes
// in the input stay aliased in the copy, so trees holding identity cycles
// (recursive schemas after resolution) copy without diverging and keep
// their cycle structure.
//
// The resolver copies every $ref inclusion site before resolving it, so two
// inclusions of the same target never share nodes. Sharing would let one
// inclusion's resolution mutate the other and would corrupt identity-based
// cycle detection later.
func DeepCopy(value any) any {
	return deepCopy(value, make(map[uintptr]any))
}

func deepCopy(value any, seen map[uintptr]any) any {
	switch v := value.(type) {
	case map[string]any:
		id := reflect.ValueOf(v).Pointer()
		if existing, ok := seen[id]; ok {
			return existing
		}
		m := make(map[string]any, len(v))
		seen[id] = m
		for k, val := range v {
			m[k] = deepCopy(val, seen)
		}
		return m
	case []any:
		id := reflect.ValueOf(v).Pointer()
		if existing, ok := seen[id]; ok {
			return existing
		}
		s := make([]any, len(v))
		seen[id] = s
		for i, val := range v {
			s[i] = deepCopy(val, seen)
		}
		return s
	default:
		return v
	}
}
