// Package filter derives pruned copies of an organization document.
//
// Filtering works on the raw decoded document rather than on a built tree,
// so the original snapshot is never touched and the result can be rebuilt
// with [hierarchy.Build] like any freshly loaded document.
//
// A node is retained when the predicate holds for it or for any of its
// descendants. The document root is always retained. For an array document
// the top-level items are treated as children of an implicit root.
package filter

import (
	"strings"

	"github.com/matzehuels/orgchart/pkg/hierarchy"
)

// Predicate decides whether a node matches. It receives the node's payload
// without its children.
type Predicate func(hierarchy.Payload) bool

// Field matches nodes whose scalar field contains substr, ignoring case.
// An empty (or all-space) substr matches every node.
func Field(name, substr string) Predicate {
	needle := strings.ToLower(strings.TrimSpace(substr))
	if needle == "" {
		return True
	}
	return func(p hierarchy.Payload) bool {
		return strings.Contains(strings.ToLower(p.String(name)), needle)
	}
}

// Department matches nodes whose department contains substr, ignoring case.
func Department(substr string) Predicate {
	return Field(hierarchy.KeyDepartment, substr)
}

// Any matches when at least one predicate matches. With no predicates it
// matches nothing.
func Any(preds ...Predicate) Predicate {
	return func(p hierarchy.Payload) bool {
		for _, pred := range preds {
			if pred(p) {
				return true
			}
		}
		return false
	}
}

// All matches when every predicate matches. With no predicates it matches
// everything.
func All(preds ...Predicate) Predicate {
	return func(p hierarchy.Payload) bool {
		for _, pred := range preds {
			if !pred(p) {
				return false
			}
		}
		return true
	}
}

// True matches every node.
func True(hierarchy.Payload) bool { return true }

// Apply returns a pruned deep copy of doc. The input is not modified.
//
// doc has the same shape accepted by [hierarchy.Build]: an object, an array
// of objects, or nil. Non-object array items are dropped from the copy.
// Non-object values at the top level are returned unchanged.
func Apply(doc any, pred Predicate) any {
	if pred == nil {
		pred = True
	}
	switch v := doc.(type) {
	case map[string]any:
		out, _ := prune(v, pred, true)
		return out
	case []any:
		items := make([]any, 0, len(v))
		for _, it := range v {
			obj, ok := it.(map[string]any)
			if !ok {
				continue
			}
			if kept, ok := prune(obj, pred, false); ok {
				items = append(items, kept)
			}
		}
		return items
	default:
		return doc
	}
}

// prune copies obj and its retained descendants. It reports whether obj
// itself is retained.
func prune(obj map[string]any, pred Predicate, force bool) (map[string]any, bool) {
	out := make(map[string]any, len(obj))
	payload := make(hierarchy.Payload, len(obj))
	for k, v := range obj {
		if k == hierarchy.KeyChildren {
			continue
		}
		out[k] = deepCopy(v)
		payload[k] = v
	}

	var kept []any
	switch arr := obj[hierarchy.KeyChildren].(type) {
	case nil:
	case []any:
		for _, c := range arr {
			child, ok := c.(map[string]any)
			if !ok {
				continue
			}
			if cc, ok := prune(child, pred, false); ok {
				kept = append(kept, cc)
			}
		}
	default:
		out[hierarchy.KeyChildren] = deepCopy(arr)
	}
	if len(kept) > 0 {
		out[hierarchy.KeyChildren] = kept
	}

	return out, force || len(kept) > 0 || pred(payload)
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = deepCopy(val)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = deepCopy(val)
		}
		return s
	default:
		return v
	}
}

// Copy returns a deep copy of a decoded document.
func Copy(doc any) any {
	return deepCopy(doc)
}
