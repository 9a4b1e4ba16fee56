package hierarchy

import (
	"fmt"

	"github.com/matzehuels/orgchart/pkg/errors"
)

// VirtualRootName is the display name given to the synthetic root.
const VirtualRootName = "Organization"

// Warning describes a tolerated shape problem found while building a tree,
// such as a node without a name. Warnings never stop a build.
type Warning struct {
	Path    string // Location in the document, e.g. "$[1].children[0]"
	Message string
}

// String formats the warning as "path: message".
func (w Warning) String() string {
	return w.Path + ": " + w.Message
}

// Tree is the result of [Build].
type Tree struct {
	// Root is nil for an empty document.
	Root *Node

	// Virtual reports whether Root is a synthetic virtual root.
	Virtual bool

	// Warnings lists the tolerated shape problems.
	Warnings []Warning
}

// Empty reports whether the tree has no renderable nodes.
func (t *Tree) Empty() bool {
	return t == nil || t.Root == nil
}

// Build converts a decoded document into a tree.
//
// The document must be a JSON-like value: an object (map[string]any), an
// array ([]any) of objects, or nil. An object becomes the root. An array with
// one object promotes that object to the root; an array with two or more
// objects is wrapped in a virtual root. An empty array or nil yields an empty
// tree, which is not an error.
//
// Build never modifies doc. Payload maps are shallow copies without the
// children key. Nodes start fully expanded.
func Build(doc any) (*Tree, error) {
	b := &builder{}
	t := &Tree{}

	switch v := doc.(type) {
	case nil:
		return t, nil
	case map[string]any:
		t.Root = b.node(v, 0, "$")
	case []any:
		items := b.objects(v, "$")
		switch len(items) {
		case 0:
		case 1:
			t.Root = b.node(items[0].obj, 0, items[0].path)
		default:
			children := make([]*Node, 0, len(items))
			for _, it := range items {
				children = append(children, b.node(it.obj, 1, it.path))
			}
			root := newNode(Payload{KeyName: VirtualRootName, KeyVirtual: true}, 0, children)
			root.Virtual = true
			t.Root = root
			t.Virtual = true
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidDocument,
			"document must be an object or an array of objects, got %s", kindOf(doc))
	}

	t.Warnings = b.warnings
	return t, nil
}

type builder struct {
	warnings []Warning
}

type item struct {
	obj  map[string]any
	path string
}

func (b *builder) warn(path, format string, args ...any) {
	b.warnings = append(b.warnings, Warning{Path: path, Message: fmt.Sprintf(format, args...)})
}

// objects returns the object elements of arr, warning about the rest.
func (b *builder) objects(arr []any, path string) []item {
	out := make([]item, 0, len(arr))
	for i, v := range arr {
		p := fmt.Sprintf("%s[%d]", path, i)
		obj, ok := v.(map[string]any)
		if !ok {
			b.warn(p, "expected object, got %s; skipped", kindOf(v))
			continue
		}
		out = append(out, item{obj: obj, path: p})
	}
	return out
}

func (b *builder) node(obj map[string]any, depth int, path string) *Node {
	payload := make(Payload, len(obj))
	for k, v := range obj {
		if k == KeyChildren {
			continue
		}
		payload[k] = v
	}
	if payload.Name() == "" {
		b.warn(path, "missing name")
	}

	var children []*Node
	if raw, ok := obj[KeyChildren]; ok && raw != nil {
		arr, ok := raw.([]any)
		if !ok {
			b.warn(path+".children", "expected array, got %s; treated as leaf", kindOf(raw))
		} else {
			for _, it := range b.objects(arr, path+".children") {
				children = append(children, b.node(it.obj, depth+1, it.path))
			}
		}
	}

	return newNode(payload, depth, children)
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, uint64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
