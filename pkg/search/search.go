// Package search finds nodes whose fields contain a query string.
//
// Matching is a case-insensitive substring test over a configurable list of
// payload fields. Search never changes the shape of the tree; callers use
// the result to highlight nodes.
package search

import (
	"strings"

	"github.com/matzehuels/orgchart/pkg/hierarchy"
)

// DefaultFields are searched when an [Index] has no fields configured.
var DefaultFields = []string{
	hierarchy.KeyName,
	hierarchy.KeyTitle,
	hierarchy.KeyDepartment,
	hierarchy.KeyEmail,
}

// Index matches nodes against queries. The zero value searches
// DefaultFields.
type Index struct {
	Fields []string
}

// New returns an index over the given fields, or DefaultFields if none.
func New(fields ...string) Index {
	return Index{Fields: fields}
}

func (ix Index) fields() []string {
	if len(ix.Fields) == 0 {
		return DefaultFields
	}
	return ix.Fields
}

// Match reports whether any configured field of n contains query, ignoring
// case. An empty or all-space query matches nothing. Virtual roots never
// match.
func (ix Index) Match(n *hierarchy.Node, query string) bool {
	q := normalize(query)
	if q == "" || n == nil || n.Virtual {
		return false
	}
	return ix.match(n, q)
}

func (ix Index) match(n *hierarchy.Node, q string) bool {
	for _, f := range ix.fields() {
		if strings.Contains(strings.ToLower(n.Payload.String(f)), q) {
			return true
		}
	}
	return false
}

// Result is the outcome of a search.
type Result struct {
	Query string

	// Nodes lists the matching nodes in pre-order.
	Nodes []*hierarchy.Node

	// IDs is the set of matching identities. Nodes not yet observed by a
	// reconciliation engine have ID zero and are left out.
	IDs map[hierarchy.ID]bool
}

// Contains reports whether n is one of the matches. Observed nodes are
// looked up by identity; only unobserved ones fall back to a scan.
func (r Result) Contains(n *hierarchy.Node) bool {
	if n.ID != 0 {
		return r.IDs[n.ID]
	}
	for _, m := range r.Nodes {
		if m == n {
			return true
		}
	}
	return false
}

// Len returns the number of matching nodes.
func (r Result) Len() int { return len(r.Nodes) }

// Matches returns the visible nodes of the tree at root that match query.
func (ix Index) Matches(root *hierarchy.Node, query string) Result {
	return ix.collect(root, query, hierarchy.Walk)
}

// MatchesAll is like Matches but also searches collapsed subtrees.
func (ix Index) MatchesAll(root *hierarchy.Node, query string) Result {
	return ix.collect(root, query, hierarchy.WalkAll)
}

func (ix Index) collect(root *hierarchy.Node, query string, walk func(*hierarchy.Node, func(*hierarchy.Node) bool)) Result {
	res := Result{Query: query, IDs: map[hierarchy.ID]bool{}}
	q := normalize(query)
	if q == "" {
		return res
	}
	walk(root, func(n *hierarchy.Node) bool {
		if !n.Virtual && ix.match(n, q) {
			res.Nodes = append(res.Nodes, n)
			if n.ID != 0 {
				res.IDs[n.ID] = true
			}
		}
		return true
	})
	return res
}

// Reveal expands the ancestors of every match found in collapsed subtrees
// so that all matches become visible. It reports whether anything changed.
func Reveal(res Result) bool {
	changed := false
	for _, n := range res.Nodes {
		for _, a := range hierarchy.Ancestors(n) {
			if hierarchy.Expand(a) {
				changed = true
			}
		}
	}
	return changed
}

func normalize(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
