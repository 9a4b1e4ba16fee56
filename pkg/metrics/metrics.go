// Package metrics computes derived per-node and per-tree aggregates.
//
// [ComputeDirectReports] fills [hierarchy.Node.DirectReports] for every node.
// The count is the number of immediate children, visible or cached, so it
// does not change when subtrees are collapsed or expanded. It is recomputed
// from scratch whenever a tree is (re)built.
//
// [Summarize] produces tree-wide statistics used by the CLI summary and the
// explorer status bar.
package metrics

import (
	"cmp"
	"slices"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/orgchart/pkg/hierarchy"
)

// ComputeDirectReports sets DirectReports on every node of the tree at root
// in post-order and returns the total number of reporting relationships
// in the tree (the sum of all counts).
func ComputeDirectReports(root *hierarchy.Node) int {
	total := 0
	hierarchy.PostOrder(root, func(n *hierarchy.Node) {
		n.DirectReports = len(n.Children) + len(n.Cached())
		if !n.Virtual {
			total += n.DirectReports
		}
	})
	return total
}

// Count pairs a label with the number of nodes carrying it.
type Count struct {
	Label string
	Nodes int
}

// Summary holds tree-wide statistics. The virtual root, if any, is not
// counted as a node or a manager.
type Summary struct {
	Nodes        int
	Visible      int
	Leaves       int
	Managers     int
	MaxDepth     int
	MaxReports   int
	MeanSpan     float64 // mean direct reports per manager
	SpanStdDev   float64 // standard deviation of direct reports per manager
	Departments  []Count // sorted by count desc, then label
	EmailDomains []Count // sorted by count desc, then label
}

// Summarize computes statistics for the tree at root.
// ComputeDirectReports must have been called first.
func Summarize(root *hierarchy.Node) Summary {
	var s Summary
	if root == nil {
		return s
	}

	depts := map[string]int{}
	domains := map[string]int{}
	var spans []float64

	hierarchy.WalkAll(root, func(n *hierarchy.Node) bool {
		if n.Virtual {
			return true
		}
		s.Nodes++
		depth := n.Depth
		if root.Virtual {
			depth--
		}
		s.MaxDepth = max(s.MaxDepth, depth)
		if n.DirectReports == 0 {
			s.Leaves++
		} else {
			s.Managers++
			spans = append(spans, float64(n.DirectReports))
			s.MaxReports = max(s.MaxReports, n.DirectReports)
		}
		if d := n.Payload.Department(); d != "" {
			depts[d]++
		}
		if d := EmailDomain(n.Payload.Email()); d != "" {
			domains[d]++
		}
		return true
	})
	hierarchy.Walk(root, func(n *hierarchy.Node) bool {
		if !n.Virtual {
			s.Visible++
		}
		return true
	})

	if len(spans) > 0 {
		s.MeanSpan = stat.Mean(spans, nil)
	}
	if len(spans) > 1 {
		s.SpanStdDev = stat.StdDev(spans, nil)
	}
	s.Departments = sortedCounts(depts)
	s.EmailDomains = sortedCounts(domains)
	return s
}

// EmailDomain returns the lower-cased part after the last "@" of an email
// address, or "" when there is none.
func EmailDomain(email string) string {
	i := strings.LastIndexByte(email, '@')
	if i < 0 || i == len(email)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(email[i+1:]))
}

func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Label: k, Nodes: v})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Nodes, a.Nodes); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out
}
