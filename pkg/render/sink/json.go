package sink

import "github.com/matzehuels/orgchart/pkg/graph"

// RenderJSON encodes the frame itself, for tools that animate or restyle
// the chart on their own.
func RenderJSON(f *graph.Frame) ([]byte, error) {
	return graph.MarshalFrame(f)
}
