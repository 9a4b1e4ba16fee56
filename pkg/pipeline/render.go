package pipeline

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/graph"
	"github.com/matzehuels/orgchart/pkg/render/nodelink"
	"github.com/matzehuels/orgchart/pkg/render/sink"
)

// RenderLimit caps the number of formats rendered at once.
const RenderLimit = 4

// Render draws f in every format of opts concurrently. The first failure
// cancels the remaining formats.
func Render(ctx context.Context, f *graph.Frame, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	var dot string
	if opts.IsNodelink() || slices.Contains(opts.Formats, FormatDOT) {
		dot = nodelink.ToDOT(f, nodelink.Options{Detailed: opts.Detailed})
	}

	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(opts.Formats))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(RenderLimit)
	for _, format := range opts.Formats {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := renderFormat(ctx, f, dot, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, f *graph.Frame, dot, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return sink.RenderJSON(f)
	case FormatDOT:
		return []byte(dot), nil
	}

	if opts.IsNodelink() {
		switch format {
		case FormatSVG:
			return nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			return nodelink.RenderPNG(ctx, dot)
		}
	} else {
		sinkOpts := opts.sinkOptions()
		switch format {
		case FormatSVG:
			return sink.RenderSVG(f, sinkOpts...), nil
		case FormatPNG:
			return sink.RenderPNG(f, append(sinkOpts, sink.WithMinSize(opts.Width, opts.Height))...)
		}
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported %s format: %s", opts.VizType, format)
}

func (o *Options) sinkOptions() []sink.Option {
	var opts []sink.Option
	if o.Title != "" {
		opts = append(opts, sink.WithTitle(o.Title))
	}
	if o.NoLegend {
		opts = append(opts, sink.WithoutLegend())
	}
	return opts
}
