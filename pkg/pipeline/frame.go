package pipeline

import (
	"github.com/matzehuels/orgchart/pkg/graph"
	"github.com/matzehuels/orgchart/pkg/session"
)

// =============================================================================
// Frame Generation
// =============================================================================

// BuildFrame loads doc into a new session, applies the filter, search and
// reveal settings of opts, and returns the session with a frame in which
// every visible node enters. Shape warnings of the unfiltered document are
// returned alongside.
func BuildFrame(doc any, opts Options) (*session.Session, *graph.Frame, []string, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, nil, nil, err
	}

	s := session.New(opts.SessionOptions()...)
	if _, err := s.Load(doc); err != nil {
		return nil, nil, nil, err
	}
	warnings := make([]string, 0, len(s.Tree().Warnings))
	for _, w := range s.Tree().Warnings {
		warnings = append(warnings, w.String())
	}

	if !opts.criteria.IsZero() {
		if _, err := s.ApplyFilter(opts.criteria); err != nil {
			return nil, nil, nil, err
		}
	}
	if opts.Query != "" {
		if _, err := s.Search(opts.Query); err != nil {
			return nil, nil, nil, err
		}
		if opts.Reveal {
			if _, err := s.RevealMatches(); err != nil {
				return nil, nil, nil, err
			}
		}
	}

	// A static render has no previous pass to animate from.
	s.Flush()
	f, err := s.Resize()
	if err != nil {
		return nil, nil, nil, err
	}
	return s, f, warnings, nil
}
