package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"

	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/graph"
	"github.com/matzehuels/orgchart/pkg/httputil"
	"github.com/matzehuels/orgchart/pkg/observability"
	"github.com/matzehuels/orgchart/pkg/session"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache, HTTP client and logger; it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	HTTP   *httputil.Client
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	c = cache.WithHooks(c)

	client := httputil.NewClient(c)
	client.Keyer = keyer
	client.Logger = logger

	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		HTTP:   client,
	}
}

// Execute runs the complete load → frame → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	doc, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.DocumentHash = cache.Hash(doc.Raw)
	result.Stats.LoadTime = time.Since(loadStart)
	result.CacheInfo.LoadHit = loadHit

	r.Logger.Info("loaded document",
		"source", doc.Source,
		"bytes", len(doc.Raw),
		"duration", result.Stats.LoadTime)

	// Stage 2: Frame
	frameStart := time.Now()
	fr, frameHit, err := r.FrameWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Session = fr.Session
	result.Frame = fr.Frame
	result.Warnings = fr.Warnings
	result.Stats.FrameTime = time.Since(frameStart)
	result.Stats.NodeCount = len(fr.Frame.Nodes)
	result.Stats.LinkCount = len(fr.Frame.Links)
	result.CacheInfo.FrameHit = frameHit

	r.Logger.Info("computed frame",
		"nodes", result.Stats.NodeCount,
		"links", result.Stats.LinkCount,
		"duration", result.Stats.FrameTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, fr.Frame, fr.Key, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// =============================================================================
// Load
// =============================================================================

// LoadWithCacheInfo reads and decodes the document named by opts. The bool
// reports whether a remote document came from the HTTP cache.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*Document, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}
	source := sourceName(opts)
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()

	raw, hit, err := ReadSource(ctx, r.HTTP, opts)
	if err != nil {
		hooks.OnLoadComplete(ctx, source, 0, time.Since(start), err)
		return nil, false, err
	}
	value, err := Decode(raw, opts)
	hooks.OnLoadComplete(ctx, source, len(raw), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	return &Document{Source: source, Raw: raw, Value: value}, hit, nil
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*Document, error) {
	doc, _, err := r.LoadWithCacheInfo(ctx, opts)
	return doc, err
}

// =============================================================================
// Frame
// =============================================================================

// FrameResult is the outcome of the frame stage.
type FrameResult struct {
	// Session is nil when the frame came from the cache.
	Session  *session.Session
	Frame    *graph.Frame
	Warnings []string

	// Key is the frame cache key. Artifacts rendered from Frame are keyed
	// by its hash.
	Key string
}

type cachedFrame struct {
	Frame    *graph.Frame `json:"frame"`
	Warnings []string     `json:"warnings,omitempty"`
}

// FrameWithCacheInfo computes the frame of doc with caching and returns
// cache hit info.
func (r *Runner) FrameWithCacheInfo(ctx context.Context, doc *Document, opts Options) (*FrameResult, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}

	key := r.Keyer.FrameKey(cache.Hash(doc.Raw), opts.FrameKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cf cachedFrame
			if err := json.Unmarshal(data, &cf); err == nil && cf.Frame != nil && cf.Frame.Validate() == nil {
				return &FrameResult{Frame: cf.Frame, Warnings: cf.Warnings, Key: key}, true, nil
			}
			r.Logger.Debug("discarding unreadable cached frame", "key", key)
		}
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.VizType, 0)
	start := time.Now()
	s, f, warnings, err := BuildFrame(doc.Value, opts)
	hooks.OnLayoutComplete(ctx, opts.VizType, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	for _, w := range warnings {
		r.Logger.Debug("document shape", "warning", w)
	}

	if data, err := json.Marshal(cachedFrame{Frame: f, Warnings: warnings}); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLFrame); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
		}
	}

	return &FrameResult{Session: s, Frame: f, Warnings: warnings, Key: key}, false, nil
}

// Frame is a convenience wrapper that calls FrameWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Frame(ctx context.Context, doc *Document, opts Options) (*FrameResult, error) {
	fr, _, err := r.FrameWithCacheInfo(ctx, doc, opts)
	return fr, err
}

// =============================================================================
// Render
// =============================================================================

// RenderWithCacheInfo renders f with caching and returns cache hit info.
// frameKey identifies the frame for artifact keys; when empty, the
// serialized frame is hashed instead.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, f *graph.Frame, frameKey string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	var frameHash string
	if frameKey != "" {
		frameHash = cache.Hash([]byte(frameKey))
	} else {
		data, err := graph.MarshalFrame(f)
		if err != nil {
			return nil, false, fmt.Errorf("serialize frame for cache key: %w", err)
		}
		frameHash = cache.Hash(data)
	}

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(frameHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
				continue
			}
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, missing)
	start := time.Now()
	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, f, renderOpts)
	hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(frameHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
		}
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, f *graph.Frame, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, f, "", opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
