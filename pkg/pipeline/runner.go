package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsonflow/pkg/cache"
	"github.com/matzehuels/jsonflow/pkg/edit"
	"github.com/matzehuels/jsonflow/pkg/errors"
	"github.com/matzehuels/jsonflow/pkg/graph"
	"github.com/matzehuels/jsonflow/pkg/mutate"
	"github.com/matzehuels/jsonflow/pkg/observability"
	"github.com/matzehuels/jsonflow/pkg/tree"
)

// Cache key types reported to observability hooks.
const (
	keyTypeGraph    = "graph"
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner executes pipeline stages with caching.
//
// The Runner holds no results of its own, only the cache, keyer and
// logger, so one Runner may serve many goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the cache lifetime per stage; zero fields use the
	// cache package defaults.
	TTL TTL
}

// TTL holds per-stage cache lifetimes.
type TTL struct {
	Graph    time.Duration
	Layout   time.Duration
	Artifact time.Duration
}

func (t TTL) of(keyType string) time.Duration {
	switch keyType {
	case keyTypeGraph:
		return orDefault(t.Graph, cache.GraphTTL)
	case keyTypeLayout:
		return orDefault(t.Layout, cache.LayoutTTL)
	}
	return orDefault(t.Artifact, cache.ArtifactTTL)
}

func orDefault(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses the default keyer and a nil logger uses log.Default().
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// prepare validates opts, applies defaults and fills in the runner logger.
func (r *Runner) prepare(opts *Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	opts.SetDefaults()
	return nil
}

// Execute runs decode → flatten → layout → render on data.
func (r *Runner) Execute(ctx context.Context, data []byte, opts Options) (*Result, error) {
	if err := r.prepare(&opts); err != nil {
		return nil, err
	}
	result := &Result{DocHash: cache.Hash(data)}

	flattenStart := time.Now()
	g, hit, err := r.FlattenWithCacheInfo(ctx, data, opts)
	if err != nil {
		return nil, err
	}
	result.Graph = *g
	result.Stats.FlattenTime = time.Since(flattenStart)
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.EdgeCount = len(g.Edges)
	result.Stats.RowCount = countRows(g)
	result.CacheInfo.FlattenHit = hit

	opts.Logger.Info("flattened document",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.FlattenTime)

	layoutStart := time.Now()
	l, hit, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = hit

	opts.Logger.Info("computed layout",
		"width", l.Width,
		"height", l.Height,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// FlattenWithCacheInfo decodes and flattens data, reporting whether the
// graph came from the cache. The graph is keyed by the hash of the raw
// input and its format.
func (r *Runner) FlattenWithCacheInfo(ctx context.Context, data []byte, opts Options) (*graph.Graph, bool, error) {
	if err := r.prepare(&opts); err != nil {
		return nil, false, err
	}
	key := r.Keyer.GraphKey(cache.Hash(append([]byte(opts.Input+"\x00"), data...)))

	if !opts.Refresh {
		if g, ok := r.cachedGraph(ctx, key); ok {
			return g, true, nil
		}
	}

	root, err := Decode(ctx, data, opts.Input)
	if err != nil {
		return nil, false, err
	}
	g := Flatten(ctx, root)

	if payload, err := graph.Marshal(*g); err == nil {
		r.store(ctx, keyTypeGraph, key, payload)
	}
	return g, false, nil
}

// Flatten discards the cache hit info of [Runner.FlattenWithCacheInfo].
func (r *Runner) Flatten(ctx context.Context, data []byte, opts Options) (*graph.Graph, error) {
	g, _, err := r.FlattenWithCacheInfo(ctx, data, opts)
	return g, err
}

func (r *Runner) cachedGraph(ctx context.Context, key string) (*graph.Graph, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeGraph)
		return nil, false
	}
	g, err := graph.Unmarshal(data)
	if err != nil {
		r.Logger.Debug("discarding unreadable cached graph", "key", key, "error", err)
		observability.Cache().OnCacheMiss(ctx, keyTypeGraph)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeGraph)
	return &g, true
}

// LayoutWithCacheInfo lays out g, reporting whether the layout came from
// the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (graph.Layout, bool, error) {
	if err := r.prepare(&opts); err != nil {
		return graph.Layout{}, false, err
	}
	graphData, err := graph.Marshal(*g)
	if err != nil {
		return graph.Layout{}, false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	key := r.Keyer.LayoutKey(cache.Hash(graphData), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if l, err := graph.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeLayout)
				return l, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
	}

	l, err := Layout(ctx, g, opts)
	if err != nil {
		return graph.Layout{}, false, err
	}
	if data, err := graph.MarshalLayout(l); err == nil {
		r.store(ctx, keyTypeLayout, key, data)
	}
	return l, false, nil
}

// Layout discards the cache hit info of [Runner.LayoutWithCacheInfo].
func (r *Runner) Layout(ctx context.Context, g *graph.Graph, opts Options) (graph.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return l, err
}

// RenderWithCacheInfo renders l in every requested format. The hit flag
// is true only when every format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := r.prepare(&opts); err != nil {
		return nil, false, err
	}
	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
	}

	rendered, err := Render(ctx, l, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		r.store(ctx, keyTypeArtifact, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), data)
	}
	return rendered, false, nil
}

// Render discards the cache hit info of [Runner.RenderWithCacheInfo].
func (r *Runner) Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte) {
	if err := r.Cache.Set(ctx, key, data, r.TTL.of(keyType)); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// =============================================================================
// Edits
// =============================================================================

// Apply decodes data and applies edits in order. It stops at the first
// rejected edit and returns the error with the index of the failing edit;
// nothing is returned for a partially edited document.
func (r *Runner) Apply(ctx context.Context, data []byte, edits []edit.Edit, opts Options) (*tree.Node, error) {
	if err := r.prepare(&opts); err != nil {
		return nil, err
	}
	root, err := Decode(ctx, data, opts.Input)
	if err != nil {
		return nil, err
	}
	return ApplyEdits(root, edits, opts.Logger)
}

// ApplyEdits applies edits to root in order, firing edit hooks for each.
// root itself is never modified.
func ApplyEdits(root *tree.Node, edits []edit.Edit, logger *log.Logger) (*tree.Node, error) {
	hooks := observability.Edit()
	for i, e := range edits {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("edit %d: %w", i, err)
		}
		hooks.OnEditStart(string(e.Op), e.String())
		next, err := mutate.Apply(root, e)
		hooks.OnEditComplete(string(e.Op), err == nil, err)
		if err != nil {
			return nil, fmt.Errorf("edit %d (%s): %w", i, e, err)
		}
		if logger != nil && logger.GetLevel() <= log.DebugLevel {
			if err := next.Validate(); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "edit %d broke the tree", i)
			}
			nodes, depth := treeStats(next)
			logger.Debug("applied edit", "edit", e.String(), "nodes", nodes, "depth", depth)
		}
		root = next
	}
	return root, nil
}
