// Package pipeline runs the decode → flatten → layout → render pipeline
// for jsonflow.
//
// The CLI and the HTTP API both go through this package so that input
// formats, defaults, caching and error codes behave the same everywhere.
//
// # Stages
//
//  1. Decode: JSON or YAML text to a [tree.Node] ([Decode])
//  2. Flatten: tree to a [graph.Graph] ([flatten.Tree])
//  3. Layout: positions for every graph node ([layout.Compute])
//  4. Render: SVG, PNG, PDF, DOT or layout JSON ([Render])
//
// Structural edits run against decoded trees through [Runner.Apply].
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, data, pipeline.Options{
//	    Formats: []string{"svg", "dot"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// Each stage can also be run on its own:
//
//	g, err := runner.Flatten(ctx, data, opts)
//	l, err := runner.Layout(ctx, g, opts)
//	artifacts, err := runner.Render(ctx, l, opts)
//
// [tree.Node]: github.com/matzehuels/jsonflow/pkg/tree.Node
// [graph.Graph]: github.com/matzehuels/jsonflow/pkg/graph.Graph
// [flatten.Tree]: github.com/matzehuels/jsonflow/pkg/flatten.Tree
// [layout.Compute]: github.com/matzehuels/jsonflow/pkg/layout.Compute
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsonflow/pkg/cache"
	"github.com/matzehuels/jsonflow/pkg/errors"
	"github.com/matzehuels/jsonflow/pkg/graph"
	"github.com/matzehuels/jsonflow/pkg/layout"
	"github.com/matzehuels/jsonflow/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// Renderers.
const (
	// RendererFlow draws editor-style cards directly from the layout.
	RendererFlow = "flow"
	// RendererNodelink lets Graphviz lay out and draw the graph.
	RendererNodelink = "nodelink"
)

// Input formats.
const (
	InputJSON = "json"
	InputYAML = "yaml"
)

const (
	// DefaultRenderer is used when Options.Renderer is empty.
	DefaultRenderer = RendererFlow

	// DefaultScale is the PNG zoom factor.
	DefaultScale = 2.0
)

// Formats lists every supported output format in display order.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatDOT, FormatJSON}

// Renderers lists every supported renderer.
var Renderers = []string{RendererFlow, RendererNodelink}

// InputFormats lists every accepted input format; "yml" is an alias of
// "yaml".
var InputFormats = []string{InputJSON, InputYAML, "yml"}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. It decodes from API request bodies.
type Options struct {
	// Input is the input format, "json" (default) or "yaml".
	Input string `json:"input,omitempty"`

	// Layout options
	Direction  string           `json:"direction,omitempty"`
	Align      string           `json:"align,omitempty"`
	NodeSep    float64          `json:"node_sep,omitempty"`
	RankSep    float64          `json:"rank_sep,omitempty"`
	Dimensions graph.Dimensions `json:"dimensions"`

	// Render options
	Renderer    string   `json:"renderer,omitempty"`
	Formats     []string `json:"formats,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	MaxValueLen int      `json:"max_value_len,omitempty"`
	ShowIDs     bool     `json:"show_ids,omitempty"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the flattened document.
	Graph graph.Graph

	// DocHash is the content hash of the input text.
	DocHash string

	// Layout holds positions for every graph node.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	RowCount    int
	FlattenTime time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FlattenHit bool
	LayoutHit  bool
	RenderHit  bool // all requested artifacts came from the cache
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills empty fields. It is idempotent.
func (o *Options) SetDefaults() {
	if o.Input == "" {
		o.Input = InputJSON
	}
	if o.Input == "yml" {
		o.Input = InputYAML
	}
	lo := o.LayoutOptions()
	o.Direction, o.Align = lo.Direction, lo.Align
	o.NodeSep, o.RankSep = lo.NodeSep, lo.RankSep
	o.Dimensions = lo.Dimensions
	if o.Renderer == "" {
		o.Renderer = DefaultRenderer
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate reports the first unsupported option as an INVALID_FORMAT or
// INVALID_INPUT error.
func (o *Options) Validate() error {
	if o.Input != "" {
		if err := errors.ValidateFormat(o.Input, InputFormats); err != nil {
			return err
		}
	}
	if err := o.LayoutOptions().Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "layout options")
	}
	if o.Renderer != "" {
		if err := errors.ValidateFormat(o.Renderer, Renderers); err != nil {
			return err
		}
	}
	for _, f := range o.Formats {
		if err := errors.ValidateFormat(f, Formats); err != nil {
			return err
		}
	}
	if o.MaxValueLen < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_value_len cannot be negative: %d", o.MaxValueLen)
	}
	return nil
}

// LayoutOptions returns the layout part of o with defaults applied.
func (o *Options) LayoutOptions() layout.Options {
	d := layout.DefaultOptions()
	lo := layout.Options{
		Dimensions: o.Dimensions,
		Direction:  o.Direction,
		NodeSep:    o.NodeSep,
		RankSep:    o.RankSep,
		Align:      o.Align,
	}
	if lo.Dimensions == (graph.Dimensions{}) {
		lo.Dimensions = d.Dimensions
	}
	if lo.Direction == "" {
		lo.Direction = d.Direction
	}
	if lo.NodeSep <= 0 {
		lo.NodeSep = d.NodeSep
	}
	if lo.RankSep <= 0 {
		lo.RankSep = d.RankSep
	}
	if lo.Align == "" {
		lo.Align = d.Align
	}
	return lo
}

// LayoutKeyOpts returns the cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	lo := o.LayoutOptions()
	return cache.LayoutKeyOpts{
		Direction:    lo.Direction,
		NodeWidth:    lo.Dimensions.NodeWidth,
		HeaderHeight: lo.Dimensions.HeaderHeight,
		RowHeight:    lo.Dimensions.RowHeight,
		VPadding:     lo.Dimensions.VPadding,
		NodeSep:      lo.NodeSep,
		RankSep:      lo.RankSep,
		Align:        lo.Align,
	}
}

// ArtifactKeyOpts returns the cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Renderer:    o.Renderer,
		Format:      format,
		MaxValueLen: o.MaxValueLen,
		ShowIDs:     o.ShowIDs,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}

// countRows sums the rows of every node.
func countRows(g *graph.Graph) int {
	n := 0
	for i := range g.Nodes {
		n += g.Nodes[i].RowCount()
	}
	return n
}

// treeStats is used by Apply to log the size of an edited tree.
func treeStats(root *tree.Node) (nodes, depth int) {
	return root.Count(), root.Depth()
}
