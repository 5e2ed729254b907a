// Package layout positions the nodes of a flattened graph.
//
// The graph produced by [flatten.Tree] is a tree rooted at the root node,
// so a layered tidy-tree placement is enough: every node's rank is its
// edge distance from the root, ranks are laid out along the main axis
// (left to right by default) and each subtree gets a contiguous band on
// the cross axis, with the parent centered on its children.
//
// Node boxes are sized from the row count:
//
//	height = HeaderHeight + rows*RowHeight + VPadding
//
// # Drop Targets
//
// [DropTarget] resolves the "released near another node" gesture into the
// id of the node to reparent under, using a proximity threshold.
//
// [flatten.Tree]: github.com/matzehuels/jsonflow/pkg/flatten.Tree
package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/jsonflow/pkg/graph"
)

// Defaults for [Options].
const (
	DefaultNodeSep       = 30.0
	DefaultRankSep       = 60.0
	DefaultDropThreshold = 50.0
)

// Alignment of a parent within the band of its children.
const (
	AlignCenter = "center"
	AlignStart  = "start"
)

// Options controls node sizing and spacing.
type Options struct {
	Dimensions graph.Dimensions
	// Direction is graph.DirectionLR (default) or graph.DirectionTB.
	Direction string
	// NodeSep is the gap between sibling boxes on the cross axis.
	NodeSep float64
	// RankSep is the gap between ranks on the main axis.
	RankSep float64
	// Align is AlignCenter (default) or AlignStart.
	Align string
}

// DefaultOptions returns the options used by the editor front end.
func DefaultOptions() Options {
	return Options{
		Dimensions: graph.DefaultDimensions(),
		Direction:  graph.DirectionLR,
		NodeSep:    DefaultNodeSep,
		RankSep:    DefaultRankSep,
		Align:      AlignCenter,
	}
}

// withDefaults fills zero fields.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Dimensions == (graph.Dimensions{}) {
		o.Dimensions = d.Dimensions
	}
	if o.Direction == "" {
		o.Direction = d.Direction
	}
	if o.NodeSep <= 0 {
		o.NodeSep = d.NodeSep
	}
	if o.RankSep <= 0 {
		o.RankSep = d.RankSep
	}
	if o.Align == "" {
		o.Align = d.Align
	}
	return o
}

// Validate reports unsupported option values.
func (o Options) Validate() error {
	switch o.Direction {
	case "", graph.DirectionLR, graph.DirectionTB:
	default:
		return fmt.Errorf("unknown layout direction %q", o.Direction)
	}
	switch o.Align {
	case "", AlignCenter, AlignStart:
	default:
		return fmt.Errorf("unknown alignment %q", o.Align)
	}
	return nil
}

// Compute places every node of g. The graph must have a root; nodes not
// reachable from it are placed as extra trees after the root's.
func Compute(g *graph.Graph, opts Options) (graph.Layout, error) {
	if err := opts.Validate(); err != nil {
		return graph.Layout{}, err
	}
	opts = opts.withDefaults()

	out := graph.Layout{Direction: opts.Direction, Graph: *g, Placements: []graph.Placement{}}
	if len(g.Nodes) == 0 {
		return out, nil
	}
	root := g.Root()
	if root == nil {
		return graph.Layout{}, graph.ErrNoRoot
	}

	p := newPlacer(g, opts)
	start := 0.0
	for _, id := range p.roots(root.ID) {
		p.rank(id, 0)
		p.place(id, start)
		start += p.span(id) + opts.NodeSep
	}
	p.finish(&out)
	return out, nil
}

// =============================================================================
// Placement
// =============================================================================

type placer struct {
	g        *graph.Graph
	opts     Options
	children map[string][]string
	ranks    map[string]int
	spans    map[string]float64
	cross    map[string]float64
	nodes    map[string]*graph.Node
}

func newPlacer(g *graph.Graph, opts Options) *placer {
	p := &placer{
		g:        g,
		opts:     opts,
		children: make(map[string][]string),
		ranks:    make(map[string]int, len(g.Nodes)),
		spans:    make(map[string]float64, len(g.Nodes)),
		cross:    make(map[string]float64, len(g.Nodes)),
		nodes:    make(map[string]*graph.Node, len(g.Nodes)),
	}
	for i := range g.Nodes {
		p.nodes[g.Nodes[i].ID] = &g.Nodes[i]
	}
	seen := make(map[string]bool)
	for _, e := range g.Edges {
		if seen[e.Target] {
			continue
		}
		seen[e.Target] = true
		p.children[e.Source] = append(p.children[e.Source], e.Target)
	}
	return p
}

// roots returns the root first, followed by every node without an
// incoming edge in graph order.
func (p *placer) roots(rootID string) []string {
	hasParent := make(map[string]bool)
	for _, e := range p.g.Edges {
		hasParent[e.Target] = true
	}
	out := []string{rootID}
	for _, n := range p.g.Nodes {
		if n.ID != rootID && !hasParent[n.ID] {
			out = append(out, n.ID)
		}
	}
	return out
}

func (p *placer) rank(id string, r int) {
	if _, done := p.ranks[id]; done {
		return
	}
	p.ranks[id] = r
	for _, c := range p.children[id] {
		p.rank(c, r+1)
	}
}

// size returns the box's extent along the main axis and across it.
func (p *placer) size(id string) (along, across float64) {
	n := p.nodes[id]
	w, h := p.opts.Dimensions.NodeWidth, n.Height(p.opts.Dimensions)
	if p.opts.Direction == graph.DirectionTB {
		return h, w
	}
	return w, h
}

// span returns the cross-axis extent of the subtree rooted at id.
func (p *placer) span(id string) float64 {
	if s, ok := p.spans[id]; ok {
		return s
	}
	_, own := p.size(id)
	s := math.Max(own, p.childrenSpan(id))
	p.spans[id] = s
	return s
}

func (p *placer) childrenSpan(id string) float64 {
	kids := p.children[id]
	if len(kids) == 0 {
		return 0
	}
	total := p.opts.NodeSep * float64(len(kids)-1)
	for _, c := range kids {
		total += p.span(c)
	}
	return total
}

// place assigns cross-axis positions to the subtree at id within the band
// starting at start.
func (p *placer) place(id string, start float64) {
	span := p.span(id)
	_, own := p.size(id)
	if p.opts.Align == AlignStart {
		p.cross[id] = start
	} else {
		p.cross[id] = start + (span-own)/2
	}

	kids := p.children[id]
	if len(kids) == 0 {
		return
	}
	next := start
	if p.opts.Align != AlignStart {
		next += (span - p.childrenSpan(id)) / 2
	}
	for _, c := range kids {
		p.place(c, next)
		next += p.span(c) + p.opts.NodeSep
	}
}

// finish converts ranks and cross positions into placements.
func (p *placer) finish(out *graph.Layout) {
	maxRank := 0
	for _, r := range p.ranks {
		maxRank = max(maxRank, r)
	}
	depth := make([]float64, maxRank+1)
	for id, r := range p.ranks {
		m, _ := p.size(id)
		depth[r] = math.Max(depth[r], m)
	}
	offset := make([]float64, maxRank+1)
	for r := 1; r <= maxRank; r++ {
		offset[r] = offset[r-1] + depth[r-1] + p.opts.RankSep
	}

	for _, n := range p.g.Nodes {
		r, ok := p.ranks[n.ID]
		if !ok {
			continue
		}
		m, c := p.size(n.ID)
		pl := graph.Placement{ID: n.ID, Rank: r}
		if p.opts.Direction == graph.DirectionTB {
			pl.X, pl.Y, pl.Width, pl.Height = p.cross[n.ID], offset[r], c, m
		} else {
			pl.X, pl.Y, pl.Width, pl.Height = offset[r], p.cross[n.ID], m, c
		}
		out.Placements = append(out.Placements, pl)
		out.Width = math.Max(out.Width, pl.X+pl.Width)
		out.Height = math.Max(out.Height, pl.Y+pl.Height)
	}
}
