// Package flow draws a positioned graph as an SVG node editor canvas.
//
// Every node is a card: a colored header with the node's label over a
// dark body with one line per property row. Edges are horizontal cubic
// curves from the right edge of the row that owns the connection point to
// the left edge of the child's header (top edge for top-to-bottom
// layouts). Positions come from a [graph.Layout], normally computed by
// the layout package.
package flow

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/jsonflow/pkg/graph"
	"github.com/matzehuels/jsonflow/pkg/render"
)

// Option configures RenderSVG.
type Option func(*renderer)

type renderer struct {
	dims        graph.Dimensions
	margin      float64
	maxValueLen int
	background  string
}

// WithDimensions sets the sizing the layout was computed with.
func WithDimensions(d graph.Dimensions) Option { return func(r *renderer) { r.dims = d } }

// WithMargin sets the blank border around the drawing.
func WithMargin(m float64) Option { return func(r *renderer) { r.margin = m } }

// WithMaxValueLen truncates row values to n runes.
func WithMaxValueLen(n int) Option { return func(r *renderer) { r.maxValueLen = n } }

// WithBackground fills the canvas with color.
func WithBackground(color string) Option { return func(r *renderer) { r.background = color } }

const (
	defaultMargin = 20.0
	cornerRadius  = 4.0
	textInset     = 8.0
	fontSize      = 12.0
)

// RenderSVG draws l.
func RenderSVG(l graph.Layout, opts ...Option) []byte {
	r := renderer{dims: graph.DefaultDimensions(), margin: defaultMargin}
	for _, opt := range opts {
		opt(&r)
	}

	width, height := l.Width+2*r.margin, l.Height+2*r.margin
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="monospace" font-size="%.0f">`+"\n",
		width, height, width, height, fontSize)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}
	fmt.Fprintf(&buf, `  <g transform="translate(%.1f %.1f)">`+"\n", r.margin, r.margin)

	places := make(map[string]graph.Placement, len(l.Placements))
	for _, p := range l.Placements {
		places[p.ID] = p
	}
	styler := render.NewStyler(&l.Graph)

	// Edges first so cards paint over their ends.
	for _, e := range l.Graph.Edges {
		r.edge(&buf, &l, places, e)
	}
	for i := range l.Graph.Nodes {
		n := &l.Graph.Nodes[i]
		if p, ok := places[n.ID]; ok {
			r.card(&buf, n, p, styler.HeaderColor(n))
		}
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func (r *renderer) card(buf *bytes.Buffer, n *graph.Node, p graph.Placement, header string) {
	d := r.dims
	fmt.Fprintf(buf, `    <g class="node" id="node-%s">`+"\n", html.EscapeString(n.ID))
	fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f" fill="%s"/>`+"\n",
		p.X, p.Y, p.Width, p.Height, cornerRadius, render.BodyColor)
	fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f" fill="%s"/>`+"\n",
		p.X, p.Y, p.Width, d.HeaderHeight, cornerRadius, header)
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" fill="%s" font-weight="bold" dominant-baseline="middle">%s</text>`+"\n",
		p.X+textInset, p.Y+d.HeaderHeight/2, render.TextColor,
		html.EscapeString(render.Truncate(n.Label, 2*r.valueLen())))

	for i, row := range n.Rows {
		cy := r.rowCenter(p, i)
		if i > 0 {
			top := cy - d.RowHeight/2
			fmt.Fprintf(buf, `      <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n",
				p.X+textInset, top, p.X+p.Width-textInset, top, render.RowBorderColor)
		}
		fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" fill="%s" dominant-baseline="middle">%s</text>`+"\n",
			p.X+textInset, cy, render.KeyColor, html.EscapeString(row.Key))
		fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" fill="%s" text-anchor="end" dominant-baseline="middle">%s</text>`+"\n",
			p.X+p.Width-textInset, cy, render.ValueColor(row.Value), html.EscapeString(render.RowValueText(row, r.valueLen())))
		if row.IsBranch() {
			fmt.Fprintf(buf, `      <circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>`+"\n", p.X+p.Width, cy, header)
		}
	}
	buf.WriteString("    </g>\n")
}

func (r *renderer) edge(buf *bytes.Buffer, l *graph.Layout, places map[string]graph.Placement, e graph.Edge) {
	sp, ok1 := places[e.Source]
	tp, ok2 := places[e.Target]
	src := l.Graph.Node(e.Source)
	if !ok1 || !ok2 || src == nil {
		return
	}
	x1, y1 := sp.X+sp.Width, sp.Y+r.dims.HeaderHeight/2
	if i := src.RowByConnection(e.ConnectionID); i >= 0 {
		y1 = r.rowCenter(sp, i)
	}

	var path string
	if l.Direction == graph.DirectionTB {
		x2, y2 := tp.X+tp.Width/2, tp.Y
		my := (y1 + y2) / 2
		path = fmt.Sprintf("M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f", x1, y1, x1+40, my, x2, my, x2, y2)
	} else {
		x2, y2 := tp.X, tp.Y+r.dims.HeaderHeight/2
		mx := (x1 + x2) / 2
		path = fmt.Sprintf("M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f", x1, y1, mx, y1, mx, y2, x2, y2)
	}
	fmt.Fprintf(buf, `    <path class="edge" id="edge-%s" d="%s" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n",
		html.EscapeString(e.ID), path, render.EdgeColor)
}

// rowCenter returns the vertical center of row i of the card at p.
func (r *renderer) rowCenter(p graph.Placement, i int) float64 {
	d := r.dims
	return p.Y + d.HeaderHeight + d.VPadding/2 + float64(i)*d.RowHeight + d.RowHeight/2
}

func (r *renderer) valueLen() int {
	if r.maxValueLen > 0 {
		return r.maxValueLen
	}
	return render.DefaultValueLen
}
