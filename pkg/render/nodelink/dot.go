package nodelink

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/matzehuels/jsonflow/pkg/graph"
	"github.com/matzehuels/jsonflow/pkg/render"
)

// HeaderPort is the port edges enter a node through.
const HeaderPort = "h"

// Options configures DOT generation.
type Options struct {
	// Direction is graph.DirectionLR (default) or graph.DirectionTB.
	Direction string
	// ShowIDs adds the node id under each header.
	ShowIDs bool
	// MaxValueLen truncates row values; 0 uses render.DefaultValueLen.
	MaxValueLen int
}

// ToDOT converts g to Graphviz DOT source.
func ToDOT(g *graph.Graph, opts Options) string {
	dir := opts.Direction
	if dir != graph.DirectionTB {
		dir = graph.DirectionLR
	}
	styler := render.NewStyler(g)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", dir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=plain, fontname=\"monospace\", fontsize=12];\n")
	fmt.Fprintf(&buf, "  edge [color=%q, arrowsize=0.6];\n", render.EdgeColor)
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("\n")

	for i := range g.Nodes {
		n := &g.Nodes[i]
		fmt.Fprintf(&buf, "  %s [label=<%s>];\n", quote(n.ID), nodeLabel(n, styler.HeaderColor(n), opts))
	}

	buf.WriteString("\n")
	nodes := make(map[string]*graph.Node, len(g.Nodes))
	for i := range g.Nodes {
		nodes[g.Nodes[i].ID] = &g.Nodes[i]
	}
	for _, e := range g.Edges {
		src := nodes[e.Source]
		if src == nil {
			continue
		}
		fmt.Fprintf(&buf, "  %s:%s -> %s:%s;\n", quote(e.Source), PortFor(src, e), quote(e.Target), HeaderPort)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// PortFor returns the port name of the row e leaves from, or the header
// port when the row is unknown.
func PortFor(src *graph.Node, e graph.Edge) string {
	if i := src.RowByConnection(e.ConnectionID); i >= 0 {
		return "r" + strconv.Itoa(i)
	}
	return HeaderPort
}

func nodeLabel(n *graph.Node, header string, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<TABLE BORDER="0" CELLBORDER="0" CELLSPACING="0" CELLPADDING="4" BGCOLOR=%q>`, render.BodyColor)
	fmt.Fprintf(&b, `<TR><TD COLSPAN="2" ALIGN="LEFT" BGCOLOR=%q PORT=%q><FONT COLOR=%q><B>%s</B></FONT></TD></TR>`,
		header, HeaderPort, render.TextColor, html.EscapeString(render.Truncate(n.Label, 2*opts.MaxValueLen)))
	if opts.ShowIDs {
		fmt.Fprintf(&b, `<TR><TD COLSPAN="2" ALIGN="LEFT"><FONT COLOR=%q POINT-SIZE="9">%s</FONT></TD></TR>`,
			render.EdgeColor, html.EscapeString(n.ID))
	}
	for i, r := range n.Rows {
		port := ""
		if r.IsBranch() {
			port = fmt.Sprintf(" PORT=\"r%d\"", i)
		}
		fmt.Fprintf(&b, `<TR><TD ALIGN="LEFT"><FONT COLOR=%q>%s</FONT></TD><TD ALIGN="RIGHT"%s><FONT COLOR=%q>%s</FONT></TD></TR>`,
			render.KeyColor, html.EscapeString(r.Key),
			port, render.ValueColor(r.Value), html.EscapeString(render.RowValueText(r, opts.MaxValueLen)))
	}
	b.WriteString(`</TABLE>`)
	return b.String()
}

// quote returns s as a DOT double-quoted id.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
