// Package nodelink renders flattened JSON graphs as Graphviz node-link
// diagrams.
//
// # Overview
//
// Each graph node becomes a Graphviz node whose label is an HTML table: a
// colored header cell with the node's label, then one two-column line per
// property row (key, value). Rows that lead to child nodes carry a port,
// and every edge leaves from the port of its row and enters the child's
// header, so the picture matches the row-level wiring of the graph.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//
// # Ports
//
// Connection ids are derived from JSON keys and may contain any character,
// so ports are named by row position ("r0", "r1", ...) instead; the header
// port is "h". [PortFor] maps an edge to its port.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
