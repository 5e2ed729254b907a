// Package render turns flattened JSON graphs into pictures.
//
// # Renderers
//
// Two renderers share the styling in this package (header colors, value
// colors, truncation):
//
//   - [flow] draws a computed [graph.Layout] directly as SVG: one card per
//     node with a colored header and one line per property row, and curved
//     edges from a row's connection point to the child card.
//   - [nodelink] emits Graphviz DOT with one HTML-table node per graph
//     node and one port per row, and renders it through go-graphviz. Use it
//     when Graphviz's own placement is preferred over [layout].
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG with the external rsvg-convert tool
// from librsvg:
//
//	svg := flow.RenderSVG(l)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// # Colors
//
// The root header is purple and object headers green. Elements of an
// array share a header color derived from the array's key, so siblings
// are easy to spot; see [KeyColorFor].
//
// [flow]: github.com/matzehuels/jsonflow/pkg/render/flow
// [nodelink]: github.com/matzehuels/jsonflow/pkg/render/nodelink
// [layout]: github.com/matzehuels/jsonflow/pkg/layout
package render
