package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/jsonflow/pkg/render"
)

// RenderSVG lays out and renders DOT source to SVG with Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return stripPreamble(buf.Bytes()), nil
}

// RenderPDF renders DOT source as PDF via SVG.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT source as PNG via SVG at the given scale.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}

var preambleRe = regexp.MustCompile(`(?s)^.*?(<svg[\s>])`)

// stripPreamble drops the XML declaration, doctype and generator comment
// Graphviz puts before the <svg> element, so the output can be inlined
// into HTML.
func stripPreamble(svg []byte) []byte {
	loc := preambleRe.FindSubmatchIndex(svg)
	if loc == nil {
		return svg
	}
	return svg[loc[2]:]
}
