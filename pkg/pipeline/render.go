package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/jsonflow/pkg/graph"
	"github.com/matzehuels/jsonflow/pkg/observability"
	"github.com/matzehuels/jsonflow/pkg/render"
	"github.com/matzehuels/jsonflow/pkg/render/flow"
	"github.com/matzehuels/jsonflow/pkg/render/nodelink"
)

// Render produces every format in opts.Formats from l. Options must have
// defaults applied.
func Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderAll(ctx, l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderAll(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	r := &renderer{l: l, opts: opts}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := r.render(ctx, format)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// renderer memoizes the intermediate SVG and DOT text so that png and pdf
// reuse the svg work.
type renderer struct {
	l    graph.Layout
	opts Options
	svg  []byte
	dot  string
}

func (r *renderer) render(ctx context.Context, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return graph.MarshalLayout(r.l)
	case FormatDOT:
		return []byte(r.dotText()), nil
	case FormatSVG:
		return r.svgBytes(ctx)
	case FormatPNG:
		if r.opts.Renderer == RendererNodelink {
			return nodelink.RenderPNG(ctx, r.dotText(), r.opts.Scale)
		}
		svg, err := r.svgBytes(ctx)
		if err != nil {
			return nil, err
		}
		return render.ToPNG(ctx, svg, r.opts.Scale)
	case FormatPDF:
		if r.opts.Renderer == RendererNodelink {
			return nodelink.RenderPDF(ctx, r.dotText())
		}
		svg, err := r.svgBytes(ctx)
		if err != nil {
			return nil, err
		}
		return render.ToPDF(ctx, svg)
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

func (r *renderer) dotText() string {
	if r.dot == "" {
		r.dot = nodelink.ToDOT(&r.l.Graph, nodelink.Options{
			Direction:   r.l.Direction,
			ShowIDs:     r.opts.ShowIDs,
			MaxValueLen: r.opts.MaxValueLen,
		})
	}
	return r.dot
}

func (r *renderer) svgBytes(ctx context.Context) ([]byte, error) {
	if r.svg != nil {
		return r.svg, nil
	}
	if r.opts.Renderer == RendererNodelink {
		svg, err := nodelink.RenderSVG(ctx, r.dotText())
		if err != nil {
			return nil, err
		}
		r.svg = svg
		return svg, nil
	}
	r.svg = flow.RenderSVG(r.l,
		flow.WithDimensions(r.opts.LayoutOptions().Dimensions),
		flow.WithMaxValueLen(r.opts.MaxValueLen),
	)
	return r.svg, nil
}
