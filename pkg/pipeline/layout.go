package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/jsonflow/pkg/graph"
	"github.com/matzehuels/jsonflow/pkg/layout"
	"github.com/matzehuels/jsonflow/pkg/observability"
)

// Layout positions every node of g using the layout part of opts.
func Layout(ctx context.Context, g *graph.Graph, opts Options) (graph.Layout, error) {
	lo := opts.LayoutOptions()
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, lo.Direction, len(g.Nodes))
	start := time.Now()

	l, err := layout.Compute(g, lo)
	hooks.OnLayoutComplete(ctx, lo.Direction, time.Since(start), err)
	return l, err
}
