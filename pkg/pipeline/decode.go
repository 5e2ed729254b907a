package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/jsonflow/pkg/codec"
	"github.com/matzehuels/jsonflow/pkg/flatten"
	"github.com/matzehuels/jsonflow/pkg/graph"
	"github.com/matzehuels/jsonflow/pkg/observability"
	"github.com/matzehuels/jsonflow/pkg/tree"
)

// Decode parses data in the given input format into a tree. An empty
// format means JSON.
func Decode(ctx context.Context, data []byte, format string) (*tree.Node, error) {
	hooks := observability.Pipeline()
	hooks.OnDecodeStart(ctx, format, len(data))
	start := time.Now()

	root, err := codec.ParseAny(data, format)
	count := 0
	if root != nil {
		count = root.Count()
	}
	hooks.OnDecodeComplete(ctx, format, count, time.Since(start), err)
	return root, err
}

// Flatten projects root into a graph.
func Flatten(ctx context.Context, root *tree.Node) *graph.Graph {
	hooks := observability.Pipeline()
	hooks.OnFlattenStart(ctx, root.Count())
	start := time.Now()

	g := flatten.Tree(root)
	hooks.OnFlattenComplete(ctx, len(g.Nodes), time.Since(start), nil)
	return g
}
