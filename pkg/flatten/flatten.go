// Package flatten projects a tree onto the flat node/edge graph used for
// visual editing.
//
// Each object (and the root) becomes a [graph.Node] whose rows are its
// children in order. Leaf children are inlined as value rows. A populated
// object child becomes a summary row "{k keys}" with a connection point
// and an edge to its own node. A populated array child becomes a summary
// row "[k items]"; the array itself gets no node, and every element is an
// edge target from that same connection point, labelled "<array> [<i>]".
//
// Empty objects and arrays are not branches; they are inlined as rows with
// the values "{}" and "[]".
package flatten

import (
	"fmt"

	"github.com/matzehuels/jsonflow/pkg/codec"
	"github.com/matzehuels/jsonflow/pkg/graph"
	"github.com/matzehuels/jsonflow/pkg/tree"
)

// Summary strings for inlined containers.
const (
	EmptyObject = "{}"
	EmptyArray  = "[]"
)

// Tree flattens the tree rooted at root. The root is always materialized
// with IsRoot set, even when it is a leaf or an empty container. Nodes are
// emitted in depth-first pre-order and rows in child order.
func Tree(root *tree.Node) *graph.Graph {
	f := &flattener{g: &graph.Graph{Nodes: []graph.Node{}, Edges: []graph.Edge{}}}
	if root == nil {
		return f.g
	}
	f.node(root, codec.DisplayName(root), true)
	return f.g
}

type flattener struct {
	g *graph.Graph
}

// node emits the graph node for n followed by everything reachable from
// its rows.
func (f *flattener) node(n *tree.Node, label string, isRoot bool) {
	gn := graph.Node{
		ID:     n.ID,
		Label:  label,
		Kind:   n.Kind,
		IsRoot: isRoot,
		Rows:   make([]graph.Row, 0, len(n.Children)),
	}
	if n.IsLeaf() {
		gn.Value = n.Value.Value()
	}

	type pending struct {
		child        *tree.Node
		label        string
		connectionID string
	}
	var next []pending

	for _, c := range n.Children {
		row := graph.Row{Key: c.Key, Kind: c.Kind}
		switch {
		case c.IsLeaf():
			row.Value = c.Value.Value()
		case !c.IsBranch():
			row.Value = emptySummary(c)
		case c.Kind == tree.KindObject:
			row.Value = fmt.Sprintf("{%d keys}", len(c.Children))
			row.ConnectionID = tree.ChildID(n.ID, c.Key)
			next = append(next, pending{c, c.Key, row.ConnectionID})
		case c.Kind == tree.KindArray:
			row.Value = fmt.Sprintf("[%d items]", len(c.Children))
			row.ConnectionID = tree.ChildID(n.ID, c.Key)
			for _, elem := range c.Children {
				next = append(next, pending{elem, ElementLabel(c.Key, elem), row.ConnectionID})
			}
		}
		gn.Rows = append(gn.Rows, row)
	}

	f.g.Nodes = append(f.g.Nodes, gn)

	for _, p := range next {
		f.g.Edges = append(f.g.Edges, graph.Edge{
			ID:           graph.EdgeID(n.ID, p.child.ID),
			Source:       n.ID,
			ConnectionID: p.connectionID,
			Target:       p.child.ID,
		})
		f.node(p.child, p.label, false)
	}
}

// ElementLabel returns the display label of an array element node:
// "<array> [<index>]" for containers and "<array> [<index>]: <value>" for
// scalars.
func ElementLabel(arrayKey string, elem *tree.Node) string {
	label := fmt.Sprintf("%s [%s]", arrayKey, elem.Key)
	if elem.IsLeaf() {
		label += ": " + elem.Value.Text()
	}
	return label
}

func emptySummary(n *tree.Node) string {
	if n.Kind == tree.KindArray {
		return EmptyArray
	}
	return EmptyObject
}
