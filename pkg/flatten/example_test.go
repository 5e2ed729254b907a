package flatten_test

import (
	"fmt"

	"github.com/matzehuels/jsonflow/pkg/codec"
	"github.com/matzehuels/jsonflow/pkg/flatten"
)

func ExampleTree() {
	root, _ := codec.Parse([]byte(`{"a": 1, "b": [true, null]}`))
	g := flatten.Tree(root)

	for _, n := range g.Nodes {
		fmt.Printf("node %s %q\n", n.ID, n.Label)
		for _, r := range n.Rows {
			if r.IsBranch() {
				fmt.Printf("  %s = %s -> %s\n", r.Key, r.Text(), r.ConnectionID)
				continue
			}
			fmt.Printf("  %s = %s\n", r.Key, r.Text())
		}
	}
	for _, e := range g.Edges {
		fmt.Printf("edge %s via %s\n", e.ID, e.ConnectionID)
	}
	// Output:
	// node 0 "root"
	//   a = 1
	//   b = [2 items] -> 0-b
	// node 0-b-0 "b [0]: true"
	// node 0-b-1 "b [1]: null"
	// edge 0->0-b-0 via 0-b
	// edge 0->0-b-1 via 0-b
}
