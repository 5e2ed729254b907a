// Package pkg holds the jsonflow libraries.
//
// # Overview
//
// jsonflow turns an arbitrary JSON value into an editable graph: every
// object, array and array element becomes a card listing its properties,
// and every nested container is linked from the row that holds it.
// Structural edits made on the graph (drag a card under another card, drag
// one property to another card) are applied to the underlying tree and
// written back as JSON with ids, key order and value types intact.
//
// # Architecture
//
//	JSON or YAML text
//	         ↓
//	    [codec] (decode into a tree, encode back to JSON)
//	         ↓
//	    [tree] ⇄ [mutate] (reparent, transfer)
//	         ↓
//	    [flatten] → [graph] (nodes, rows, edges)
//	         ↓
//	    [layout] → [render] (svg, png, pdf, dot)
//
// [pipeline] chains the stages with a [cache] in front of each one, and
// [document] keeps an undo history of trees for an editing session.
//
// # Quick Start
//
//	root, err := codec.Parse([]byte(`{"a":{},"b":{"c":1}}`))
//	if err != nil {
//	    return err
//	}
//	g := flatten.Tree(root) // cards for 0, 0-a and 0-b
//
//	moved, err := mutate.Reparent(root, "0-b", "0-a")
//	if err != nil {
//	    return err
//	}
//	out, _ := codec.Marshal(moved) // {"a": {"b": {"c": 1}}}
//
// # Packages
//
//   - [tree]: identity-stable tree of objects, arrays and scalar leaves
//   - [codec]: JSON/YAML to tree and back; scalar label encoding
//   - [flatten]: tree to graph projection
//   - [mutate]: pure structural edits
//   - [graph]: graph and layout wire types
//   - [layout]: tidy-tree placement and drop targets
//   - [render]: flow and nodelink renderers, PNG/PDF conversion
//   - [pipeline]: cached decode, flatten, layout and render runs
//   - [document]: edit history with undo and redo
//   - [edit]: edit requests and edit scripts
//   - [cache], [config], [errors], [observability], [buildinfo]: support
//
// [tree]: https://pkg.go.dev/github.com/matzehuels/jsonflow/pkg/tree
// [codec]: https://pkg.go.dev/github.com/matzehuels/jsonflow/pkg/codec
// [flatten]: https://pkg.go.dev/github.com/matzehuels/jsonflow/pkg/flatten
// [mutate]: https://pkg.go.dev/github.com/matzehuels/jsonflow/pkg/mutate
// [graph]: https://pkg.go.dev/github.com/matzehuels/jsonflow/pkg/graph
// [layout]: https://pkg.go.dev/github.com/matzehuels/jsonflow/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/jsonflow/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/jsonflow/pkg/pipeline
// [document]: https://pkg.go.dev/github.com/matzehuels/jsonflow/pkg/document
// [edit]: https://pkg.go.dev/github.com/matzehuels/jsonflow/pkg/edit
// [cache]: https://pkg.go.dev/github.com/matzehuels/jsonflow/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/jsonflow/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/jsonflow/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/jsonflow/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/jsonflow/pkg/buildinfo
package pkg
