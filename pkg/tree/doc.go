// Package tree provides the identity-stable tree model that mirrors a JSON
// value.
//
// # Overview
//
// Every JSON value maps to a [Node]. Objects and arrays are branch kinds
// ([KindObject], [KindArray]) holding ordered children; primitives are
// [KindLeaf] nodes carrying a typed [Scalar]. The kind is an explicit tag,
// never inferred from a display label, and it never changes for the life of
// a node.
//
// # Identity
//
// Node ids are path strings. The root is "0" and a child created under key k
// gets id parentID + "-" + k (see [ChildID]), with "-" and "~" inside k
// written as "~1" and "~0" so that every key path maps to its own id. Ids
// are unique within a tree and are the only cross-reference between a tree,
// the graph derived from it, and the drop targets a user interface reports. Structural edits move
// subtrees without renaming them, so after an edit an id is no longer
// guaranteed to be a path extension of its parent's id; only uniqueness is.
//
// # Lookup
//
// Trees are plain pointer structures. [Node.Find] walks the tree; callers
// that need repeated lookups build an [Index] once, which maps ids to nodes
// and parents and answers ancestry queries:
//
//	idx := tree.NewIndex(root)
//	n := idx.Node("0-users-1")
//	p := idx.Parent("0-users-1")
//	idx.IsAncestor("0-users", "0-users-1-name") // true
//
// # Copying
//
// Trees are treated as immutable values by the rest of the module. Edits
// produce a new tree with [Node.Clone]; readers holding an older tree are
// never affected.
//
// # Concurrency
//
// A tree that is not mutated is safe for concurrent readers. Nothing in
// this package synchronizes writers.
package tree
