package graph

import (
	"errors"
	"fmt"
	"strconv"

	gojson "github.com/goccy/go-json"

	"github.com/matzehuels/jsonflow/pkg/tree"
)

var (
	// ErrNoRoot is returned by [Graph.Validate] when no node is the root.
	ErrNoRoot = errors.New("graph has no root node")

	// ErrMultipleRoots is returned by [Graph.Validate] when more than one
	// node is flagged as root.
	ErrMultipleRoots = errors.New("graph has more than one root node")

	// ErrDuplicateNode is returned by [Graph.Validate] when two nodes share
	// an id.
	ErrDuplicateNode = errors.New("duplicate graph node")

	// ErrDanglingEdge is returned by [Graph.Validate] when an edge endpoint
	// or connection point does not exist.
	ErrDanglingEdge = errors.New("edge references a missing node or row")
)

// =============================================================================
// Graph
// =============================================================================

// Graph is the flattened projection of one tree. Nodes appear in
// depth-first pre-order of the tree, so the root is always first.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Root returns the node flagged as root, or nil.
func (g *Graph) Root() *Node {
	for i := range g.Nodes {
		if g.Nodes[i].IsRoot {
			return &g.Nodes[i]
		}
	}
	return nil
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// Outgoing returns the edges leaving the node with the given id.
func (g *Graph) Outgoing(id string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// Stats summarizes graph size.
type Stats struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
	Rows  int `json:"rows"`
}

// Stats counts nodes, edges and rows.
func (g *Graph) Stats() Stats {
	s := Stats{Nodes: len(g.Nodes), Edges: len(g.Edges)}
	for _, n := range g.Nodes {
		s.Rows += len(n.Rows)
	}
	return s
}

// Validate checks that exactly one node is the root, node ids are unique,
// and every edge starts at a row connection point of an existing node and
// ends at an existing node.
func (g *Graph) Validate() error {
	nodes := make(map[string]*Node, len(g.Nodes))
	roots := 0
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if _, dup := nodes[n.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
		}
		nodes[n.ID] = n
		if n.IsRoot {
			roots++
		}
	}
	switch {
	case roots == 0:
		return ErrNoRoot
	case roots > 1:
		return ErrMultipleRoots
	}
	for _, e := range g.Edges {
		src, ok := nodes[e.Source]
		if !ok {
			return fmt.Errorf("%w: source %s", ErrDanglingEdge, e.Source)
		}
		if _, ok := nodes[e.Target]; !ok {
			return fmt.Errorf("%w: target %s", ErrDanglingEdge, e.Target)
		}
		if src.RowByConnection(e.ConnectionID) < 0 {
			return fmt.Errorf("%w: connection %s on %s", ErrDanglingEdge, e.ConnectionID, e.Source)
		}
	}
	return nil
}

// =============================================================================
// Node
// =============================================================================

// Node is one materialized tree node. ID equals the tree node's id.
//
// Object nodes and the root carry one row per child. Array elements are
// materialized as their own nodes; a scalar element has no rows and its
// value is kept in Value and shown in Label.
type Node struct {
	ID     string    `json:"id"`
	Label  string    `json:"label"`
	Kind   tree.Kind `json:"kind"`
	Rows   []Row     `json:"rows"`
	IsRoot bool      `json:"isRoot,omitempty"`
	Value  any       `json:"value,omitempty"`
}

// MarshalJSON writes the node; leaf nodes always carry "value", null
// included, while container nodes never do.
func (n Node) MarshalJSON() ([]byte, error) {
	if n.Kind != tree.KindLeaf {
		return gojson.Marshal(struct {
			ID     string    `json:"id"`
			Label  string    `json:"label"`
			Kind   tree.Kind `json:"kind"`
			Rows   []Row     `json:"rows"`
			IsRoot bool      `json:"isRoot,omitempty"`
		}{n.ID, n.Label, n.Kind, n.Rows, n.IsRoot})
	}
	return gojson.Marshal(struct {
		ID     string    `json:"id"`
		Label  string    `json:"label"`
		Kind   tree.Kind `json:"kind"`
		Rows   []Row     `json:"rows"`
		IsRoot bool      `json:"isRoot,omitempty"`
		Value  any       `json:"value"`
	}{n.ID, n.Label, n.Kind, n.Rows, n.IsRoot, n.Value})
}

// RowCount returns the number of property rows; layout engines size nodes
// from it.
func (n *Node) RowCount() int { return len(n.Rows) }

// Height returns the node's height under d.
func (n *Node) Height(d Dimensions) float64 {
	return d.HeaderHeight + float64(len(n.Rows))*d.RowHeight + d.VPadding
}

// RowByConnection returns the index of the row with the given connection
// id, or -1.
func (n *Node) RowByConnection(connectionID string) int {
	if connectionID == "" {
		return -1
	}
	for i, r := range n.Rows {
		if r.ConnectionID == connectionID {
			return i
		}
	}
	return -1
}

// =============================================================================
// Row
// =============================================================================

// Row is one property line of a node. Leaf rows carry the child's typed
// value; branch rows carry a summary string such as "{3 keys}" and a
// ConnectionID that edges start from.
type Row struct {
	Key          string    `json:"key"`
	Value        any       `json:"value"`
	Kind         tree.Kind `json:"kind"`
	ConnectionID string    `json:"connectionId,omitempty"`
}

// IsBranch reports whether the row summarizes a child that has its own
// node(s).
func (r Row) IsBranch() bool { return r.ConnectionID != "" }

// Text renders the row value for display.
func (r Row) Text() string { return FormatValue(r.Value) }

// FormatValue renders a row or node value: null, booleans, numbers in
// ECMAScript form, strings unquoted.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return tree.FormatNumber(x)
	case string:
		return x
	}
	return fmt.Sprint(v)
}

// =============================================================================
// Edge
// =============================================================================

// Edge links a branch row's connection point to the node it summarizes.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"sourceNodeId"`
	ConnectionID string `json:"sourceConnectionId"`
	Target       string `json:"targetNodeId"`
}

// EdgeID returns the id of the edge from source to target.
func EdgeID(source, target string) string {
	return source + "->" + target
}
