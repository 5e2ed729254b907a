package tree

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// RootID is the id of every tree's root node.
const RootID = "0"

var (
	// ErrDuplicateID is returned by [Node.Validate] when two nodes share an id.
	ErrDuplicateID = errors.New("duplicate node id")

	// ErrDuplicateKey is returned by [Node.Validate] when an object has two
	// children under the same key.
	ErrDuplicateKey = errors.New("duplicate object key")

	// ErrInvalidIndex is returned by [Node.Validate] when an array child's key
	// is not a canonical non-negative integer.
	ErrInvalidIndex = errors.New("array child key is not an index")

	// ErrLeafChildren is returned by [Node.Validate] when a leaf has children.
	ErrLeafChildren = errors.New("leaf node has children")

	// ErrEmptyID is returned by [Node.Validate] when a node has no id.
	ErrEmptyID = errors.New("node id must not be empty")
)

// Kind tags a node as an object, an array or a leaf.
type Kind int

const (
	// KindLeaf holds a primitive value and never has children.
	KindLeaf Kind = iota
	// KindObject holds children keyed by unique property names.
	KindObject
	// KindArray holds children keyed by numeric indices, possibly sparse.
	KindArray
)

// String returns "leaf", "object" or "array".
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	}
	return "leaf"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "leaf":
		*k = KindLeaf
	case "object":
		*k = KindObject
	case "array":
		*k = KindArray
	default:
		return fmt.Errorf("unknown node kind %q", b)
	}
	return nil
}

// Node is one element of a JSON tree.
//
// Key is the property name or array index (in decimal) the node was created
// under; it is empty for the root. Value is meaningful only for leaves.
// Children keep document order.
type Node struct {
	ID       string
	Kind     Kind
	Key      string
	Value    Scalar
	Children []*Node
}

// keyEscaper keeps the id separator out of key segments, so distinct key
// paths always produce distinct ids ("a-b" and "a"/"b" differ).
var keyEscaper = strings.NewReplacer("~", "~0", "-", "~1")

// ChildID returns the id a child created under key gets. A "-" inside the
// key is written as "~1" and a "~" as "~0"; other keys are used as is.
func ChildID(parentID, key string) string {
	return parentID + "-" + keyEscaper.Replace(key)
}

// NewObject returns an empty object node.
func NewObject(id, key string) *Node {
	return &Node{ID: id, Kind: KindObject, Key: key}
}

// NewArray returns an empty array node.
func NewArray(id, key string) *Node {
	return &Node{ID: id, Kind: KindArray, Key: key}
}

// NewLeaf returns a leaf node holding v.
func NewLeaf(id, key string, v Scalar) *Node {
	return &Node{ID: id, Kind: KindLeaf, Key: key, Value: v}
}

// IsLeaf reports whether n is a primitive.
func (n *Node) IsLeaf() bool { return n.Kind == KindLeaf }

// IsContainer reports whether n is an object or array, empty or not.
func (n *Node) IsContainer() bool { return n.Kind != KindLeaf }

// IsBranch reports whether n is a container with at least one child.
// Branches are the children that get their own graph node.
func (n *Node) IsBranch() bool { return n.Kind != KindLeaf && len(n.Children) > 0 }

// Child returns the direct child with the given key, or nil.
func (n *Node) Child(key string) *Node {
	for _, c := range n.Children {
		if c.Key == key {
			return c
		}
	}
	return nil
}

// ChildIndex returns the position of the direct child with the given id,
// or -1.
func (n *Node) ChildIndex(id string) int {
	for i, c := range n.Children {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Append adds c as the last child of n.
func (n *Node) Append(c *Node) {
	n.Children = append(n.Children, c)
}

// Index returns the numeric index encoded in n.Key, for array elements.
func (n *Node) Index() (int, bool) {
	return parseIndex(n.Key)
}

// NextIndex returns one past the largest element index of an array node,
// which is the array's encoded length. It is 0 for an empty array.
func (n *Node) NextIndex() int {
	next := 0
	for _, c := range n.Children {
		if i, ok := c.Index(); ok && i >= next {
			next = i + 1
		}
	}
	return next
}

// Walk visits n and its descendants in depth-first pre-order. The visitor
// receives each node with its parent (nil for n) and depth (0 for n).
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(node, parent *Node, depth int) bool) {
	walk(n, nil, 0, fn)
}

func walk(n, parent *Node, depth int, fn func(node, parent *Node, depth int) bool) {
	if !fn(n, parent, depth) {
		return
	}
	for _, c := range n.Children {
		walk(c, n, depth+1, fn)
	}
}

// Find returns the node with the given id in the subtree rooted at n, or nil.
func (n *Node) Find(id string) *Node {
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// FindParent returns the parent of the node with the given id, or nil when
// the id is n itself or absent.
func (n *Node) FindParent(id string) *Node {
	for _, c := range n.Children {
		if c.ID == id {
			return n
		}
		if p := c.FindParent(id); p != nil {
			return p
		}
	}
	return nil
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Depth returns the height of the subtree rooted at n; a single node has
// depth 1.
func (n *Node) Depth() int {
	deepest := 0
	for _, c := range n.Children {
		if d := c.Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// Clone returns a deep copy of the subtree rooted at n. Ids, keys and
// values are preserved.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{ID: n.ID, Kind: n.Kind, Key: n.Key, Value: n.Value}
	if len(n.Children) > 0 {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// Equal reports whether two trees are structurally identical, ids
// included.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.ID != o.ID || n.Kind != o.Kind || n.Key != o.Key || !n.Value.Equal(o.Value) {
		return false
	}
	if len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Validate checks the tree invariants: non-empty unique ids, leaves
// without children, unique keys under objects, and canonical unique
// indices under arrays. A violation indicates a defect in whatever built
// or edited the tree.
func (n *Node) Validate() error {
	seen := make(map[string]struct{})
	var err error
	n.Walk(func(node, _ *Node, _ int) bool {
		if err != nil {
			return false
		}
		if node.ID == "" {
			err = ErrEmptyID
			return false
		}
		if _, dup := seen[node.ID]; dup {
			err = fmt.Errorf("%w: %s", ErrDuplicateID, node.ID)
			return false
		}
		seen[node.ID] = struct{}{}
		err = node.validateChildren()
		return err == nil
	})
	return err
}

func (n *Node) validateChildren() error {
	switch n.Kind {
	case KindLeaf:
		if len(n.Children) > 0 {
			return fmt.Errorf("%w: %s", ErrLeafChildren, n.ID)
		}
	case KindObject:
		keys := make(map[string]struct{}, len(n.Children))
		for _, c := range n.Children {
			if _, dup := keys[c.Key]; dup {
				return fmt.Errorf("%w: %q in %s", ErrDuplicateKey, c.Key, n.ID)
			}
			keys[c.Key] = struct{}{}
		}
	case KindArray:
		idx := make(map[int]struct{}, len(n.Children))
		for _, c := range n.Children {
			i, ok := c.Index()
			if !ok {
				return fmt.Errorf("%w: %q in %s", ErrInvalidIndex, c.Key, n.ID)
			}
			if _, dup := idx[i]; dup {
				return fmt.Errorf("%w: index %d in %s", ErrDuplicateKey, i, n.ID)
			}
			idx[i] = struct{}{}
		}
	}
	return nil
}

// parseIndex accepts canonical non-negative decimal integers only: "0",
// "7", "12", but not "-1", "01" or "1.0".
func parseIndex(key string) (int, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(key)
	if err != nil {
		return 0, false
	}
	return v, true
}
