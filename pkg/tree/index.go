package tree

// Index maps node ids to nodes and parents for a fixed tree. It is a
// snapshot: edits made to the tree after NewIndex are not reflected.
type Index struct {
	root   *Node
	nodes  map[string]*Node
	parent map[string]*Node
	depth  map[string]int
}

// NewIndex walks root once and records every node.
func NewIndex(root *Node) *Index {
	idx := &Index{
		root:   root,
		nodes:  make(map[string]*Node),
		parent: make(map[string]*Node),
		depth:  make(map[string]int),
	}
	if root == nil {
		return idx
	}
	root.Walk(func(n, p *Node, d int) bool {
		idx.nodes[n.ID] = n
		idx.depth[n.ID] = d
		if p != nil {
			idx.parent[n.ID] = p
		}
		return true
	})
	return idx
}

// Root returns the indexed tree's root.
func (x *Index) Root() *Node { return x.root }

// Len returns the number of indexed nodes.
func (x *Index) Len() int { return len(x.nodes) }

// Node returns the node with the given id, or nil.
func (x *Index) Node(id string) *Node { return x.nodes[id] }

// Has reports whether id is present.
func (x *Index) Has(id string) bool {
	_, ok := x.nodes[id]
	return ok
}

// Parent returns the parent of id, or nil for the root and unknown ids.
func (x *Index) Parent(id string) *Node { return x.parent[id] }

// Depth returns the distance from the root, or -1 for unknown ids.
func (x *Index) Depth(id string) int {
	d, ok := x.depth[id]
	if !ok {
		return -1
	}
	return d
}

// IsAncestor reports whether ancestor is a proper ancestor of id.
func (x *Index) IsAncestor(ancestor, id string) bool {
	for p := x.parent[id]; p != nil; p = x.parent[p.ID] {
		if p.ID == ancestor {
			return true
		}
	}
	return false
}

// Path returns the ids from the root down to id, inclusive. It is nil for
// unknown ids.
func (x *Index) Path(id string) []string {
	if !x.Has(id) {
		return nil
	}
	var rev []string
	for cur := x.nodes[id]; cur != nil; cur = x.parent[cur.ID] {
		rev = append(rev, cur.ID)
	}
	out := make([]string, len(rev))
	for i, v := range rev {
		out[len(rev)-1-i] = v
	}
	return out
}
