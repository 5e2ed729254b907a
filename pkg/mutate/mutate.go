// Package mutate implements the structural edits a visual editor performs
// on a tree: moving a subtree under a new parent ([Reparent]) and moving a
// single property row from one node to another ([TransferProperty]).
//
// Edits never modify their input. A successful edit returns a fresh deep
// copy; a rejected edit returns the original tree unchanged together with
// an *errors.Error of code EDIT_REJECTED whose cause is one of the reason
// sentinels below:
//
//	next, err := mutate.Reparent(t, "0-b", "0-a")
//	if errors.Is(err, errors.ErrCodeEditRejected) {
//	    // next == t
//	}
//	if stderrors.Is(err, mutate.ErrCycle) { ... }
//
// # Keys
//
// A moved subtree keeps its node ids. Its key is fitted to the new parent:
// under an object the key is kept, and suffixed "_2", "_3", ... when it
// would collide with a sibling; under an array it becomes the next free
// index, also when the array is the one it came from. The array it left keeps its other indices, so the gap encodes as
// null.
package mutate

import (
	stderrors "errors"
	"strconv"

	"github.com/matzehuels/jsonflow/pkg/edit"
	"github.com/matzehuels/jsonflow/pkg/errors"
	"github.com/matzehuels/jsonflow/pkg/tree"
)

// Reasons an edit is rejected.
var (
	ErrNodeNotFound    = stderrors.New("node not found")
	ErrRootMove        = stderrors.New("the root cannot be moved")
	ErrCycle           = stderrors.New("target is inside the moved subtree")
	ErrLeafTarget      = stderrors.New("target is a leaf")
	ErrIndexOutOfRange = stderrors.New("row index out of range")
)

// Reparent moves the subtree rooted at nodeID under newParentID, appending
// it as the last child. Moving a node to its current parent moves it to
// the end of that parent's children.
func Reparent(t *tree.Node, nodeID, newParentID string) (*tree.Node, error) {
	idx := tree.NewIndex(t)

	if !idx.Has(nodeID) {
		return t, reject(ErrNodeNotFound, "reparent: no node %q", nodeID)
	}
	if nodeID == idx.Root().ID {
		return t, reject(ErrRootMove, "reparent %s", nodeID)
	}
	target := idx.Node(newParentID)
	if target == nil {
		return t, reject(ErrNodeNotFound, "reparent: no new parent %q", newParentID)
	}
	if newParentID == nodeID || idx.IsAncestor(nodeID, newParentID) {
		return t, reject(ErrCycle, "reparent %s under %s", nodeID, newParentID)
	}
	if target.IsLeaf() {
		return t, reject(ErrLeafTarget, "reparent %s under %s", nodeID, newParentID)
	}
	out := t.Clone()
	outIdx := tree.NewIndex(out)
	moved := detach(outIdx.Parent(nodeID), nodeID)
	attach(outIdx.Node(newParentID), moved)
	return out, nil
}

// TransferProperty moves the child shown at row rowIndex of sourceID to the
// end of targetID. Transferring onto the source itself is a no-op that
// returns t and a nil error.
func TransferProperty(t *tree.Node, sourceID, targetID string, rowIndex int) (*tree.Node, error) {
	idx := tree.NewIndex(t)

	src := idx.Node(sourceID)
	if src == nil {
		return t, reject(ErrNodeNotFound, "transfer: no source %q", sourceID)
	}
	dst := idx.Node(targetID)
	if dst == nil {
		return t, reject(ErrNodeNotFound, "transfer: no target %q", targetID)
	}
	if sourceID == targetID {
		return t, nil
	}
	if rowIndex < 0 || rowIndex >= len(src.Children) {
		return t, reject(ErrIndexOutOfRange, "transfer: row %d of %s (%d rows)", rowIndex, sourceID, len(src.Children))
	}
	if dst.IsLeaf() {
		return t, reject(ErrLeafTarget, "transfer to %s", targetID)
	}
	row := src.Children[rowIndex]
	if row.ID == targetID || idx.IsAncestor(row.ID, targetID) {
		return t, reject(ErrCycle, "transfer %s into %s", row.ID, targetID)
	}

	out := t.Clone()
	outIdx := tree.NewIndex(out)
	moved := detach(outIdx.Node(sourceID), row.ID)
	attach(outIdx.Node(targetID), moved)
	return out, nil
}

// Apply performs one edit.
func Apply(t *tree.Node, e edit.Edit) (*tree.Node, error) {
	switch e.Op {
	case edit.OpReparent:
		return Reparent(t, e.Node, e.Parent)
	case edit.OpTransfer:
		return TransferProperty(t, e.Source, e.Target, e.Row)
	}
	return t, errors.New(errors.ErrCodeInvalidEdit, "unknown edit op %q", e.Op)
}

// IsRejected reports whether err is a rejected edit.
func IsRejected(err error) bool {
	return errors.Is(err, errors.ErrCodeEditRejected)
}

func reject(reason error, format string, args ...any) error {
	return errors.Wrap(errors.ErrCodeEditRejected, reason, format, args...)
}

// detach removes the child with the given id from parent and returns it.
func detach(parent *tree.Node, id string) *tree.Node {
	i := parent.ChildIndex(id)
	c := parent.Children[i]
	parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
	return c
}

// attach appends c to parent, fitting its key to the parent's kind.
func attach(parent *tree.Node, c *tree.Node) {
	switch parent.Kind {
	case tree.KindArray:
		c.Key = strconv.Itoa(parent.NextIndex())
	case tree.KindObject:
		c.Key = FreeKey(parent, c.Key)
	}
	parent.Append(c)
}

// FreeKey returns key if no child of obj uses it, otherwise the first of
// key_2, key_3, ... that is free.
func FreeKey(obj *tree.Node, key string) string {
	if obj.Child(key) == nil {
		return key
	}
	for n := 2; ; n++ {
		candidate := key + "_" + strconv.Itoa(n)
		if obj.Child(candidate) == nil {
			return candidate
		}
	}
}
