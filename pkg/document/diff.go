package document

import (
	"sort"
	"strings"

	"github.com/matzehuels/jsonflow/pkg/tree"
)

// ChangeKind classifies one difference between two trees.
type ChangeKind string

const (
	Added   ChangeKind = "added"
	Removed ChangeKind = "removed"
	Moved   ChangeKind = "moved"
	Changed ChangeKind = "changed"
)

// Change is one node-level difference. Path is the dot-separated key path
// in the tree the node lives in after the change (before, for removals).
type Change struct {
	Kind    ChangeKind `json:"kind"`
	ID      string     `json:"id"`
	Path    string     `json:"path"`
	OldPath string     `json:"oldPath,omitempty"`
}

// Diff compares two trees by node id. Because edits keep ids stable, a
// node whose parent or key differs is reported as moved rather than as a
// removal plus an addition. Descendants of a moved node are not reported
// separately. Changes are sorted by kind, then path.
func Diff(before, after *tree.Node) []Change {
	bx, ax := tree.NewIndex(before), tree.NewIndex(after)
	var changes []Change

	movedUnder := func(x *tree.Index, id string, moved map[string]bool) bool {
		for p := x.Parent(id); p != nil; p = x.Parent(p.ID) {
			if moved[p.ID] {
				return true
			}
		}
		return false
	}
	moved := make(map[string]bool)

	if after != nil {
		after.Walk(func(n, parent *tree.Node, _ int) bool {
			old := bx.Node(n.ID)
			switch {
			case old == nil:
				changes = append(changes, Change{Kind: Added, ID: n.ID, Path: Path(ax, n.ID)})
				return false
			case parentID(bx, n.ID) != idOf(parent) || old.Key != n.Key:
				moved[n.ID] = true
				changes = append(changes, Change{Kind: Moved, ID: n.ID, Path: Path(ax, n.ID), OldPath: Path(bx, n.ID)})
			case old.Kind != n.Kind || !old.Value.Equal(n.Value):
				changes = append(changes, Change{Kind: Changed, ID: n.ID, Path: Path(ax, n.ID)})
			}
			return true
		})
	}
	if before != nil {
		before.Walk(func(n, _ *tree.Node, _ int) bool {
			if !ax.Has(n.ID) {
				changes = append(changes, Change{Kind: Removed, ID: n.ID, Path: Path(bx, n.ID)})
				return false
			}
			return true
		})
	}

	// Drop entries implied by a moved ancestor.
	kept := changes[:0]
	for _, c := range changes {
		if c.Kind != Removed && movedUnder(ax, c.ID, moved) {
			continue
		}
		kept = append(kept, c)
	}
	changes = kept

	sort.SliceStable(changes, func(i, j int) bool {
		if changes[i].Kind != changes[j].Kind {
			return changes[i].Kind < changes[j].Kind
		}
		return changes[i].Path < changes[j].Path
	})
	return changes
}

// Path returns the dot-separated key path of id within x, or "(root)" for
// the root itself.
func Path(x *tree.Index, id string) string {
	ids := x.Path(id)
	if len(ids) <= 1 {
		return "(root)"
	}
	keys := make([]string, 0, len(ids)-1)
	for _, nid := range ids[1:] {
		keys = append(keys, x.Node(nid).Key)
	}
	return strings.Join(keys, ".")
}

func parentID(x *tree.Index, id string) string {
	return idOf(x.Parent(id))
}

func idOf(n *tree.Node) string {
	if n == nil {
		return ""
	}
	return n.ID
}
