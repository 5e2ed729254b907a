// Package document holds the editing state on the caller side of the
// engine: the current tree, the edits applied to it and an undo/redo
// history of previous trees.
//
// Mutations in [mutate] are pure, so history is just a stack of earlier
// tree values; no inverse edits are computed. A Document serializes all
// access with a mutex and is safe for concurrent use.
//
//	doc, err := document.Parse(text)
//	if _, err := doc.Apply(edit.Reparent("0-b", "0-a")); mutate.IsRejected(err) {
//	    // the document is unchanged
//	}
//	doc.Undo()
package document

import (
	"sync"

	"github.com/matzehuels/jsonflow/pkg/codec"
	"github.com/matzehuels/jsonflow/pkg/edit"
	"github.com/matzehuels/jsonflow/pkg/errors"
	"github.com/matzehuels/jsonflow/pkg/mutate"
	"github.com/matzehuels/jsonflow/pkg/observability"
	"github.com/matzehuels/jsonflow/pkg/tree"
)

// DefaultHistoryLimit bounds the undo stack.
const DefaultHistoryLimit = 100

// Step is one entry of the history.
type Step struct {
	// Edit is the structural edit that produced the step. It is the zero
	// Edit for steps made by Load.
	Edit    edit.Edit `json:"edit"`
	Changes []Change  `json:"changes"`

	before *tree.Node
	after  *tree.Node
}

// Document is an editable tree with history.
type Document struct {
	mu      sync.Mutex
	current *tree.Node
	undo    []Step
	redo    []Step
	limit   int
}

// Option configures a Document.
type Option func(*Document)

// WithHistoryLimit sets how many steps Undo can go back. Values below 1
// keep the default.
func WithHistoryLimit(n int) Option {
	return func(d *Document) {
		if n > 0 {
			d.limit = n
		}
	}
}

// New returns a document holding t.
func New(t *tree.Node, opts ...Option) *Document {
	d := &Document{current: t, limit: DefaultHistoryLimit}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Parse decodes JSON text into a new document.
func Parse(data []byte, opts ...Option) (*Document, error) {
	t, err := codec.Parse(data)
	if err != nil {
		return nil, err
	}
	return New(t, opts...), nil
}

// Tree returns the current tree. Trees are never modified in place, so the
// result stays valid after further edits.
func (d *Document) Tree() *tree.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Load replaces the tree with newly parsed text. Invalid text leaves the
// document untouched and returns the parse error. A successful load is
// recorded in the history like an edit.
func (d *Document) Load(data []byte) (Step, error) {
	t, err := codec.Parse(data)
	if err != nil {
		return Step{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.commit(edit.Edit{}, t), nil
}

// Apply performs e on the current tree. A rejected edit leaves the
// document and its history untouched; a self-transfer succeeds without
// recording a step.
func (d *Document) Apply(e edit.Edit) (Step, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	hooks := observability.Edit()
	hooks.OnEditStart(string(e.Op), e.String())

	next, err := mutate.Apply(d.current, e)
	if err != nil {
		hooks.OnEditComplete(string(e.Op), false, err)
		return Step{}, err
	}
	if next == d.current {
		hooks.OnEditComplete(string(e.Op), true, nil)
		return Step{Edit: e}, nil
	}
	step := d.commit(e, next)
	hooks.OnEditComplete(string(e.Op), true, nil)
	return step, nil
}

// ApplyAll applies edits in order and stops at the first failure. It
// returns the number of edits applied; the successful ones stay applied.
func (d *Document) ApplyAll(edits []edit.Edit) (int, error) {
	for i, e := range edits {
		if _, err := d.Apply(e); err != nil {
			return i, err
		}
	}
	return len(edits), nil
}

// Undo restores the tree from before the most recent step.
func (d *Document) Undo() (Step, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.undo) == 0 {
		return Step{}, errors.New(errors.ErrCodeNothingToUndo, "nothing to undo")
	}
	s := d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]
	d.redo = append(d.redo, s)
	d.current = s.before
	return s, nil
}

// Redo re-applies the most recently undone step.
func (d *Document) Redo() (Step, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.redo) == 0 {
		return Step{}, errors.New(errors.ErrCodeNothingToUndo, "nothing to redo")
	}
	s := d.redo[len(d.redo)-1]
	d.redo = d.redo[:len(d.redo)-1]
	d.undo = append(d.undo, s)
	d.current = s.after
	return s, nil
}

// CanUndo reports whether Undo would succeed.
func (d *Document) CanUndo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.undo) > 0
}

// CanRedo reports whether Redo would succeed.
func (d *Document) CanRedo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.redo) > 0
}

// History returns the undoable steps, oldest first.
func (d *Document) History() []Step {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Step, len(d.undo))
	copy(out, d.undo)
	return out
}

// Text encodes the current tree as indented JSON.
func (d *Document) Text() ([]byte, error) {
	return codec.MarshalIndent(d.Tree(), codec.DefaultIndent)
}

// commit records the move from the current tree to next. d.mu is held.
func (d *Document) commit(e edit.Edit, next *tree.Node) Step {
	s := Step{
		Edit:    e,
		Changes: Diff(d.current, next),
		before:  d.current,
		after:   next,
	}
	d.undo = append(d.undo, s)
	if len(d.undo) > d.limit {
		d.undo = d.undo[len(d.undo)-d.limit:]
	}
	d.redo = nil
	d.current = next
	return s
}
