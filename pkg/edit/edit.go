// Package edit defines structural edit requests and loads them from edit
// scripts.
//
// An [Edit] is the already-resolved id/index form in which a drag/drop
// front end reports a gesture: move a node under a new parent, or move one
// property row to another node. Scripts are lists of edits in YAML or JSON:
//
//	- op: reparent
//	  node: 0-users-1
//	  parent: 0-archive
//	- op: transfer
//	  source: 0-users-0
//	  target: 0-archive
//	  row: 2
//
// The same list may also be wrapped as {"edits": [...]}.
package edit

import (
	"bytes"
	"fmt"
	"io"
	"os"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/jsonflow/pkg/errors"
)

// Op names an edit operation.
type Op string

const (
	// OpReparent moves a subtree under a new parent.
	OpReparent Op = "reparent"
	// OpTransfer moves one child, by row index, from one node to another.
	OpTransfer Op = "transfer"
)

// Edit is one structural edit request.
type Edit struct {
	Op Op `json:"op" yaml:"op"`

	// Reparent fields.
	Node   string `json:"node,omitempty" yaml:"node,omitempty"`
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`

	// Transfer fields.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
	Row    int    `json:"row,omitempty" yaml:"row,omitempty"`
}

// Reparent returns a reparent edit.
func Reparent(nodeID, newParentID string) Edit {
	return Edit{Op: OpReparent, Node: nodeID, Parent: newParentID}
}

// Transfer returns a transfer edit.
func Transfer(sourceID, targetID string, row int) Edit {
	return Edit{Op: OpTransfer, Source: sourceID, Target: targetID, Row: row}
}

// String describes the edit for logs.
func (e Edit) String() string {
	switch e.Op {
	case OpReparent:
		return fmt.Sprintf("reparent %s -> %s", e.Node, e.Parent)
	case OpTransfer:
		return fmt.Sprintf("transfer %s[%d] -> %s", e.Source, e.Row, e.Target)
	}
	return fmt.Sprintf("unknown op %q", e.Op)
}

// Validate checks that the fields required by the operation are present
// and well formed. Whether the ids exist is decided against a tree.
func (e Edit) Validate() error {
	var ids []string
	switch e.Op {
	case OpReparent:
		ids = []string{e.Node, e.Parent}
	case OpTransfer:
		ids = []string{e.Source, e.Target}
		if err := errors.ValidateRowIndex(e.Row); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidEdit, err, "%s", e)
		}
	default:
		return errors.New(errors.ErrCodeInvalidEdit, "unknown edit op %q", e.Op)
	}
	for _, id := range ids {
		if err := errors.ValidateNodeID(id); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidEdit, err, "%s", e)
		}
	}
	return nil
}

// =============================================================================
// Scripts
// =============================================================================

type script struct {
	Edits []Edit `json:"edits" yaml:"edits"`
}

// Parse decodes an edit script. format is "json" or "yaml"; an empty
// format sniffs the first non-space byte and treats '[' or '{' as JSON.
// Every edit is validated.
func Parse(data []byte, format string) ([]Edit, error) {
	if format == "" {
		format = sniff(data)
	}
	var (
		edits []Edit
		err   error
	)
	switch format {
	case "json":
		edits, err = parseJSON(data)
	case "yaml", "yml":
		edits, err = parseYAML(data)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported edit script format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidEdit, err, "parse edit script")
	}
	for i, e := range edits {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("edit %d: %w", i, err)
		}
	}
	return edits, nil
}

// Read reads r to EOF and parses it.
func Read(r io.Reader, format string) ([]Edit, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read edit script: %w", err)
	}
	return Parse(data, format)
}

// ReadFile parses the edit script at path, choosing the format from its
// extension.
func ReadFile(path string) ([]Edit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	format := ""
	switch {
	case hasSuffix(path, ".json"):
		format = "json"
	case hasSuffix(path, ".yaml"), hasSuffix(path, ".yml"):
		format = "yaml"
	}
	return Parse(data, format)
}

// Marshal writes edits as a YAML script.
func Marshal(edits []Edit) ([]byte, error) {
	return yaml.Marshal(edits)
}

func parseJSON(data []byte) ([]Edit, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var s script
		if err := gojson.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		return s.Edits, nil
	}
	var edits []Edit
	if err := gojson.Unmarshal(trimmed, &edits); err != nil {
		return nil, err
	}
	return edits, nil
}

func parseYAML(data []byte) ([]Edit, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	body := doc.Content[0]
	if body.Kind == yaml.MappingNode {
		var s script
		if err := body.Decode(&s); err != nil {
			return nil, err
		}
		return s.Edits, nil
	}
	var edits []Edit
	if err := body.Decode(&edits); err != nil {
		return nil, err
	}
	return edits, nil
}

func sniff(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return "json"
	}
	return "yaml"
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
