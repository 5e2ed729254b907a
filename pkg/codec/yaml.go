package codec

import (
	"bytes"
	stderrors "errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/jsonflow/pkg/errors"
	"github.com/matzehuels/jsonflow/pkg/tree"
)

// ParseYAML decodes the first YAML document in data into a tree, keeping
// mapping order. Mapping keys are used as written; scalars are typed by
// their resolved YAML tag.
func ParseYAML(data []byte) (*tree.Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.Wrap(errors.ErrCodeInvalidJSON, &errors.SyntaxError{Msg: "empty input"}, "invalid YAML")
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidJSON, &errors.SyntaxError{Msg: err.Error()}, "invalid YAML")
	}
	return fromYAML(&doc, tree.RootID, "", 0)
}

// maxAliasDepth bounds alias expansion so recursive anchors cannot loop.
const maxAliasDepth = 64

func fromYAML(n *yaml.Node, id, key string, aliases int) (*tree.Node, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return tree.NewLeaf(id, key, tree.NullValue()), nil
		}
		return fromYAML(n.Content[0], id, key, aliases)
	case yaml.AliasNode:
		if aliases >= maxAliasDepth || n.Alias == nil {
			return nil, errors.New(errors.ErrCodeInvalidJSON, "YAML alias %q nests too deeply", n.Value)
		}
		return fromYAML(n.Alias, id, key, aliases+1)
	case yaml.MappingNode:
		obj := tree.NewObject(id, key)
		seen := make(map[string]int)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i].Value
			child, err := fromYAML(n.Content[i+1], tree.ChildID(id, k), k, aliases)
			if err != nil {
				return nil, err
			}
			if at, dup := seen[k]; dup {
				obj.Children[at] = child
				continue
			}
			seen[k] = len(obj.Children)
			obj.Append(child)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := tree.NewArray(id, key)
		for i, c := range n.Content {
			k := strconv.Itoa(i)
			child, err := fromYAML(c, tree.ChildID(id, k), k, aliases)
			if err != nil {
				return nil, err
			}
			arr.Append(child)
		}
		return arr, nil
	case yaml.ScalarNode:
		return tree.NewLeaf(id, key, yamlScalar(n)), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidJSON, "unsupported YAML node kind %d", n.Kind)
}

func yamlScalar(n *yaml.Node) tree.Scalar {
	switch n.ShortTag() {
	case "!!null":
		return tree.NullValue()
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return tree.BoolValue(b)
		}
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return tree.NumberValue(f)
		}
	}
	return tree.StringValue(n.Value)
}

// ParseAny dispatches on format: "yaml" or "yml" use [ParseYAML], "json"
// or "" use [Parse].
func ParseAny(data []byte, format string) (*tree.Node, error) {
	switch format {
	case "", "json":
		return Parse(data)
	case "yaml", "yml":
		return ParseYAML(data)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported input format %q", format)
}

// FormatFromPath guesses the input format from a file extension.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}
