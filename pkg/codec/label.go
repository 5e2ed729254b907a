package codec

import (
	"strings"

	"github.com/matzehuels/jsonflow/pkg/tree"
)

// RootName is the display name of a tree's root.
const RootName = "root"

const (
	objectSuffix = " {Object}"
	arraySuffix  = " [Array]"
	valueSep     = ": "
)

// DisplayName returns n's key, or [RootName] for a node without one.
func DisplayName(n *tree.Node) string {
	if n.Key == "" && n.ID == tree.RootID {
		return RootName
	}
	return n.Key
}

// FormatLabel renders a node in the editable label form:
// "name {Object}", "name [Array]" or "name: value".
func FormatLabel(n *tree.Node) string {
	name := DisplayName(n)
	switch n.Kind {
	case tree.KindObject:
		return name + objectSuffix
	case tree.KindArray:
		return name + arraySuffix
	}
	return name + valueSep + n.Value.Text()
}

// ParseLabel splits a leaf label into its key and typed value. The split
// happens at the first ": ", so values may themselves contain ": ". A
// label without a separator is a key with an empty string value.
func ParseLabel(label string) (string, tree.Scalar) {
	key, text, found := strings.Cut(label, valueSep)
	if !found {
		return label, tree.StringValue("")
	}
	return key, ParseScalar(text)
}

// ParseScalar types the text of an edited value, trying in order: the
// null literal, the boolean literals, a JSON number, and finally the raw
// text as a string. Only the exact JSON number grammar counts as numeric,
// so "0x1f", " 12" and "1." stay strings.
func ParseScalar(text string) tree.Scalar {
	switch text {
	case "null":
		return tree.NullValue()
	case "true":
		return tree.BoolValue(true)
	case "false":
		return tree.BoolValue(false)
	}
	if IsNumber(text) {
		return numberScalar(text)
	}
	return tree.StringValue(text)
}

// IsNumber reports whether s matches the JSON number grammar:
// -?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?
func IsNumber(s string) bool {
	i, n := 0, len(s)
	if i < n && s[i] == '-' {
		i++
	}
	switch {
	case i < n && s[i] == '0':
		i++
	case i < n && s[i] >= '1' && s[i] <= '9':
		for i < n && isDigit(s[i]) {
			i++
		}
	default:
		return false
	}
	if i < n && s[i] == '.' {
		i++
		if i >= n || !isDigit(s[i]) {
			return false
		}
		for i < n && isDigit(s[i]) {
			i++
		}
	}
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < n && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if i >= n || !isDigit(s[i]) {
			return false
		}
		for i < n && isDigit(s[i]) {
			i++
		}
	}
	return i == n
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
