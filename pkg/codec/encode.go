package codec

import (
	"bytes"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/matzehuels/jsonflow/pkg/tree"
)

// DefaultIndent is the indentation [Marshal] uses.
const DefaultIndent = "  "

// Encode converts a tree back into a Go JSON value: nil, bool, float64,
// string, []any or [Object].
func Encode(n *tree.Node) any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case tree.KindObject:
		obj := make(Object, 0, len(n.Children))
		for _, c := range n.Children {
			obj = append(obj, Member{Key: c.Key, Value: Encode(c)})
		}
		return obj
	case tree.KindArray:
		out := make([]any, n.NextIndex())
		for _, c := range n.Children {
			if i, ok := c.Index(); ok {
				out[i] = Encode(c)
			}
		}
		return out
	}
	return n.Value.Value()
}

// Marshal encodes a tree as JSON text indented with two spaces.
func Marshal(n *tree.Node) ([]byte, error) {
	return MarshalIndent(n, DefaultIndent)
}

// MarshalIndent encodes a tree with the given indent. An empty indent
// produces compact output.
func MarshalIndent(n *tree.Node, indent string) ([]byte, error) {
	return MarshalValue(Encode(n), indent)
}

// Write encodes a tree to w followed by a newline.
func Write(w io.Writer, n *tree.Node) error {
	data, err := Marshal(n)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// MarshalValue encodes a Go JSON value the way JSON.stringify(v, null,
// indent) does. Values outside the JSON data model are normalized through
// [Decode] first.
func MarshalValue(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	w := writer{buf: &buf, indent: indent}
	w.value(v, 0)
	return buf.Bytes(), nil
}

type writer struct {
	buf    *bytes.Buffer
	indent string
}

func (w *writer) newline(depth int) {
	if w.indent == "" {
		return
	}
	w.buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		w.buf.WriteString(w.indent)
	}
}

func (w *writer) value(v any, depth int) {
	switch x := v.(type) {
	case nil:
		w.buf.WriteString("null")
	case bool:
		w.buf.WriteString(strconv.FormatBool(x))
	case float64:
		w.buf.WriteString(tree.FormatNumber(x))
	case string:
		writeString(w.buf, x)
	case Object:
		if len(x) == 0 {
			w.buf.WriteString("{}")
			return
		}
		w.buf.WriteByte('{')
		for i, m := range x {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.newline(depth + 1)
			writeString(w.buf, m.Key)
			w.buf.WriteByte(':')
			if w.indent != "" {
				w.buf.WriteByte(' ')
			}
			w.value(m.Value, depth+1)
		}
		w.newline(depth)
		w.buf.WriteByte('}')
	case []any:
		if len(x) == 0 {
			w.buf.WriteString("[]")
			return
		}
		w.buf.WriteByte('[')
		for i, elem := range x {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.newline(depth + 1)
			w.value(elem, depth+1)
		}
		w.newline(depth)
		w.buf.WriteByte(']')
	default:
		w.value(Encode(Decode(v)), depth)
	}
}

const hex = "0123456789abcdef"

// writeString quotes s with JSON.stringify's escaping rules: quote,
// backslash and C0 controls are escaped; everything else, including '<',
// '>' and '&', is written as is. Invalid UTF-8 becomes U+FFFD.
func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch c {
			case '"':
				buf.WriteString(`\"`)
			case '\\':
				buf.WriteString(`\\`)
			case '\b':
				buf.WriteString(`\b`)
			case '\f':
				buf.WriteString(`\f`)
			case '\n':
				buf.WriteString(`\n`)
			case '\r':
				buf.WriteString(`\r`)
			case '\t':
				buf.WriteString(`\t`)
			default:
				if c < 0x20 {
					buf.WriteString(`\u00`)
					buf.WriteByte(hex[c>>4])
					buf.WriteByte(hex[c&0xf])
				} else {
					buf.WriteByte(c)
				}
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			buf.WriteString("\ufffd")
		} else {
			buf.WriteString(s[i : i+size])
		}
		i += size
	}
	buf.WriteByte('"')
}
