package codec

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"strconv"

	gojson "github.com/goccy/go-json"

	"github.com/matzehuels/jsonflow/pkg/errors"
	"github.com/matzehuels/jsonflow/pkg/tree"
)

// Parse decodes JSON text into a tree, preserving object member order.
//
// Duplicate keys inside one object follow JSON.parse: the last value wins
// and keeps the position of the first occurrence.
func Parse(data []byte) (*tree.Node, error) {
	if !gojson.Valid(data) {
		return nil, syntaxError(data)
	}
	data, overflow := maskOverflow(data)
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	p := &parser{dec: dec, overflow: overflow}
	tok, err := dec.Token()
	if err != nil {
		return nil, p.fail(err)
	}
	root, err := p.value(tree.RootID, "", tok)
	if err != nil {
		return nil, err
	}
	return root, nil
}

// ParseReader reads r to EOF and parses it.
func ParseReader(r io.Reader) (*tree.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return Parse(data)
}

// syntaxError produces a descriptive error for input that failed validation.
func syntaxError(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidJSON, &errors.SyntaxError{Msg: "empty input"}, "invalid JSON")
	}
	var v any
	err := gojson.Unmarshal(data, &v)
	if err == nil {
		return errors.Wrap(errors.ErrCodeInvalidJSON, &errors.SyntaxError{Msg: "malformed JSON"}, "invalid JSON")
	}
	se := &errors.SyntaxError{Msg: err.Error()}
	var gse *gojson.SyntaxError
	if stderrors.As(err, &gse) {
		se.Offset = gse.Offset
	}
	return errors.Wrap(errors.ErrCodeInvalidJSON, se, "invalid JSON")
}

type parser struct {
	dec *gojson.Decoder

	// overflow maps the ordinal of a number literal in the document to the
	// infinity it stands for; see maskOverflow.
	overflow map[int]float64
	numbers  int
}

// maskOverflow finds number literals outside the float64 range, which the
// tokenizer refuses, and blanks each one to "0" padded with spaces. It
// returns the masked copy and, by literal ordinal, the ±Inf each blanked
// literal denotes. data is returned unchanged when nothing overflows.
func maskOverflow(data []byte) ([]byte, map[int]float64) {
	var (
		out      []byte
		overflow map[int]float64
		ordinal  int
	)
	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case c == '"':
			i++
			for i < len(data) && data[i] != '"' {
				if data[i] == '\\' {
					i++
				}
				i++
			}
			i++
		case c == '-' || (c >= '0' && c <= '9'):
			start := i
			for i < len(data) && isNumberByte(data[i]) {
				i++
			}
			f, err := strconv.ParseFloat(string(data[start:i]), 64)
			if stderrors.Is(err, strconv.ErrRange) && math.IsInf(f, 0) {
				if out == nil {
					out = bytes.Clone(data)
					overflow = make(map[int]float64)
				}
				out[start] = '0'
				for j := start + 1; j < i; j++ {
					out[j] = ' '
				}
				overflow[ordinal] = f
			}
			ordinal++
		default:
			i++
		}
	}
	if out == nil {
		return data, nil
	}
	return out, overflow
}

func isNumberByte(c byte) bool {
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E'
}

// number returns the scalar for the next number literal in document order.
func (p *parser) number(lit string) tree.Scalar {
	n := p.numbers
	p.numbers++
	if f, ok := p.overflow[n]; ok {
		return tree.NumberValue(f)
	}
	return numberScalar(lit)
}

func (p *parser) fail(err error) error {
	return errors.Wrap(errors.ErrCodeInvalidJSON, &errors.SyntaxError{Offset: p.dec.InputOffset(), Msg: err.Error()}, "invalid JSON")
}

func (p *parser) value(id, key string, tok any) (*tree.Node, error) {
	switch v := tok.(type) {
	case gojson.Delim:
		switch v {
		case '{':
			return p.object(id, key)
		case '[':
			return p.array(id, key)
		}
		return nil, p.fail(fmt.Errorf("unexpected delimiter %q", rune(v)))
	case string:
		return tree.NewLeaf(id, key, tree.StringValue(v)), nil
	case bool:
		return tree.NewLeaf(id, key, tree.BoolValue(v)), nil
	case gojson.Number:
		return tree.NewLeaf(id, key, p.number(string(v))), nil
	case float64:
		return tree.NewLeaf(id, key, p.number(strconv.FormatFloat(v, 'g', -1, 64))), nil
	case nil:
		return tree.NewLeaf(id, key, tree.NullValue()), nil
	}
	return nil, p.fail(fmt.Errorf("unexpected token %v", tok))
}

func (p *parser) object(id, key string) (*tree.Node, error) {
	obj := tree.NewObject(id, key)
	seen := make(map[string]int)
	for p.dec.More() {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, p.fail(err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, p.fail(fmt.Errorf("object key must be a string, got %v", tok))
		}
		tok, err = p.dec.Token()
		if err != nil {
			return nil, p.fail(err)
		}
		child, err := p.value(tree.ChildID(id, name), name, tok)
		if err != nil {
			return nil, err
		}
		if at, dup := seen[name]; dup {
			obj.Children[at] = child
			continue
		}
		seen[name] = len(obj.Children)
		obj.Append(child)
	}
	if _, err := p.dec.Token(); err != nil {
		return nil, p.fail(err)
	}
	return obj, nil
}

func (p *parser) array(id, key string) (*tree.Node, error) {
	arr := tree.NewArray(id, key)
	for i := 0; p.dec.More(); i++ {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, p.fail(err)
		}
		k := strconv.Itoa(i)
		child, err := p.value(tree.ChildID(id, k), k, tok)
		if err != nil {
			return nil, err
		}
		arr.Append(child)
	}
	if _, err := p.dec.Token(); err != nil {
		return nil, p.fail(err)
	}
	return arr, nil
}

// numberScalar converts a validated JSON number literal. Literals outside
// the float64 range become ±Inf, as they do in ECMAScript.
func numberScalar(lit string) tree.Scalar {
	f, _ := strconv.ParseFloat(lit, 64)
	return tree.NumberValue(f)
}
