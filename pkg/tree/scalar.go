package tree

import (
	"math"
	"strconv"
	"strings"
)

// ScalarType identifies the JSON primitive a [Scalar] holds.
type ScalarType int

const (
	// Null is the JSON null literal. It is the zero value of ScalarType.
	Null ScalarType = iota
	// Bool is true or false.
	Bool
	// Number is an IEEE-754 double, matching JSON number semantics.
	Number
	// String is a JSON string.
	String
)

// String returns the lowercase JSON type name.
func (t ScalarType) String() string {
	switch t {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	}
	return "unknown"
}

// Scalar is the typed value of a leaf node. The zero value is null.
type Scalar struct {
	typ ScalarType
	b   bool
	n   float64
	s   string
}

// NullValue returns the null scalar.
func NullValue() Scalar { return Scalar{} }

// BoolValue returns a boolean scalar.
func BoolValue(b bool) Scalar { return Scalar{typ: Bool, b: b} }

// NumberValue returns a number scalar.
func NumberValue(f float64) Scalar { return Scalar{typ: Number, n: f} }

// StringValue returns a string scalar.
func StringValue(s string) Scalar { return Scalar{typ: String, s: s} }

// Type returns the scalar's JSON type.
func (s Scalar) Type() ScalarType { return s.typ }

// Value returns the scalar as a Go JSON value: nil, bool, float64 or string.
func (s Scalar) Value() any {
	switch s.typ {
	case Bool:
		return s.b
	case Number:
		return s.n
	case String:
		return s.s
	}
	return nil
}

// Text returns the human-editable rendering used in labels and property
// rows: "null", "true", "false", the number in ECMAScript form, or the raw
// string without quotes.
func (s Scalar) Text() string {
	switch s.typ {
	case Bool:
		return strconv.FormatBool(s.b)
	case Number:
		return FormatNumber(s.n)
	case String:
		return s.s
	}
	return "null"
}

// Equal reports whether two scalars have the same type and value.
func (s Scalar) Equal(o Scalar) bool {
	if s.typ != o.typ {
		return false
	}
	switch s.typ {
	case Bool:
		return s.b == o.b
	case Number:
		return s.n == o.n
	case String:
		return s.s == o.s
	}
	return true
}

// FormatNumber renders f the way ECMAScript's Number#toString does, which
// is also what JSON.stringify emits. Non-finite values render as "null".
func FormatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	out := strconv.FormatFloat(f, 'e', -1, 64)
	// Go pads the exponent to two digits ("1e-07"); ECMAScript does not.
	if i := strings.IndexByte(out, 'e'); i >= 0 {
		mant, exp := out[:i], out[i+1:]
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		out = mant + "e" + sign + digits
	}
	return out
}
