// Package codec converts between JSON and the [tree] model.
//
// # Decoding
//
// [Parse] reads JSON text with a token stream, so object members keep the
// order they were written in. Malformed text yields an error carrying
// errors.ErrCodeInvalidJSON; the caller's previous tree is untouched because
// parsing never shares state with it. [ParseYAML] accepts YAML documents,
// again in document order. [Decode] converts an already-decoded Go value and
// never fails: plain maps are decoded in sorted key order, and the ordered
// [Object] type keeps its member order.
//
// Ids are assigned as the tree is built: the root is "0" and a child under
// key k of node p gets "p-k". Array elements use their decimal index as key.
//
// # Encoding
//
// [Encode] turns a tree back into a Go value built from nil, bool, float64,
// string, []any and [Object]. Arrays are sized from their largest element
// index; indices with no element become nil, which encodes as null.
//
// [Marshal] writes the same value as pretty-printed text, byte-for-byte what
// ECMAScript's JSON.stringify(value, null, 2) produces: two-space
// indentation, `": "` separators, `{}` and `[]` for empty containers, no
// HTML escaping and ECMAScript number formatting.
//
// # Labels
//
// Older front ends carry values inside display labels such as "age: 42" or
// "tags [Array]". [FormatLabel], [ParseLabel] and [ParseScalar] read and write
// that form. A label's text only ever produces a leaf value; node kind always
// comes from the tree.
package codec
