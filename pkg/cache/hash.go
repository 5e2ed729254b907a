package cache

import (
	"encoding/hex"
	"fmt"

	gojson "github.com/goccy/go-json"
	"lukechampine.com/blake3"
)

// Hash returns the 64-character hex BLAKE3-256 digest of data.
func Hash(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds "prefix:hash(parts...)". Parts are hashed through their
// JSON encoding, so struct option values contribute every field.
func hashKey(prefix string, parts ...any) string {
	data, err := gojson.Marshal(parts)
	if err != nil {
		data = []byte(fmt.Sprint(parts...))
	}
	return prefix + ":" + Hash(data)
}
