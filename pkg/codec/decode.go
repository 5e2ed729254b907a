package codec

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	gojson "github.com/goccy/go-json"

	"github.com/matzehuels/jsonflow/pkg/tree"
)

// Member is one key/value pair of an [Object].
type Member struct {
	Key   string
	Value any
}

// Object is a JSON object that remembers member order. [Encode] produces
// it and [Decode] accepts it.
type Object []Member

// Get returns the value stored under key and whether it was present.
func (o Object) Get(key string) (any, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Keys returns member keys in order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// MarshalJSON writes the object compactly, in member order.
func (o Object) MarshalJSON() ([]byte, error) {
	return MarshalValue(o, "")
}

// Decode converts a Go JSON value into a tree. It never fails: values
// outside the JSON data model are converted through their JSON encoding
// when they have one and rendered with fmt otherwise.
func Decode(v any) *tree.Node {
	return decode(tree.RootID, "", v)
}

func decode(id, key string, v any) *tree.Node {
	switch x := v.(type) {
	case nil:
		return tree.NewLeaf(id, key, tree.NullValue())
	case *tree.Node:
		return retag(x, id, key)
	case bool:
		return tree.NewLeaf(id, key, tree.BoolValue(x))
	case string:
		return tree.NewLeaf(id, key, tree.StringValue(x))
	case float64:
		return tree.NewLeaf(id, key, tree.NumberValue(x))
	case float32:
		return tree.NewLeaf(id, key, tree.NumberValue(float64(x)))
	case int:
		return tree.NewLeaf(id, key, tree.NumberValue(float64(x)))
	case int64:
		return tree.NewLeaf(id, key, tree.NumberValue(float64(x)))
	case int32:
		return tree.NewLeaf(id, key, tree.NumberValue(float64(x)))
	case uint64:
		return tree.NewLeaf(id, key, tree.NumberValue(float64(x)))
	case json.Number:
		return tree.NewLeaf(id, key, numberScalar(string(x)))
	case Object:
		obj := tree.NewObject(id, key)
		seen := make(map[string]int, len(x))
		for _, m := range x {
			child := decode(tree.ChildID(id, m.Key), m.Key, m.Value)
			if at, dup := seen[m.Key]; dup {
				obj.Children[at] = child
				continue
			}
			seen[m.Key] = len(obj.Children)
			obj.Append(child)
		}
		return obj
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := tree.NewObject(id, key)
		for _, k := range keys {
			obj.Append(decode(tree.ChildID(id, k), k, x[k]))
		}
		return obj
	case []any:
		arr := tree.NewArray(id, key)
		for i, elem := range x {
			k := strconv.Itoa(i)
			arr.Append(decode(tree.ChildID(id, k), k, elem))
		}
		return arr
	}
	return decodeReflect(id, key, v)
}

// decodeReflect handles typed slices, string-keyed maps, numeric kinds
// and anything with a JSON encoding.
func decodeReflect(id, key string, v any) *tree.Node {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return tree.NewLeaf(id, key, tree.NumberValue(float64(rv.Int())))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return tree.NewLeaf(id, key, tree.NumberValue(float64(rv.Uint())))
	case reflect.Float32, reflect.Float64:
		return tree.NewLeaf(id, key, tree.NumberValue(rv.Float()))
	case reflect.Bool:
		return tree.NewLeaf(id, key, tree.BoolValue(rv.Bool()))
	case reflect.String:
		return tree.NewLeaf(id, key, tree.StringValue(rv.String()))
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return tree.NewLeaf(id, key, tree.NullValue())
		}
		if rv.Type().Elem().Kind() != reflect.Uint8 {
			arr := tree.NewArray(id, key)
			for i := 0; i < rv.Len(); i++ {
				k := strconv.Itoa(i)
				arr.Append(decode(tree.ChildID(id, k), k, rv.Index(i).Interface()))
			}
			return arr
		}
	case reflect.Map:
		if rv.IsNil() {
			return tree.NewLeaf(id, key, tree.NullValue())
		}
		if rv.Type().Key().Kind() == reflect.String {
			keys := rv.MapKeys()
			sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
			obj := tree.NewObject(id, key)
			for _, mk := range keys {
				k := mk.String()
				obj.Append(decode(tree.ChildID(id, k), k, rv.MapIndex(mk).Interface()))
			}
			return obj
		}
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return tree.NewLeaf(id, key, tree.NullValue())
		}
	}

	// Structs, byte slices, non-string map keys, custom marshalers.
	if data, err := gojson.Marshal(v); err == nil {
		if n, err := Parse(data); err == nil {
			return retag(n, id, key)
		}
	}
	return tree.NewLeaf(id, key, tree.StringValue(fmt.Sprint(v)))
}

// retag copies n and rewrites ids so the copy sits under id with key.
func retag(n *tree.Node, id, key string) *tree.Node {
	out := &tree.Node{ID: id, Kind: n.Kind, Key: key, Value: n.Value}
	for _, c := range n.Children {
		out.Append(retag(c, tree.ChildID(id, c.Key), c.Key))
	}
	return out
}
