package codec

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/jsonflow/pkg/errors"
	"github.com/matzehuels/jsonflow/pkg/tree"
)

func mustParse(t *testing.T, src string) *tree.Node {
	t.Helper()
	n, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return n
}

func TestParseScenario(t *testing.T) {
	root := mustParse(t, `{ "a": 1, "b": [true, null] }`)

	if root.Kind != tree.KindObject || root.ID != tree.RootID {
		t.Fatalf("root = %s %s, want object 0", root.Kind, root.ID)
	}
	if len(root.Children) != 2 {
		t.Fatalf("root children = %d, want 2", len(root.Children))
	}

	a := root.Children[0]
	if a.ID != "0-a" || a.Kind != tree.KindLeaf || !a.Value.Equal(tree.NumberValue(1)) {
		t.Errorf("a = %+v, want leaf 0-a = 1", a)
	}

	b := root.Children[1]
	if b.ID != "0-b" || b.Kind != tree.KindArray || len(b.Children) != 2 {
		t.Fatalf("b = %+v, want array 0-b with 2 children", b)
	}
	if e := b.Children[0]; e.Key != "0" || e.ID != "0-b-0" || !e.Value.Equal(tree.BoolValue(true)) {
		t.Errorf("b[0] = %+v, want 0=true", e)
	}
	if e := b.Children[1]; e.Key != "1" || e.ID != "0-b-1" || e.Value.Type() != tree.Null {
		t.Errorf("b[1] = %+v, want 1=null", e)
	}

	want := Object{{"a", 1.0}, {"b", []any{true, nil}}}
	if got := Encode(root); !reflect.DeepEqual(got, want) {
		t.Errorf("Encode = %#v, want %#v", got, want)
	}
}

func TestParsePreservesKeyOrder(t *testing.T) {
	root := mustParse(t, `{"zeta":1,"alpha":2,"mid":{"y":1,"x":2}}`)
	obj := Encode(root).(Object)
	if got, want := obj.Keys(), []string{"zeta", "alpha", "mid"}; !reflect.DeepEqual(got, want) {
		t.Errorf("keys = %v, want %v", got, want)
	}
	mid, _ := obj.Get("mid")
	if got, want := mid.(Object).Keys(), []string{"y", "x"}; !reflect.DeepEqual(got, want) {
		t.Errorf("nested keys = %v, want %v", got, want)
	}
}

func TestParseDuplicateKeys(t *testing.T) {
	root := mustParse(t, `{"a":1,"b":2,"a":3}`)
	out, _ := Marshal(root)
	if want := "{\n  \"a\": 3,\n  \"b\": 2\n}"; string(out) != want {
		t.Errorf("Marshal = %s, want %s", out, want)
	}
	if err := root.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"truncated", `{"a": [1, 2`},
		{"trailing comma", `[1, 2,]`},
		{"trailing data", `{} {}`},
		{"bare word", `hello`},
		{"single quotes", `{'a': 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Parse([]byte(tt.src))
			if err == nil {
				t.Fatalf("Parse(%q) = %v, want error", tt.src, n)
			}
			if !errors.Is(err, errors.ErrCodeInvalidJSON) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidJSON)
			}
			if n != nil {
				t.Error("failed Parse should return a nil tree")
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []string{
		`null`,
		`true`,
		`-12.5`,
		`"text"`,
		`[]`,
		`{}`,
		`{"a":1,"b":[true,null]}`,
		`{"users":[{"name":"ada","tags":["x","y"]},{"name":"bob","tags":[]}],"count":2}`,
		`[[1,[2,[3]]],{"k":{"k":{"k":"deep"}}}]`,
		`{"123":"numeric key","s":"123","u":"é ✓ <tag> & done"}`,
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			first := mustParse(t, src)
			text, err := MarshalIndent(first, "")
			if err != nil {
				t.Fatalf("MarshalIndent: %v", err)
			}
			var want, got any
			if err := json.Unmarshal([]byte(src), &want); err != nil {
				t.Fatal(err)
			}
			if err := json.Unmarshal(text, &got); err != nil {
				t.Fatalf("output is not JSON: %s", text)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("round trip = %s, want %s", text, src)
			}
			if second := mustParse(t, string(text)); !first.Equal(second) {
				t.Errorf("re-parse produced a different tree for %s", text)
			}
		})
	}
}

func TestStringLeafStaysString(t *testing.T) {
	root := mustParse(t, `{"zip":"01234","n":"123","t":"true"}`)
	obj := Encode(root).(Object)
	for _, m := range obj {
		if _, ok := m.Value.(string); !ok {
			t.Errorf("%s encoded as %T, want string", m.Key, m.Value)
		}
	}
}

func TestEncodeSparseArray(t *testing.T) {
	arr := tree.NewArray(tree.RootID, "")
	arr.Append(tree.NewLeaf("0-2", "2", tree.StringValue("c")))
	arr.Append(tree.NewLeaf("0-0", "0", tree.StringValue("a")))

	got := Encode(arr)
	want := []any{"a", nil, "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Encode = %#v, want %#v", got, want)
	}

	out, _ := MarshalIndent(arr, "")
	if string(out) != `["a",null,"c"]` {
		t.Errorf("MarshalIndent = %s", out)
	}
}

func TestMarshalFormat(t *testing.T) {
	root := mustParse(t, `{"a":1,"b":[true,null],"c":{},"d":[],"e":{"f":"x"}}`)
	got, err := Marshal(root)
	if err != nil {
		t.Fatal(err)
	}
	want := `{
  "a": 1,
  "b": [
    true,
    null
  ],
  "c": {},
  "d": [],
  "e": {
    "f": "x"
  }
}`
	if string(got) != want {
		t.Errorf("Marshal =\n%s\nwant\n%s", got, want)
	}
}

func TestMarshalStrings(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, `"plain"`},
		{`quote"back\`, `"quote\"back\\"`},
		{"tab\tnl\ncr\r", `"tab\tnl\ncr\r"`},
		{"\x01\x1f", `"\u0001\u001f"`},
		{"<a href='x'>&</a>", `"<a href='x'>&</a>"`},
		{" ", "\" \""},
		{"bad\xffutf8", "\"bad�utf8\""},
	}
	for _, tt := range tests {
		got, _ := MarshalValue(tt.in, "")
		if string(got) != tt.want {
			t.Errorf("MarshalValue(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestMarshalNumbers(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`1.0`, `1`},
		{`1e2`, `100`},
		{`-0`, `0`},
		{`1E-7`, `1e-7`},
		{`123456789012345678901234`, `1.2345678901234569e+23`},
		{`1e400`, `null`},
	}
	for _, tt := range tests {
		got, _ := MarshalIndent(mustParse(t, tt.src), "")
		if string(got) != tt.want {
			t.Errorf("Marshal(%s) = %s, want %s", tt.src, got, tt.want)
		}
	}
}

func TestParseOutOfRangeNumbers(t *testing.T) {
	root := mustParse(t, `{"big":1e400,"neg":[-1e400,"1e400",2],"s":"x\\\"9e999","n":{"v":9e999}}`)
	tests := []struct {
		id   string
		want tree.Scalar
	}{
		{"0-big", tree.NumberValue(math.Inf(1))},
		{"0-neg-0", tree.NumberValue(math.Inf(-1))},
		{"0-neg-1", tree.StringValue("1e400")},
		{"0-neg-2", tree.NumberValue(2)},
		{"0-s", tree.StringValue(`x\"9e999`)},
		{"0-n-v", tree.NumberValue(math.Inf(1))},
	}
	for _, tt := range tests {
		n := root.Find(tt.id)
		if n == nil {
			t.Errorf("Find(%s) = nil", tt.id)
			continue
		}
		if !n.Value.Equal(tt.want) {
			t.Errorf("%s = %v, want %v", tt.id, n.Value.Value(), tt.want.Value())
		}
	}

	out, _ := MarshalIndent(mustParse(t, `[1e400]`), "")
	if string(out) != `[null]` {
		t.Errorf("Marshal([1e400]) = %s, want [null]", out)
	}
}

func TestParsedIDsAreUnique(t *testing.T) {
	tests := []struct {
		name string
		src  string
		id   string
		key  string
	}{
		{"dash key vs nested path", `{"a-b":{"x":1},"a":{"b":{"y":2}}}`, "0-a~1b", "a-b"},
		{"dash key vs array element", `{"l-0":1,"l":[2]}`, "0-l~10", "l-0"},
		{"tilde keys", `{"a~1b":1,"a-b":2}`, "0-a~01b", "a~1b"},
		{"header style keys", `{"content-type":"json","content":{"type":"x"}}`, "0-content~1type", "content-type"},
		{"bare dashes", `{"-":{"-":1},"--":2}`, "0-~1~1", "--"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := mustParse(t, tt.src)
			if err := root.Validate(); err != nil {
				t.Fatalf("Validate() = %v", err)
			}
			if n := root.Find(tt.id); n == nil || n.Key != tt.key {
				t.Errorf("Find(%s) = %v, want key %q", tt.id, n, tt.key)
			}

			var v any
			if err := json.Unmarshal([]byte(tt.src), &v); err != nil {
				t.Fatal(err)
			}
			if err := Decode(v).Validate(); err != nil {
				t.Errorf("Decode().Validate() = %v", err)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	type point struct {
		X int `json:"x"`
		Y int `json:"y"`
	}
	v := map[string]any{
		"zeta":  int64(3),
		"alpha": []string{"p", "q"},
		"pt":    point{1, 2},
		"raw":   json.Number("2.50"),
		"nil":   nil,
		"f32":   float32(0.5),
		"inner": Object{{"b", 1}, {"a", 2}},
	}
	root := Decode(v)

	if err := root.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	got, _ := MarshalIndent(root, "")
	want := `{"alpha":["p","q"],"f32":0.5,"inner":{"b":1,"a":2},"nil":null,"pt":{"x":1,"y":2},"raw":2.5,"zeta":3}`
	if string(got) != want {
		t.Errorf("Decode/Marshal = %s, want %s", got, want)
	}

	if n := root.Find("0-pt-x"); n == nil || n.Key != "x" {
		t.Errorf("struct fields should be re-keyed under the parent id, got %v", n)
	}
}

func TestDecodeTotal(t *testing.T) {
	for _, v := range []any{make(chan int), func() {}, math.Inf(1), struct{}{}} {
		if n := Decode(v); n == nil {
			t.Errorf("Decode(%T) returned nil", v)
		}
	}
}

func TestObjectMarshalJSON(t *testing.T) {
	obj := Object{{"z", 1}, {"a", []any{Object{{"k", "v"}}}}}
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"z":1,"a":[{"k":"v"}]}` {
		t.Errorf("json.Marshal(Object) = %s", data)
	}
}

func TestParseYAML(t *testing.T) {
	src := `
name: ada
age: 36
active: true
ratio: 0.5
missing: ~
tags: [x, y]
base: &b
  k: v
copy: *b
quoted: "42"
`
	root, err := ParseYAML([]byte(src))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	got, _ := MarshalIndent(root, "")
	want := `{"name":"ada","age":36,"active":true,"ratio":0.5,"missing":null,"tags":["x","y"],"base":{"k":"v"},"copy":{"k":"v"},"quoted":"42"}`
	if string(got) != want {
		t.Errorf("ParseYAML = %s, want %s", got, want)
	}
	if n := root.Find("0-copy-k"); n == nil {
		t.Error("alias expansion should get ids under the alias site")
	}

	if _, err := ParseYAML([]byte("a: [1, 2")); !errors.Is(err, errors.ErrCodeInvalidJSON) {
		t.Errorf("malformed YAML error = %v, want INVALID_JSON", err)
	}
	if _, err := ParseYAML(nil); err == nil {
		t.Error("empty YAML should fail")
	}
}

func TestParseAny(t *testing.T) {
	if _, err := ParseAny([]byte(`{"a":1}`), "json"); err != nil {
		t.Errorf("json: %v", err)
	}
	if _, err := ParseAny([]byte("a: 1"), "yaml"); err != nil {
		t.Errorf("yaml: %v", err)
	}
	if _, err := ParseAny([]byte("a=1"), "toml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("toml error = %v, want INVALID_FORMAT", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"data.json":        "json",
		"data.YAML":        "yaml",
		"dir.v1/edits.yml": "yaml",
		"noext":            "json",
	}
	for in, want := range tests {
		if got := FormatFromPath(in); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseReader(t *testing.T) {
	n, err := ParseReader(strings.NewReader(`[1]`))
	if err != nil || n.Kind != tree.KindArray {
		t.Errorf("ParseReader = %v, %v", n, err)
	}
}
