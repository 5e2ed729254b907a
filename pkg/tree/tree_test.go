package tree

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

// sample builds {"name":"a","tags":["x","y"],"meta":{"ok":true}}.
func sample() *Node {
	root := NewObject(RootID, "")
	root.Append(NewLeaf("0-name", "name", StringValue("a")))

	tags := NewArray("0-tags", "tags")
	tags.Append(NewLeaf("0-tags-0", "0", StringValue("x")))
	tags.Append(NewLeaf("0-tags-1", "1", StringValue("y")))
	root.Append(tags)

	meta := NewObject("0-meta", "meta")
	meta.Append(NewLeaf("0-meta-ok", "ok", BoolValue(true)))
	root.Append(meta)
	return root
}

func TestChildID(t *testing.T) {
	tests := []struct {
		parent, key string
		want        string
	}{
		{"0-users", "3", "0-users-3"},
		{RootID, "name", "0-name"},
		{RootID, "a-b", "0-a~1b"},
		{RootID, "a~b", "0-a~0b"},
		{RootID, "~1", "0-~01"},
		{RootID, "", "0-"},
	}
	for _, tt := range tests {
		if got := ChildID(tt.parent, tt.key); got != tt.want {
			t.Errorf("ChildID(%q, %q) = %q, want %q", tt.parent, tt.key, got, tt.want)
		}
	}

	// Distinct key paths never share an id.
	if ChildID(ChildID(RootID, "a"), "b") == ChildID(RootID, "a-b") {
		t.Error("nested a/b and a-b produced the same id")
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindLeaf, "leaf"},
		{KindObject, "object"},
		{KindArray, "array"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
		var back Kind
		if err := back.UnmarshalText([]byte(tt.want)); err != nil || back != tt.kind {
			t.Errorf("UnmarshalText(%q) = %v, %v; want %v", tt.want, back, err, tt.kind)
		}
	}
	var k Kind
	if err := k.UnmarshalText([]byte("tuple")); err == nil {
		t.Error("UnmarshalText(tuple) should fail")
	}
}

func TestFind(t *testing.T) {
	root := sample()

	if n := root.Find("0-tags-1"); n == nil || n.Value.Text() != "y" {
		t.Errorf("Find(0-tags-1) = %v, want leaf y", n)
	}
	if n := root.Find("missing"); n != nil {
		t.Errorf("Find(missing) = %v, want nil", n)
	}
	if p := root.FindParent("0-meta-ok"); p == nil || p.ID != "0-meta" {
		t.Errorf("FindParent(0-meta-ok) = %v, want 0-meta", p)
	}
	if p := root.FindParent(RootID); p != nil {
		t.Errorf("FindParent(root) = %v, want nil", p)
	}
}

func TestCountAndDepth(t *testing.T) {
	root := sample()
	if got := root.Count(); got != 7 {
		t.Errorf("Count() = %d, want 7", got)
	}
	if got := root.Depth(); got != 3 {
		t.Errorf("Depth() = %d, want 3", got)
	}
}

func TestBranchPredicates(t *testing.T) {
	empty := NewArray("0-e", "e")
	if empty.IsBranch() {
		t.Error("empty array should not be a branch")
	}
	if !empty.IsContainer() {
		t.Error("empty array should be a container")
	}
	if !sample().IsBranch() {
		t.Error("populated object should be a branch")
	}
	if NewLeaf("0-x", "x", NullValue()).IsContainer() {
		t.Error("leaf should not be a container")
	}
}

func TestNextIndex(t *testing.T) {
	arr := NewArray("0-a", "a")
	if got := arr.NextIndex(); got != 0 {
		t.Errorf("empty NextIndex() = %d, want 0", got)
	}
	arr.Append(NewLeaf("0-a-0", "0", NullValue()))
	arr.Append(NewLeaf("0-a-4", "4", NullValue()))
	if got := arr.NextIndex(); got != 5 {
		t.Errorf("sparse NextIndex() = %d, want 5", got)
	}
}

func TestClone(t *testing.T) {
	root := sample()
	cp := root.Clone()

	if !root.Equal(cp) {
		t.Fatal("clone should equal original")
	}

	cp.Children[0].Value = StringValue("changed")
	cp.Children[1].Children = cp.Children[1].Children[:1]

	if root.Children[0].Value.Text() != "a" {
		t.Error("mutating clone leaf changed original")
	}
	if len(root.Children[1].Children) != 2 {
		t.Error("mutating clone children changed original")
	}
	if root.Equal(cp) {
		t.Error("diverged clone should not equal original")
	}
}

func TestWalkOrder(t *testing.T) {
	var ids []string
	sample().Walk(func(n, _ *Node, _ int) bool {
		ids = append(ids, n.ID)
		return n.ID != "0-tags"
	})
	want := []string{"0", "0-name", "0-tags", "0-meta", "0-meta-ok"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Walk order = %v, want %v", ids, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Node
		wantErr error
	}{
		{
			name:  "valid",
			build: sample,
		},
		{
			name: "duplicate id",
			build: func() *Node {
				r := sample()
				r.Children[0].ID = "0-meta"
				return r
			},
			wantErr: ErrDuplicateID,
		},
		{
			name: "duplicate object key",
			build: func() *Node {
				r := sample()
				r.Append(NewLeaf("0-name2", "name", NullValue()))
				return r
			},
			wantErr: ErrDuplicateKey,
		},
		{
			name: "non-index array key",
			build: func() *Node {
				r := sample()
				r.Children[1].Children[0].Key = "first"
				return r
			},
			wantErr: ErrInvalidIndex,
		},
		{
			name: "leaf with children",
			build: func() *Node {
				r := sample()
				r.Children[0].Append(NewLeaf("0-name-x", "x", NullValue()))
				return r
			},
			wantErr: ErrLeafChildren,
		},
		{
			name: "empty id",
			build: func() *Node {
				r := sample()
				r.Children[2].ID = ""
				return r
			},
			wantErr: ErrEmptyID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		key  string
		want int
		ok   bool
	}{
		{"0", 0, true},
		{"12", 12, true},
		{"", 0, false},
		{"01", 0, false},
		{"-1", 0, false},
		{"1.0", 0, false},
		{"x", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseIndex(tt.key)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseIndex(%q) = %d, %v; want %d, %v", tt.key, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIndex(t *testing.T) {
	idx := NewIndex(sample())

	if idx.Len() != 7 {
		t.Errorf("Len() = %d, want 7", idx.Len())
	}
	if !idx.Has("0-tags-0") || idx.Has("nope") {
		t.Error("Has reports wrong membership")
	}
	if p := idx.Parent("0-tags-0"); p == nil || p.ID != "0-tags" {
		t.Errorf("Parent(0-tags-0) = %v, want 0-tags", p)
	}
	if idx.Parent(RootID) != nil {
		t.Error("root should have no parent")
	}
	if !idx.IsAncestor(RootID, "0-meta-ok") || !idx.IsAncestor("0-meta", "0-meta-ok") {
		t.Error("IsAncestor should follow the parent chain")
	}
	if idx.IsAncestor("0-meta-ok", "0-meta-ok") {
		t.Error("a node is not its own proper ancestor")
	}
	if idx.IsAncestor("0-tags", "0-meta-ok") {
		t.Error("siblings are not ancestors")
	}
	if got := idx.Depth("0-meta-ok"); got != 2 {
		t.Errorf("Depth(0-meta-ok) = %d, want 2", got)
	}
	if got := idx.Depth("nope"); got != -1 {
		t.Errorf("Depth(nope) = %d, want -1", got)
	}
	if got, want := idx.Path("0-meta-ok"), []string{"0", "0-meta", "0-meta-ok"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Path = %v, want %v", got, want)
	}
}

func TestScalarText(t *testing.T) {
	tests := []struct {
		name string
		s    Scalar
		want string
		val  any
	}{
		{"null", NullValue(), "null", nil},
		{"true", BoolValue(true), "true", true},
		{"false", BoolValue(false), "false", false},
		{"int", NumberValue(42), "42", 42.0},
		{"string", StringValue("hello world"), "hello world", "hello world"},
		{"numeric string", StringValue("42"), "42", "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
			if got := tt.s.Value(); got != tt.val {
				t.Errorf("Value() = %#v, want %#v", got, tt.val)
			}
		})
	}
}

func TestScalarEqual(t *testing.T) {
	if NumberValue(1).Equal(StringValue("1")) {
		t.Error("number 1 should not equal string 1")
	}
	if !NullValue().Equal(Scalar{}) {
		t.Error("zero Scalar should be null")
	}
	if !BoolValue(true).Equal(BoolValue(true)) {
		t.Error("identical bools should be equal")
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{1, "1"},
		{-3, "-3"},
		{1.5, "1.5"},
		{0.1, "0.1"},
		{123456789, "123456789"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{1.5e300, "1.5e+300"},
		{0.000001, "0.000001"},
		{1e-7, "1e-7"},
		{-2.5e-10, "-2.5e-10"},
		{math.NaN(), "null"},
		{math.Inf(1), "null"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
