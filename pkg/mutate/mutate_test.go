package mutate

import (
	stderrors "errors"
	"testing"

	"github.com/matzehuels/jsonflow/pkg/codec"
	"github.com/matzehuels/jsonflow/pkg/edit"
	"github.com/matzehuels/jsonflow/pkg/errors"
	"github.com/matzehuels/jsonflow/pkg/tree"
)

func parse(t *testing.T, src string) *tree.Node {
	t.Helper()
	n, err := codec.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return n
}

func encode(t *testing.T, n *tree.Node) string {
	t.Helper()
	b, err := codec.MarshalIndent(n, "")
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return string(b)
}

func TestReparentCycleRejected(t *testing.T) {
	// c is a descendant of b; moving b under c would create a cycle.
	orig := parse(t, `{"b":{"x":{"c":{"leaf":1}}},"d":2}`)
	before := orig.Clone()

	got, err := Reparent(orig, "0-b", "0-b-x-c")
	if err == nil {
		t.Fatal("Reparent() error = nil, want rejection")
	}
	if !IsRejected(err) {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeEditRejected)
	}
	if !stderrors.Is(err, ErrCycle) {
		t.Errorf("err = %v, want ErrCycle", err)
	}
	if got != orig {
		t.Error("rejected edit must return the input tree")
	}
	if !orig.Equal(before) {
		t.Error("rejected edit modified the input tree")
	}
}

func TestReparent(t *testing.T) {
	orig := parse(t, `{"a":{"k":1},"b":{"z":true}}`)

	got, err := Reparent(orig, "0-b", "0-a")
	if err != nil {
		t.Fatalf("Reparent() error = %v", err)
	}
	if got == orig {
		t.Fatal("Reparent() returned the input tree")
	}
	if want := `{"a":{"k":1,"b":{"z":true}}}`; encode(t, got) != want {
		t.Errorf("result = %s, want %s", encode(t, got), want)
	}
	if got.Count() != orig.Count() {
		t.Errorf("Count() = %d, want %d", got.Count(), orig.Count())
	}
	if moved := got.Find("0-b"); moved == nil || got.FindParent("0-b").ID != "0-a" {
		t.Error("moved subtree should keep its id under the new parent")
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if want := `{"a":{"k":1},"b":{"z":true}}`; encode(t, orig) != want {
		t.Errorf("input modified: %s", encode(t, orig))
	}
}

func TestReparentRejections(t *testing.T) {
	src := `{"a":{"k":1},"b":[1,2],"s":"leaf"}`
	tests := []struct {
		name      string
		node      string
		newParent string
		want      error
	}{
		{"unknown node", "0-nope", "0-a", ErrNodeNotFound},
		{"unknown parent", "0-a", "0-nope", ErrNodeNotFound},
		{"root", "0", "0-a", ErrRootMove},
		{"self", "0-a", "0-a", ErrCycle},
		{"into descendant", "0-a", "0-a-k", ErrCycle},
		{"leaf target", "0-a", "0-s", ErrLeafTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := parse(t, src)
			got, err := Reparent(orig, tt.node, tt.newParent)
			if !stderrors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if !IsRejected(err) {
				t.Errorf("code = %s, want EDIT_REJECTED", errors.GetCode(err))
			}
			if got != orig {
				t.Error("rejected edit must return the input tree")
			}
		})
	}
}

func TestReparentSameParentMovesToEnd(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		node      string
		newParent string
		want      string
	}{
		{"object child", `{"a":{"x":1},"b":2}`, "0-a", "0", `{"b":2,"a":{"x":1}}`},
		{"already last", `{"a":1,"b":{}}`, "0-b", "0", `{"a":1,"b":{}}`},
		{"array element", `{"l":[{"x":1},2]}`, "0-l-0", "0-l", `{"l":[null,2,{"x":1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := parse(t, tt.src)
			got, err := Reparent(orig, tt.node, tt.newParent)
			if err != nil {
				t.Fatalf("Reparent() error = %v", err)
			}
			if got == orig {
				t.Error("Reparent() returned the input tree, want a copy")
			}
			if s := encode(t, got); s != tt.want {
				t.Errorf("result = %s, want %s", s, tt.want)
			}
			parent := got.Find(tt.newParent)
			if last := parent.Children[len(parent.Children)-1]; last.ID != tt.node {
				t.Errorf("last child = %s, want %s", last.ID, tt.node)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestEditsKeepIDsUnique(t *testing.T) {
	src := `{"a-b":{"x":1,"l":[1,{"y":2},3]},"a":{"b":{"z":[4,5]}},"c~d":{}}`
	tests := []struct {
		name  string
		edits []edit.Edit
	}{
		{"move dash key under its look-alike", []edit.Edit{edit.Reparent("0-a~1b", "0-a-b")}},
		{"look-alike into dash key", []edit.Edit{edit.Reparent("0-a-b", "0-a~1b")}},
		{"sparse array after transfer", []edit.Edit{
			edit.Transfer("0-a~1b-l", "0-c~0d", 1),
			edit.Transfer("0-a-b-z", "0-a~1b-l", 0),
		}},
		{"array re-keyed back and forth", []edit.Edit{
			edit.Reparent("0-a-b", "0-a~1b-l"),
			edit.Reparent("0-a~1b-l-0", "0-a-b-z"),
			edit.Reparent("0-a-b", "0"),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur := parse(t, src)
			for i, e := range tt.edits {
				next, err := Apply(cur, e)
				if err != nil {
					t.Fatalf("edit %d (%s): %v", i, e, err)
				}
				cur = next
			}
			if err := cur.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
			if got, want := cur.Count(), parse(t, src).Count(); got != want {
				t.Errorf("Count() = %d, want %d", got, want)
			}
		})
	}
}

func TestReparentKeyFitting(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		node      string
		newParent string
		want      string
	}{
		{
			name: "object collision",
			src:  `{"a":{"name":1,"name_2":2},"b":{"name":{"x":1}}}`,
			node: "0-b-name", newParent: "0-a",
			want: `{"a":{"name":1,"name_2":2,"name_3":{"x":1}},"b":{}}`,
		},
		{
			name: "into array",
			src:  `{"list":[1,2],"o":{"x":1}}`,
			node: "0-o", newParent: "0-list",
			want: `{"list":[1,2,{"x":1}]}`,
		},
		{
			name: "out of array leaves a hole",
			src:  `{"list":[{"x":1},{"y":2},3],"o":{}}`,
			node: "0-list-1", newParent: "0-o",
			want: `{"list":[{"x":1},null,3],"o":{"1":{"y":2}}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reparent(parse(t, tt.src), tt.node, tt.newParent)
			if err != nil {
				t.Fatalf("Reparent() error = %v", err)
			}
			if s := encode(t, got); s != tt.want {
				t.Errorf("result = %s, want %s", s, tt.want)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestTransferProperty(t *testing.T) {
	orig := parse(t, `{"src":{"a":1,"b":{"c":2}},"dst":{"z":0}}`)

	got, err := TransferProperty(orig, "0-src", "0-dst", 1)
	if err != nil {
		t.Fatalf("TransferProperty() error = %v", err)
	}
	if want := `{"src":{"a":1},"dst":{"z":0,"b":{"c":2}}}`; encode(t, got) != want {
		t.Errorf("result = %s, want %s", encode(t, got), want)
	}

	srcBefore := len(orig.Find("0-src").Children)
	dstBefore := len(orig.Find("0-dst").Children)
	if n := len(got.Find("0-src").Children); n != srcBefore-1 {
		t.Errorf("source rows = %d, want %d", n, srcBefore-1)
	}
	if n := len(got.Find("0-dst").Children); n != dstBefore+1 {
		t.Errorf("target rows = %d, want %d", n, dstBefore+1)
	}
	if got.Count() != orig.Count() {
		t.Errorf("Count() = %d, want %d", got.Count(), orig.Count())
	}
}

func TestTransferPropertySelfIsNoop(t *testing.T) {
	orig := parse(t, `{"a":{"x":1,"y":2}}`)
	for i := range 2 {
		got, err := TransferProperty(orig, "0-a", "0-a", i)
		if err != nil {
			t.Errorf("row %d: err = %v, want nil", i, err)
		}
		if !got.Equal(orig) {
			t.Errorf("row %d: tree changed", i)
		}
	}
}

func TestTransferPropertyRejections(t *testing.T) {
	src := `{"a":{"x":1,"in":{"deep":{}}},"b":{},"s":"leaf"}`
	tests := []struct {
		name   string
		source string
		target string
		row    int
		want   error
	}{
		{"unknown source", "0-nope", "0-b", 0, ErrNodeNotFound},
		{"unknown target", "0-a", "0-nope", 0, ErrNodeNotFound},
		{"negative row", "0-a", "0-b", -1, ErrIndexOutOfRange},
		{"row past end", "0-a", "0-b", 2, ErrIndexOutOfRange},
		{"leaf target", "0-a", "0-s", 0, ErrLeafTarget},
		{"into moved subtree", "0-a", "0-a-in-deep", 1, ErrCycle},
		{"into moved node", "0-a", "0-a-in", 1, ErrCycle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := parse(t, src)
			got, err := TransferProperty(orig, tt.source, tt.target, tt.row)
			if !stderrors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if got != orig {
				t.Error("rejected edit must return the input tree")
			}
		})
	}
}

func TestApply(t *testing.T) {
	orig := parse(t, `{"a":{},"b":{"c":1}}`)

	got, err := Apply(orig, edit.Transfer("0-b", "0-a", 0))
	if err != nil {
		t.Fatalf("Apply(transfer) error = %v", err)
	}
	got, err = Apply(got, edit.Reparent("0-a", "0-b"))
	if err != nil {
		t.Fatalf("Apply(reparent) error = %v", err)
	}
	if want := `{"b":{"a":{"c":1}}}`; encode(t, got) != want {
		t.Errorf("result = %s, want %s", encode(t, got), want)
	}

	if _, err := Apply(orig, edit.Edit{Op: "rename"}); !errors.Is(err, errors.ErrCodeInvalidEdit) {
		t.Errorf("Apply(unknown) error = %v, want INVALID_EDIT", err)
	}
}

func TestFreeKey(t *testing.T) {
	obj := parse(t, `{"k":1,"k_2":2,"k_4":3}`)
	tests := []struct {
		key  string
		want string
	}{
		{"new", "new"},
		{"k", "k_3"},
		{"k_2", "k_2_2"},
	}
	for _, tt := range tests {
		if got := FreeKey(obj, tt.key); got != tt.want {
			t.Errorf("FreeKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
