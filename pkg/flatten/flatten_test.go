package flatten

import (
	"reflect"
	"testing"

	"github.com/matzehuels/jsonflow/pkg/codec"
	"github.com/matzehuels/jsonflow/pkg/graph"
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

func TestScenarioArraySummary(t *testing.T) {
	g := Tree(parse(t, `{ "a": 1, "b": [true, null] }`))

	root := g.Root()
	if root == nil || root.ID != tree.RootID {
		t.Fatalf("Root() = %v, want node 0", root)
	}
	wantRows := []graph.Row{
		{Key: "a", Value: 1.0, Kind: tree.KindLeaf},
		{Key: "b", Value: "[2 items]", Kind: tree.KindArray, ConnectionID: "0-b"},
	}
	if !reflect.DeepEqual(root.Rows, wantRows) {
		t.Errorf("root rows = %+v, want %+v", root.Rows, wantRows)
	}

	wantEdges := []graph.Edge{
		{ID: "0->0-b-0", Source: "0", ConnectionID: "0-b", Target: "0-b-0"},
		{ID: "0->0-b-1", Source: "0", ConnectionID: "0-b", Target: "0-b-1"},
	}
	if !reflect.DeepEqual(g.Edges, wantEdges) {
		t.Errorf("edges = %+v, want %+v", g.Edges, wantEdges)
	}

	if n := g.Node("0-b"); n != nil {
		t.Error("arrays must not get an intermediate node")
	}
	if n := g.Node("0-b-0"); n == nil || n.Label != "b [0]: true" || n.Value != true || len(n.Rows) != 0 {
		t.Errorf("element node = %+v", n)
	}
	if n := g.Node("0-b-1"); n == nil || n.Label != "b [1]: null" || n.Value != nil {
		t.Errorf("element node = %+v", n)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestObjectChild(t *testing.T) {
	g := Tree(parse(t, `{"user":{"name":"ada","age":36},"ok":true}`))

	if len(g.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(g.Nodes))
	}
	root := g.Nodes[0]
	if root.Rows[0].Value != "{2 keys}" || root.Rows[0].ConnectionID != "0-user" {
		t.Errorf("summary row = %+v", root.Rows[0])
	}
	if root.Rows[1].Value != true || root.Rows[1].IsBranch() {
		t.Errorf("leaf row = %+v", root.Rows[1])
	}

	user := g.Nodes[1]
	if user.ID != "0-user" || user.Label != "user" || user.IsRoot {
		t.Errorf("object node = %+v", user)
	}
	if got := []string{user.Rows[0].Key, user.Rows[1].Key}; !reflect.DeepEqual(got, []string{"name", "age"}) {
		t.Errorf("row order = %v", got)
	}
	if len(g.Edges) != 1 || g.Edges[0].Target != "0-user" || g.Edges[0].ConnectionID != "0-user" {
		t.Errorf("edges = %+v", g.Edges)
	}
}

func TestArrayOfObjects(t *testing.T) {
	g := Tree(parse(t, `{"users":[{"name":"ada"},{"name":"bob","pets":["cat"]}]}`))

	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	want := []string{"0", "0-users-0", "0-users-1", "0-users-1-pets-0"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("node order = %v, want %v", ids, want)
	}
	if n := g.Node("0-users-1"); n.Label != "users [1]" || len(n.Rows) != 2 {
		t.Errorf("element = %+v", n)
	}
	if n := g.Node("0-users-1-pets-0"); n.Label != "pets [0]: cat" {
		t.Errorf("nested element label = %q", n.Label)
	}
	out := g.Outgoing("0-users-1")
	if len(out) != 1 || out[0].ConnectionID != "0-users-1-pets" {
		t.Errorf("outgoing = %+v", out)
	}
}

func TestNestedArrays(t *testing.T) {
	g := Tree(parse(t, `{"m":[[1,2],[]]}`))
	inner := g.Node("0-m-0")
	if inner == nil || inner.Kind != tree.KindArray || inner.Label != "m [0]" {
		t.Fatalf("inner = %+v", inner)
	}
	if len(inner.Rows) != 2 || inner.Rows[1].Key != "1" || inner.Rows[1].Value != 2.0 {
		t.Errorf("inner rows = %+v", inner.Rows)
	}
	if empty := g.Node("0-m-1"); empty == nil || len(empty.Rows) != 0 {
		t.Errorf("empty element = %+v", empty)
	}
}

func TestEmptyContainersAreRows(t *testing.T) {
	g := Tree(parse(t, `{"o":{},"a":[]}`))
	if len(g.Nodes) != 1 || len(g.Edges) != 0 {
		t.Fatalf("got %d nodes %d edges, want 1 and 0", len(g.Nodes), len(g.Edges))
	}
	want := []graph.Row{
		{Key: "o", Value: EmptyObject, Kind: tree.KindObject},
		{Key: "a", Value: EmptyArray, Kind: tree.KindArray},
	}
	if !reflect.DeepEqual(g.Nodes[0].Rows, want) {
		t.Errorf("rows = %+v, want %+v", g.Nodes[0].Rows, want)
	}
}

func TestRootAlwaysMaterialized(t *testing.T) {
	tests := []struct {
		src       string
		wantLabel string
		wantKind  tree.Kind
	}{
		{`{}`, "root", tree.KindObject},
		{`[]`, "root", tree.KindArray},
		{`42`, "root", tree.KindLeaf},
		{`[1]`, "root", tree.KindArray},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			g := Tree(parse(t, tt.src))
			roots := 0
			for _, n := range g.Nodes {
				if n.IsRoot {
					roots++
				}
			}
			if roots != 1 {
				t.Errorf("roots = %d, want 1", roots)
			}
			if r := g.Nodes[0]; !r.IsRoot || r.Label != tt.wantLabel || r.Kind != tt.wantKind {
				t.Errorf("root = %+v", r)
			}
		})
	}

	if g := Tree(nil); len(g.Nodes) != 0 {
		t.Error("Tree(nil) should be empty")
	}
}

func TestDashKeysGetDistinctNodes(t *testing.T) {
	g := Tree(parse(t, `{"a-b":{"x":1},"a":{"b":{"y":2}}}`))
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if len(g.Nodes) != 4 {
		t.Errorf("nodes = %d, want 4", len(g.Nodes))
	}
	root := g.Root()
	if got := root.Rows[0].ConnectionID; got != "0-a~1b" {
		t.Errorf("a-b connection = %q, want 0-a~1b", got)
	}
	if n := g.Node("0-a~1b"); n == nil || n.Label != "a-b" {
		t.Errorf("Node(0-a~1b) = %+v, want the a-b card", n)
	}
	if n := g.Node("0-a-b"); n == nil || n.Label != "b" {
		t.Errorf("Node(0-a-b) = %+v, want the nested b card", n)
	}
}

func TestIdempotent(t *testing.T) {
	root := parse(t, `{"a":{"b":[1,{"c":null}]},"d":"x","e":[[]]}`)
	g1 := Tree(root)
	g2 := Tree(root)
	if !reflect.DeepEqual(g1, g2) {
		t.Errorf("flatten is not deterministic:\n%+v\n%+v", g1, g2)
	}
}

func TestCounts(t *testing.T) {
	root := parse(t, `{"a":{"b":[1,{"c":null}]},"d":"x","e":[[]]}`)
	g := Tree(root)

	// root, a, b[0], b[1], e[0]
	if len(g.Nodes) != 5 {
		t.Errorf("nodes = %d, want 5", len(g.Nodes))
	}
	if len(g.Edges) != len(g.Nodes)-1 {
		t.Errorf("edges = %d, want %d (every non-root node has one incoming edge)", len(g.Edges), len(g.Nodes)-1)
	}
	idx := tree.NewIndex(root)
	for _, n := range g.Nodes {
		if !idx.Has(n.ID) {
			t.Errorf("graph node %s has no tree node", n.ID)
		}
	}
}

func TestElementLabel(t *testing.T) {
	if got := ElementLabel("tags", tree.NewLeaf("0-tags-3", "3", tree.StringValue("go"))); got != "tags [3]: go" {
		t.Errorf("ElementLabel(leaf) = %q", got)
	}
	if got := ElementLabel("tags", tree.NewObject("0-tags-3", "3")); got != "tags [3]" {
		t.Errorf("ElementLabel(object) = %q", got)
	}
}
