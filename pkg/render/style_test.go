package render

import (
	"testing"

	"github.com/matzehuels/jsonflow/pkg/graph"
	"github.com/matzehuels/jsonflow/pkg/tree"
)

func TestHSLToHex(t *testing.T) {
	tests := []struct {
		h, s, l float64
		want    string
	}{
		{0, 1, 0.5, "#ff0000"},
		{120, 1, 0.5, "#00ff00"},
		{240, 1, 0.5, "#0000ff"},
		{0, 0, 1, "#ffffff"},
		{0, 0.6, 0.4, "#a32929"},
	}
	for _, tt := range tests {
		if got := HSLToHex(tt.h, tt.s, tt.l); got != tt.want {
			t.Errorf("HSLToHex(%v, %v, %v) = %s, want %s", tt.h, tt.s, tt.l, got, tt.want)
		}
	}
}

func TestKeyColorFor(t *testing.T) {
	// "a" hashes to 97, so the hue is 97.
	if got, want := KeyColorFor("a"), HSLToHex(97, 0.6, 0.4); got != want {
		t.Errorf("KeyColorFor(a) = %s, want %s", got, want)
	}
	if KeyColorFor("users") != KeyColorFor("users") {
		t.Error("KeyColorFor must be deterministic")
	}
	// Long keys overflow 32 bits and must still yield a valid hue.
	if c := KeyColorFor("a-really-long-key-that-overflows-the-hash"); len(c) != 7 || c[0] != '#' {
		t.Errorf("KeyColorFor(long) = %q", c)
	}
}

func TestStylerHeaderColor(t *testing.T) {
	g := &graph.Graph{
		Nodes: []graph.Node{
			{ID: "0", IsRoot: true, Rows: []graph.Row{
				{Key: "o", Kind: tree.KindObject, ConnectionID: "0-o"},
				{Key: "tags", Kind: tree.KindArray, ConnectionID: "0-tags"},
			}},
			{ID: "0-o"},
			{ID: "0-tags-0"},
		},
		Edges: []graph.Edge{
			{ID: "0->0-o", Source: "0", ConnectionID: "0-o", Target: "0-o"},
			{ID: "0->0-tags-0", Source: "0", ConnectionID: "0-tags", Target: "0-tags-0"},
		},
	}
	s := NewStyler(g)
	tests := []struct {
		id   string
		want string
	}{
		{"0", RootColor},
		{"0-o", ObjectColor},
		{"0-tags-0", KeyColorFor("tags")},
	}
	for _, tt := range tests {
		if got := s.HeaderColor(g.Node(tt.id)); got != tt.want {
			t.Errorf("HeaderColor(%s) = %s, want %s", tt.id, got, tt.want)
		}
	}
}

func TestRowValueText(t *testing.T) {
	tests := []struct {
		row  graph.Row
		max  int
		want string
	}{
		{graph.Row{Value: "hi", Kind: tree.KindLeaf}, 0, `"hi"`},
		{graph.Row{Value: 1.5, Kind: tree.KindLeaf}, 0, "1.5"},
		{graph.Row{Value: nil, Kind: tree.KindLeaf}, 0, "null"},
		{graph.Row{Value: "[2 items]", Kind: tree.KindArray, ConnectionID: "0-b"}, 0, "[2 items]"},
		{graph.Row{Value: "abcdefgh", Kind: tree.KindLeaf}, 5, `"abc…`},
	}
	for _, tt := range tests {
		if got := RowValueText(tt.row, tt.max); got != tt.want {
			t.Errorf("RowValueText(%+v) = %q, want %q", tt.row, got, tt.want)
		}
	}
}

func TestValueColor(t *testing.T) {
	tests := []struct {
		v    any
		want string
	}{
		{1.0, NumberColor},
		{true, TrueColor},
		{false, FalseColor},
		{"s", TextColor},
		{nil, TextColor},
	}
	for _, tt := range tests {
		if got := ValueColor(tt.v); got != tt.want {
			t.Errorf("ValueColor(%v) = %s, want %s", tt.v, got, tt.want)
		}
	}
}
