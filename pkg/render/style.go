package render

import (
	"fmt"
	"math"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/matzehuels/jsonflow/pkg/codec"
	"github.com/matzehuels/jsonflow/pkg/graph"
	"github.com/matzehuels/jsonflow/pkg/tree"
)

// Theme colors shared by the renderers.
const (
	RootColor       = "#6a1b9a"
	ObjectColor     = "#388e3c"
	BodyColor       = "#212121"
	KeyColor        = "#90caf9"
	TextColor       = "#ffffff"
	NumberColor     = "#ffd54f"
	TrueColor       = "#66bb6a"
	FalseColor      = "#ef5350"
	RowBorderColor  = "#444444"
	EdgeColor       = "#888888"
	DefaultValueLen = 40
)

// Styler picks header colors for the nodes of one graph. Array elements
// are colored by the name of their array so siblings share a color; other
// nodes use the root or object color.
type Styler struct {
	arrayOf map[string]string
}

// NewStyler indexes g's edges to find which nodes are array elements.
func NewStyler(g *graph.Graph) *Styler {
	s := &Styler{arrayOf: make(map[string]string)}
	nodes := make(map[string]*graph.Node, len(g.Nodes))
	for i := range g.Nodes {
		nodes[g.Nodes[i].ID] = &g.Nodes[i]
	}
	for _, e := range g.Edges {
		src := nodes[e.Source]
		if src == nil {
			continue
		}
		if i := src.RowByConnection(e.ConnectionID); i >= 0 && src.Rows[i].Kind == tree.KindArray {
			s.arrayOf[e.Target] = src.Rows[i].Key
		}
	}
	return s
}

// HeaderColor returns the header color of n as #rrggbb.
func (s *Styler) HeaderColor(n *graph.Node) string {
	if n.IsRoot {
		return RootColor
	}
	if name, ok := s.arrayOf[n.ID]; ok {
		return KeyColorFor(name)
	}
	return ObjectColor
}

// KeyColorFor derives a stable color from a key: the 31-multiplier string
// hash of its UTF-16 code units picks the hue of hsl(h, 60%, 40%).
func KeyColorFor(key string) string {
	var h int64
	for _, cu := range utf16.Encode([]rune(key)) {
		shifted := int64(int32(uint32(int32(h)) << 5))
		h = int64(cu) + (shifted - h)
	}
	if h < 0 {
		h = -h
	}
	return HSLToHex(float64(h%360), 0.6, 0.4)
}

// HSLToHex converts a hue in degrees and saturation/lightness in [0,1] to
// #rrggbb.
func HSLToHex(h, s, l float64) string {
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	to8 := func(v float64) int { return int(math.Round((v + m) * 255)) }
	return fmt.Sprintf("#%02x%02x%02x", to8(r), to8(g), to8(b))
}

// ValueColor returns the text color for a row value.
func ValueColor(v any) string {
	switch x := v.(type) {
	case float64:
		return NumberColor
	case bool:
		if x {
			return TrueColor
		}
		return FalseColor
	}
	return TextColor
}

// RowValueText renders a row value for display. Leaf values are shown as
// JSON (strings quoted); summaries of branches and empty containers are
// shown as is. Text longer than maxLen runes is cut with an ellipsis;
// maxLen <= 0 uses DefaultValueLen.
func RowValueText(r graph.Row, maxLen int) string {
	var text string
	if r.Kind == tree.KindLeaf {
		b, err := codec.MarshalValue(r.Value, "")
		if err != nil {
			text = r.Text()
		} else {
			text = string(b)
		}
	} else {
		text = r.Text()
	}
	return Truncate(text, maxLen)
}

// Truncate shortens s to at most maxLen runes, ending in "…" when cut.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultValueLen
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}
