package flow

import (
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/jsonflow/pkg/codec"
	"github.com/matzehuels/jsonflow/pkg/flatten"
	"github.com/matzehuels/jsonflow/pkg/graph"
	"github.com/matzehuels/jsonflow/pkg/layout"
	"github.com/matzehuels/jsonflow/pkg/render"
)

func computed(t *testing.T, src string, opts layout.Options) graph.Layout {
	t.Helper()
	root, err := codec.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	l, err := layout.Compute(flatten.Tree(root), opts)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	return l
}

func TestRenderSVG(t *testing.T) {
	l := computed(t, `{"name":"ada","pets":[{"kind":"cat"}],"ok":true}`, layout.Options{})
	svg := string(RenderSVG(l))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`) || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatalf("not a complete svg document:\n%s", svg)
	}
	if got := strings.Count(svg, `class="node"`); got != 2 {
		t.Errorf("nodes = %d, want 2", got)
	}
	if got := strings.Count(svg, `class="edge"`); got != 1 {
		t.Errorf("edges = %d, want 1", got)
	}
	for _, want := range []string{
		`fill="` + render.RootColor + `"`,
		`fill="` + render.KeyColorFor("pets") + `"`,
		`&#34;ada&#34;`,
		`fill="` + render.TrueColor + `"`,
		`>[1 items]<`,
		`id="edge-0-&gt;0-pets-0"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestRenderSVGEdgeAnchors(t *testing.T) {
	l := computed(t, `{"a":1,"b":{"c":2}}`, layout.Options{})
	svg := string(RenderSVG(l, WithMargin(0)))

	root, _ := l.Placement("0")
	child, _ := l.Placement("0-b")
	d := graph.DefaultDimensions()
	// Row 1 of the root, into the child's header.
	y1 := root.Y + d.HeaderHeight + d.VPadding/2 + d.RowHeight*1.5
	start := fmt.Sprintf("M 300.0 %.1f", y1)
	if !strings.Contains(svg, start) {
		t.Errorf("edge should start at %q:\n%s", start, svg)
	}
	end := fmt.Sprintf(`%.1f %.1f"`, child.X, child.Y+d.HeaderHeight/2)
	if !strings.Contains(svg, end) {
		t.Errorf("edge should end at %q", end)
	}
}

func TestRenderSVGOptions(t *testing.T) {
	l := computed(t, `{"long":"`+strings.Repeat("x", 100)+`"}`, layout.Options{Direction: graph.DirectionTB})
	svg := string(RenderSVG(l, WithMaxValueLen(8), WithBackground("#000000"), WithMargin(5)))
	if strings.Contains(svg, strings.Repeat("x", 10)) {
		t.Error("WithMaxValueLen did not truncate")
	}
	if !strings.Contains(svg, `fill="#000000"`) {
		t.Error("WithBackground not applied")
	}
	if !strings.Contains(svg, `translate(5.0 5.0)`) {
		t.Error("WithMargin not applied")
	}
}
