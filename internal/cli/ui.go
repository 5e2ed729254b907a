package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/jsonflow/pkg/document"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // primary
	colorGreen  = lipgloss.Color("35")  // success, added
	colorYellow = lipgloss.Color("220") // warnings, moved
	colorRed    = lipgloss.Color("167") // errors, removed
	colorBlue   = lipgloss.Color("75")  // ids
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// =============================================================================
// Styles
// =============================================================================

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleID        = lipgloss.NewStyle().Foreground(colorBlue)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleKey      = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// changeStyles colors a document change by kind.
var changeStyles = map[document.ChangeKind]lipgloss.Style{
	document.Added:   lipgloss.NewStyle().Foreground(colorGreen),
	document.Removed: lipgloss.NewStyle().Foreground(colorRed),
	document.Moved:   lipgloss.NewStyle().Foreground(colorYellow),
	document.Changed: lipgloss.NewStyle().Foreground(colorCyan),
}

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printer writes status lines. Commands point it at stderr so that
// documents and graphs written to stdout stay machine readable.
type printer struct {
	w io.Writer
}

func (p printer) line(s string) {
	fmt.Fprintln(p.w, s)
}

func (p printer) success(format string, args ...any) {
	p.line(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func (p printer) error(format string, args ...any) {
	p.line(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func (p printer) warning(format string, args ...any) {
	p.line(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (p printer) info(format string, args ...any) {
	p.line(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

func (p printer) detail(format string, args ...any) {
	p.line("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func (p printer) file(path string) {
	p.line("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func (p printer) keyValue(key, value string) {
	p.line(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// stats prints graph counts on one line, e.g. "4 nodes · 3 edges · fresh".
func (p printer) stats(nodes, edges, rows int, cached bool) {
	parts := []string{
		fmt.Sprintf("%d nodes", nodes),
		fmt.Sprintf("%d edges", edges),
		fmt.Sprintf("%d rows", rows),
	}
	status := styleComputed.Render(iconFresh)
	if cached {
		status = styleCached.Render(iconCached)
	}
	for i := range parts {
		parts[i] = StyleDim.Render(parts[i])
	}
	parts = append(parts, status)
	p.line("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// change prints one document change, e.g. "moved 0-b  b → a.b".
func (p printer) change(c document.Change) {
	style, ok := changeStyles[c.Kind]
	if !ok {
		style = StyleValue
	}
	path := c.Path
	if c.Kind == document.Moved {
		path = c.OldPath + " " + iconArrow + " " + c.Path
	}
	p.line("  " + style.Render(fmt.Sprintf("%-7s", c.Kind)) + " " + StyleID.Render(c.ID) + "  " + StyleDim.Render(path))
}
