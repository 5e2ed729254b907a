package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonflow/pkg/graph"
)

var (
	listCursorStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	listNormalStyle = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand opens the interactive node browser.
func (c *CLI) browseCommand() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "browse <file>",
		Short: "Browse the nodes of a document interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, format, err := readInput(cmd, args[0], input)
			if err != nil {
				return err
			}
			runner, closeCache, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer closeCache()

			opts := c.pipelineOptions()
			opts.Input = format
			g, _, err := runner.FlattenWithCacheInfo(ctx, data, opts)
			if err != nil {
				return err
			}

			prog := tea.NewProgram(newBrowseModel(g),
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err = prog.Run()
			return err
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "input format: json or yaml (default: from the file extension)")
	return cmd
}

// =============================================================================
// browseModel - node list with a row detail pane
// =============================================================================

// browseModel lists graph nodes. Enter toggles the rows of the node under
// the cursor; "/" starts typing a label filter.
type browseModel struct {
	nodes   []graph.Node
	visible []int // indices into nodes matching filter

	cursor int // index into visible
	offset int
	height int

	filter    string
	filtering bool
	open      bool
}

func newBrowseModel(g *graph.Graph) browseModel {
	m := browseModel{nodes: g.Nodes, height: 15}
	m.applyFilter()
	return m
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg), nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.open {
				m.open = false
				return m, nil
			}
			if m.filter != "" {
				m.filter = ""
				m.applyFilter()
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "enter":
			if len(m.visible) > 0 {
				m.open = !m.open
			}
		case "/":
			m.filtering = true
			m.open = false
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
		m.clampOffset()
	}
	return m, nil
}

func (m browseModel) updateFilter(msg tea.KeyMsg) browseModel {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.filtering = false
	case tea.KeyBackspace:
		if r := []rune(m.filter); len(r) > 0 {
			m.filter = string(r[:len(r)-1])
			m.applyFilter()
		}
	case tea.KeyRunes, tea.KeySpace:
		m.filter += string(msg.Runes)
		m.applyFilter()
	case tea.KeyCtrlC:
		m.filtering = false
	}
	return m
}

// applyFilter recomputes the visible nodes and resets the cursor.
func (m *browseModel) applyFilter() {
	m.visible = nil
	needle := strings.ToLower(m.filter)
	for i, n := range m.nodes {
		if needle == "" || strings.Contains(strings.ToLower(n.Label), needle) || strings.Contains(strings.ToLower(n.ID), needle) {
			m.visible = append(m.visible, i)
		}
	}
	m.cursor, m.offset = 0, 0
}

func (m *browseModel) move(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.visible) {
		return
	}
	m.cursor = next
	m.clampOffset()
}

func (m *browseModel) clampOffset() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

// selected returns the node under the cursor, or nil when nothing matches.
func (m browseModel) selected() *graph.Node {
	if len(m.visible) == 0 {
		return nil
	}
	return &m.nodes[m.visible[m.cursor]]
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Nodes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ rows  / filter  q quit"))
	b.WriteString("\n")
	switch {
	case m.filtering:
		b.WriteString(StyleHighlight.Render("/" + m.filter + "▏"))
	case m.filter != "":
		b.WriteString(listDimStyle.Render("filter: " + m.filter))
	}
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(listDimStyle.Render("  no matching nodes"))
		return b.String()
	}

	end := min(m.offset+m.height, len(m.visible))
	for i := m.offset; i < end; i++ {
		n := m.nodes[m.visible[i]]
		line := fmt.Sprintf("%-24s %s", n.ID, n.Label)
		if i == m.cursor {
			b.WriteString(listCursorStyle.Render("▸ " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("\n  [%d/%d]", m.cursor+1, len(m.visible))))

	if m.open {
		n := m.selected()
		b.WriteString("\n\n")
		if len(n.Rows) == 0 {
			b.WriteString(listDimStyle.Render("  " + n.ID + " has no rows"))
		} else {
			b.WriteString(rowsTable(n, 0).Render())
		}
	}
	return b.String()
}
