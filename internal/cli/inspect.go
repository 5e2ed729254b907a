package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonflow/pkg/graph"
	"github.com/matzehuels/jsonflow/pkg/render"
)

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

// inspectCommand prints the nodes and property rows of a document.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		f           ioFlags
		nodeID      string
		maxValueLen int
	)
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "List the nodes, rows and connection ids of a document",
		Long: `Inspect prints one table row per property row of the flattened graph.
The NODE and ROW columns are the ids and indices that "reparent" and
"transfer" take.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, format, err := readInput(cmd, args[0], f.input)
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

			nodes := g.Nodes
			if nodeID != "" {
				n := g.Node(nodeID)
				if n == nil {
					return fmt.Errorf("node %q not found", nodeID)
				}
				nodes = []graph.Node{*n}
			}
			out := graphTable(nodes, maxValueLen).Render()
			if err := writeOutput(cmd, f.output, []byte(out)); err != nil {
				return err
			}
			s := g.Stats()
			status(cmd).stats(s.Nodes, s.Edges, s.Rows, false)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&nodeID, "node", "", "only show this node")
	cmd.Flags().IntVar(&maxValueLen, "max-value-len", 0, "truncate displayed values to this many characters")
	return cmd
}

// graphTable lays out one line per property row. Nodes without rows get
// a single line so every node id is listed.
func graphTable(nodes []graph.Node, maxValueLen int) *table.Table {
	var rows [][]string
	for _, n := range nodes {
		if len(n.Rows) == 0 {
			rows = append(rows, []string{n.ID, n.Label, "", "", "", ""})
			continue
		}
		for i, r := range n.Rows {
			id, label := n.ID, n.Label
			if i > 0 {
				id, label = "", ""
			}
			rows = append(rows, []string{id, label, strconv.Itoa(i), r.Key, render.RowValueText(r, maxValueLen), r.ConnectionID})
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("NODE", "LABEL", "ROW", "KEY", "VALUE", "CONNECTION").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == 0 || col == 5:
				return StyleID
			case col == 2:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
}

// rowsTable lays out the property rows of a single node.
func rowsTable(n *graph.Node, maxValueLen int) *table.Table {
	rows := make([][]string, 0, len(n.Rows))
	for i, r := range n.Rows {
		rows = append(rows, []string{strconv.Itoa(i), r.Key, render.RowValueText(r, maxValueLen), r.ConnectionID})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ROW", "KEY", "VALUE", "CONNECTION").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if col == 3 {
				return StyleID
			}
			return lipgloss.NewStyle()
		})
}
