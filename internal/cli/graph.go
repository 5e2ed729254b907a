package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonflow/pkg/codec"
	"github.com/matzehuels/jsonflow/pkg/graph"
	"github.com/matzehuels/jsonflow/pkg/pipeline"
)

// flattenCommand prints the graph of a document.
func (c *CLI) flattenCommand() *cobra.Command {
	var f ioFlags
	cmd := &cobra.Command{
		Use:   "flatten <file>",
		Short: "Print the node graph of a document as JSON",
		Long: `Flatten decodes a document and prints its graph: one node per object,
array and array element, with a property row per child and an edge from
every branch row to the node it summarizes. Use "-" to read stdin.`,
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
			prog := newProgress(loggerFromContext(ctx))
			g, hit, err := runner.FlattenWithCacheInfo(ctx, data, opts)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Flattened %d nodes", len(g.Nodes)))

			out, err := graph.Marshal(*g)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd, f.output, out); err != nil {
				return err
			}
			reportGraph(cmd, "graph", f.output, g, hit)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

// layoutCommand prints the graph together with node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		f         ioFlags
		direction string
		align     string
	)
	cmd := &cobra.Command{
		Use:   "layout <file>",
		Short: "Print the graph of a document with node positions",
		Args:  cobra.ExactArgs(1),
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
			if direction != "" {
				opts.Direction = direction
			}
			if align != "" {
				opts.Align = align
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			g, flatHit, err := runner.FlattenWithCacheInfo(ctx, data, opts)
			if err != nil {
				return err
			}
			l, layoutHit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
			if err != nil {
				return err
			}
			out, err := graph.MarshalLayout(l)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd, f.output, out); err != nil {
				return err
			}
			reportGraph(cmd, "layout", f.output, g, flatHit && layoutHit)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&direction, "direction", "", "layout direction: LR or TB")
	cmd.Flags().StringVar(&align, "align", "", "parent alignment: center or start")
	return cmd
}

// formatCommand re-encodes a document as indented JSON.
func (c *CLI) formatCommand() *cobra.Command {
	var (
		f       ioFlags
		compact bool
	)
	cmd := &cobra.Command{
		Use:   "format <file>",
		Short: "Re-encode a document as JSON",
		Long: `Format decodes a JSON or YAML document and writes it back as JSON indented
with two spaces. Key order is kept; duplicate keys are resolved the same
way the editor resolves them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, format, err := readInput(cmd, args[0], f.input)
			if err != nil {
				return err
			}
			root, err := pipeline.Decode(ctx, data, format)
			if err != nil {
				return err
			}
			indent := codec.DefaultIndent
			if compact {
				indent = ""
			}
			out, err := codec.MarshalIndent(root, indent)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd, f.output, out); err != nil {
				return err
			}
			if toFile(f.output) {
				status(cmd).success("Formatted %d nodes", root.Count())
				status(cmd).file(f.output)
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&compact, "compact", false, "write without indentation")
	return cmd
}
