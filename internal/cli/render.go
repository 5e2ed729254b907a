package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonflow/pkg/pipeline"
)

// renderFlags holds the render command's options.
type renderFlags struct {
	ioFlags
	formats     string
	renderer    string
	direction   string
	scale       float64
	maxValueLen int
	showIDs     bool
}

// renderCommand draws a document in one or more formats.
func (c *CLI) renderCommand() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a document as SVG, PNG, PDF, DOT or layout JSON",
		Long: `Render runs the full pipeline (decode, flatten, layout, render) and writes
one file per format next to the input, or to the base path given with -o.

With a single format, "-o -" writes the artifact to stdout.`,
		Example: `  jsonflow render config.json
  jsonflow render config.json -f svg,png --scale 3
  jsonflow render data.yaml -f dot --renderer nodelink -o out/data`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], f)
		},
	}
	f.ioFlags.register(cmd)
	cmd.Flags().StringVarP(&f.formats, "format", "f", pipeline.FormatSVG, "comma-separated output formats: svg, png, pdf, dot, json")
	cmd.Flags().StringVar(&f.renderer, "renderer", pipeline.DefaultRenderer, "renderer: flow or nodelink")
	cmd.Flags().StringVar(&f.direction, "direction", "", "layout direction: LR or TB")
	cmd.Flags().Float64Var(&f.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().IntVar(&f.maxValueLen, "max-value-len", 0, "truncate displayed values to this many characters")
	cmd.Flags().BoolVar(&f.showIDs, "show-ids", false, "print node ids in headers")
	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, f renderFlags) error {
	ctx := cmd.Context()
	data, format, err := readInput(cmd, path, f.input)
	if err != nil {
		return err
	}

	opts := c.pipelineOptions()
	opts.Input = format
	opts.Formats = parseFormats(f.formats)
	opts.Renderer = f.renderer
	opts.Scale = f.scale
	opts.MaxValueLen = f.maxValueLen
	opts.ShowIDs = f.showIDs
	if f.direction != "" {
		opts.Direction = f.direction
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	if f.output == stdio && len(opts.Formats) != 1 {
		return fmt.Errorf("writing to stdout needs exactly one format, got %d", len(opts.Formats))
	}

	runner, closeCache, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer closeCache()

	p := status(cmd)
	spin := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering...")
	spin.Start()
	result, err := runner.Execute(ctx, data, opts)
	spin.Stop()
	if err != nil {
		if spin.Cancelled() {
			return ctx.Err()
		}
		return err
	}

	if f.output == stdio {
		return writeOutput(cmd, stdio, result.Artifacts[opts.Formats[0]])
	}

	base := f.output
	if base == "" {
		base = basePath(path)
	}
	formats := make([]string, 0, len(result.Artifacts))
	for format := range result.Artifacts {
		formats = append(formats, format)
	}
	sort.Strings(formats)

	p.success("Rendered %s", path)
	for _, format := range formats {
		out := base + "." + format
		if err := writeOutput(cmd, out, result.Artifacts[format]); err != nil {
			return err
		}
		p.file(out)
	}
	p.stats(result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.RowCount, result.CacheInfo.RenderHit)
	return nil
}
