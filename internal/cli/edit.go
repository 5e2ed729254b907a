package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonflow/pkg/document"
	"github.com/matzehuels/jsonflow/pkg/edit"
	"github.com/matzehuels/jsonflow/pkg/errors"
	"github.com/matzehuels/jsonflow/pkg/pipeline"
)

// editFlags are shared by the commands that change a document.
type editFlags struct {
	ioFlags
	inPlace bool
	dryRun  bool
	partial bool
}

func (f *editFlags) register(cmd *cobra.Command) {
	f.ioFlags.register(cmd)
	cmd.Flags().BoolVarP(&f.inPlace, "in-place", "w", false, "write the result back to the input file")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "print the changes without writing the document")
}

// reparentCommand moves a subtree under a new parent.
func (c *CLI) reparentCommand() *cobra.Command {
	var f editFlags
	cmd := &cobra.Command{
		Use:   "reparent <file> <node> <new-parent>",
		Short: "Move a node and its subtree under another node",
		Long: `Reparent moves the node with the given id, with everything below it,
under new-parent. Node ids are the ones printed by "flatten" and "inspect".
Moving a node under itself or one of its descendants is rejected.`,
		Example: `  jsonflow reparent users.json 0-users-1 0-archive -w`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdits(cmd, args[0], []edit.Edit{edit.Reparent(args[1], args[2])}, f)
		},
	}
	f.register(cmd)
	return cmd
}

// transferCommand moves one property row between nodes.
func (c *CLI) transferCommand() *cobra.Command {
	var f editFlags
	cmd := &cobra.Command{
		Use:   "transfer <file> <source> <target> <row>",
		Short: "Move one property of a node to another node",
		Long: `Transfer moves the child at row index <row> of <source> to <target>.
Rows are numbered from 0 in the order "inspect" lists them. A key that
already exists on the target is renamed with a numeric suffix; moving into
an array appends the child under the next free index.`,
		Example: `  jsonflow transfer config.json 0-server 0-defaults 2`,
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := strconv.Atoi(args[3])
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "row %q is not a number", args[3])
			}
			return c.runEdits(cmd, args[0], []edit.Edit{edit.Transfer(args[1], args[2], row)}, f)
		},
	}
	f.register(cmd)
	return cmd
}

// applyCommand runs an edit script.
func (c *CLI) applyCommand() *cobra.Command {
	var (
		f         editFlags
		editsPath string
	)
	cmd := &cobra.Command{
		Use:   "apply <file> --edits <script>",
		Short: "Apply an edit script to a document",
		Long: `Apply runs a YAML or JSON list of reparent and transfer edits in order.

  - op: reparent
    node: 0-users-1
    parent: 0-archive
  - op: transfer
    source: 0-users-0
    target: 0-archive
    row: 2

If an edit is rejected the document is rolled back and nothing is written,
unless --partial is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edits, err := edit.ReadFile(editsPath)
			if err != nil {
				return err
			}
			return c.runEdits(cmd, args[0], edits, f)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&editsPath, "edits", "", "edit script (.yaml, .yml or .json)")
	cmd.Flags().BoolVar(&f.partial, "partial", false, "keep the edits applied before a rejected one")
	_ = cmd.MarkFlagRequired("edits")
	return cmd
}

// runEdits applies edits to the document at path and writes the result.
func (c *CLI) runEdits(cmd *cobra.Command, path string, edits []edit.Edit, f editFlags) error {
	if f.inPlace && path == stdio {
		return errors.New(errors.ErrCodeInvalidInput, "--in-place needs a file, not stdin")
	}
	if f.inPlace && toFile(f.output) {
		return errors.New(errors.ErrCodeInvalidInput, "--in-place and --output are exclusive")
	}
	for i, e := range edits {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("edit %d: %w", i+1, err)
		}
	}

	ctx := cmd.Context()
	data, format, err := readInput(cmd, path, f.input)
	if err != nil {
		return err
	}
	if f.inPlace && format != pipeline.InputJSON {
		return errors.New(errors.ErrCodeInvalidInput, "--in-place rewrites JSON only; use --output for %s input", format)
	}
	root, err := pipeline.Decode(ctx, data, format)
	if err != nil {
		return err
	}

	logger := loggerFromContext(ctx)
	doc := document.New(root, document.WithHistoryLimit(max(document.DefaultHistoryLimit, len(edits))))
	n, applyErr := doc.ApplyAll(edits)
	p := status(cmd)
	if applyErr != nil {
		applyErr = fmt.Errorf("edit %d (%s): %w", n+1, edits[n], applyErr)
		if !f.partial {
			for doc.CanUndo() {
				if _, err := doc.Undo(); err != nil {
					return err
				}
			}
			return applyErr
		}
		p.warning("%v", applyErr)
	}
	logger.Debug("applied edits", "applied", n, "total", len(edits))

	steps := doc.History()
	changes := 0
	for _, s := range steps {
		changes += len(s.Changes)
	}
	if f.dryRun || toFile(f.output) || f.inPlace {
		p.info("%d of %d edits applied, %d changes", n, len(edits), changes)
		for _, s := range steps {
			for _, ch := range s.Changes {
				p.change(ch)
			}
		}
	}
	if f.dryRun {
		return nil
	}

	out, err := doc.Text()
	if err != nil {
		return err
	}
	dest := f.output
	if f.inPlace {
		dest = path
	}
	if err := writeOutput(cmd, dest, out); err != nil {
		return err
	}
	if toFile(dest) {
		p.success("Wrote document")
		p.file(dest)
	}
	return nil
}
