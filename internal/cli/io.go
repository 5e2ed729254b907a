package cli

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonflow/pkg/codec"
	"github.com/matzehuels/jsonflow/pkg/errors"
	"github.com/matzehuels/jsonflow/pkg/graph"
)

// stdio is the path that selects stdin or stdout.
const stdio = "-"

// ioFlags are shared by commands that read one document and write one
// result.
type ioFlags struct {
	input  string
	output string
}

func (f *ioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.input, "input", "", "input format: json or yaml (default: from the file extension)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
}

// readInput reads path, or stdin for "-", and returns its contents with
// the input format: the explicit one, else one guessed from the extension.
func readInput(cmd *cobra.Command, path, format string) ([]byte, string, error) {
	var (
		data []byte
		err  error
	)
	if path == stdio {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	if format == "" {
		format = codec.FormatFromPath(path)
	}
	return data, format, nil
}

// writeOutput writes data to path, or to stdout for "" and "-". Output to
// stdout always ends with a newline.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == stdio {
		w := cmd.OutOrStdout()
		if _, err := w.Write(data); err != nil {
			return err
		}
		if !bytes.HasSuffix(data, []byte("\n")) {
			_, err := io.WriteString(w, "\n")
			return err
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// toFile reports whether path names a file rather than stdout.
func toFile(path string) bool {
	return path != "" && path != stdio
}

// basePath strips the extension from an input path to name outputs; stdin
// yields the application name.
func basePath(input string) string {
	if input == stdio || input == "" {
		return appName
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// status returns a printer for status lines on stderr.
func status(cmd *cobra.Command) printer {
	return printer{w: cmd.ErrOrStderr()}
}

// reportGraph prints where a graph went and its counts.
func reportGraph(cmd *cobra.Command, what, path string, g *graph.Graph, cached bool) {
	if !toFile(path) {
		return
	}
	p := status(cmd)
	s := g.Stats()
	p.success("Wrote %s", what)
	p.file(path)
	p.stats(s.Nodes, s.Edges, s.Rows, cached)
}
