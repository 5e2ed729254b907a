package graph

import (
	"bytes"
	"fmt"
	"io"
	"os"

	gojson "github.com/goccy/go-json"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// Marshal converts a Graph to indented JSON bytes.
func Marshal(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(&buf, g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a Graph and validates it.
func Unmarshal(data []byte) (Graph, error) {
	return readFrom(bytes.NewReader(data))
}

// Write writes a Graph as JSON to an io.Writer.
func Write(w io.Writer, g Graph) error {
	return writeTo(w, g)
}

// WriteFile writes a Graph to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(f, g)
}

// Read decodes a JSON graph from an io.Reader.
func Read(r io.Reader) (Graph, error) {
	return readFrom(r)
}

// ReadFile reads a JSON file and returns the decoded Graph.
func ReadFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readFrom(f)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTo(w io.Writer, g Graph) error {
	if g.Nodes == nil {
		g.Nodes = []Node{}
	}
	if g.Edges == nil {
		g.Edges = []Edge{}
	}
	enc := gojson.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readFrom(r io.Reader) (Graph, error) {
	var g Graph
	if err := gojson.NewDecoder(r).Decode(&g); err != nil {
		return Graph{}, fmt.Errorf("decode: %w", err)
	}
	if err := g.Validate(); err != nil {
		return Graph{}, fmt.Errorf("validate: %w", err)
	}
	return g, nil
}
