package graph

import (
	"fmt"
	"os"

	gojson "github.com/goccy/go-json"
)

// =============================================================================
// Dimensions - Node Sizing Constants
// =============================================================================

// Dimensions are the sizing constants a layout engine applies to nodes.
type Dimensions struct {
	NodeWidth    float64 `json:"node_width" toml:"node_width"`
	HeaderHeight float64 `json:"header_height" toml:"header_height"`
	RowHeight    float64 `json:"row_height" toml:"row_height"`
	VPadding     float64 `json:"v_padding" toml:"v_padding"`
}

// Default sizing, matching the editor front end.
const (
	DefaultNodeWidth    = 300.0
	DefaultHeaderHeight = 28.0
	DefaultRowHeight    = 24.0
	DefaultVPadding     = 16.0
)

// DefaultDimensions returns the default sizing constants.
func DefaultDimensions() Dimensions {
	return Dimensions{
		NodeWidth:    DefaultNodeWidth,
		HeaderHeight: DefaultHeaderHeight,
		RowHeight:    DefaultRowHeight,
		VPadding:     DefaultVPadding,
	}
}

// =============================================================================
// Layout - Positioned Graph
// =============================================================================

// Direction values for [Layout.Direction].
const (
	DirectionLR = "LR"
	DirectionTB = "TB"
)

// Layout is a graph plus the position of every node. Positions are the
// top-left corner of each node box.
type Layout struct {
	Direction  string      `json:"direction"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Placements []Placement `json:"placements"`
	Graph      Graph       `json:"graph"`
}

// Placement is the box assigned to one node.
type Placement struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Rank   int     `json:"rank"`
}

// Center returns the box's center point.
func (p Placement) Center() (float64, float64) {
	return p.X + p.Width/2, p.Y + p.Height/2
}

// Placement returns the placement for the node with the given id.
func (l *Layout) Placement(id string) (Placement, bool) {
	for _, p := range l.Placements {
		if p.ID == id {
			return p, true
		}
	}
	return Placement{}, false
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return gojson.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Every graph node must have a placement.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := gojson.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Direction == "" {
		l.Direction = DirectionLR
	}
	if err := l.Graph.Validate(); err != nil {
		return Layout{}, fmt.Errorf("layout graph: %w", err)
	}
	for _, n := range l.Graph.Nodes {
		if _, ok := l.Placement(n.ID); !ok {
			return Layout{}, fmt.Errorf("layout has no placement for node %s", n.ID)
		}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
