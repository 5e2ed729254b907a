// Package graph provides the flat node/edge projection of a JSON tree and
// its serialization.
//
// This package defines the wire format that front ends, the HTTP API and
// the cache exchange. It holds no tree logic: pkg/flatten produces a
// [Graph] from a tree, pkg/layout adds positions as a separate [Layout].
//
// # Core Types
//
//   - [Graph]: the nodes and edges for one tree
//   - [Node]: one materialized tree node with its inlined property rows
//   - [Row]: one property line, either a leaf value or a branch summary
//   - [Edge]: a link from a summary row's connection point to a node
//   - [Layout], [Placement]: positions assigned by a layout engine
//
// # Wire Format
//
//	{
//	  "nodes": [
//	    {"id": "0", "label": "root", "kind": "object", "isRoot": true,
//	     "rows": [{"key": "a", "value": 1, "kind": "leaf"},
//	              {"key": "b", "value": "[2 items]", "kind": "array", "connectionId": "0-b"}]},
//	    {"id": "0-b-0", "label": "b [0]: true", "kind": "leaf", "value": true, "rows": []}
//	  ],
//	  "edges": [
//	    {"id": "0->0-b-0", "sourceNodeId": "0", "sourceConnectionId": "0-b", "targetNodeId": "0-b-0"}
//	  ]
//	}
//
// Common operations:
//
//	data, _ := graph.Marshal(g)           // Graph → []byte
//	g, _ := graph.Unmarshal(data)         // []byte → Graph
//	graph.WriteFile(g, "graph.json")      // Graph → File
//	g, _ = graph.ReadFile("graph.json")   // File → Graph
//
// # Sizing
//
// A node's height is derived from its row count: a fixed header, one fixed
// unit per row, and vertical padding (see [Dimensions] and [Node.Height]).
// Nothing in this package assigns coordinates.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
