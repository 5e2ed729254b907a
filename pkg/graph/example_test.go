package graph_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/jsonflow/pkg/graph"
)

func ExampleRead() {
	jsonData := `{
		"nodes": [
			{"id": "0", "label": "root", "kind": "object", "isRoot": true,
			 "rows": [{"key": "name", "value": "ada", "kind": "leaf"},
			          {"key": "pets", "value": "[1 items]", "kind": "array", "connectionId": "0-pets"}]},
			{"id": "0-pets-0", "label": "pets [0]: cat", "kind": "leaf", "value": "cat", "rows": []}
		],
		"edges": [
			{"id": "0->0-pets-0", "sourceNodeId": "0", "sourceConnectionId": "0-pets", "targetNodeId": "0-pets-0"}
		]
	}`

	g, err := graph.Read(strings.NewReader(jsonData))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	root := g.Root()
	for _, r := range root.Rows {
		fmt.Printf("%s = %s (branch: %v)\n", r.Key, r.Text(), r.IsBranch())
	}
	fmt.Println("height:", root.Height(graph.DefaultDimensions()))
	// Output:
	// name = ada (branch: false)
	// pets = [1 items] (branch: true)
	// height: 92
}
