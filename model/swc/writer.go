package swc

import (
	"bytes"
	"fmt"
	"sort"
)

// Encode serialises the graph back to SWC text: recognised header fields
// first, then point records sorted by id with 4-decimal coordinates.
func (g *Graph) Encode() []byte {
	var buf bytes.Buffer
	for _, field := range HeaderFields {
		if value, ok := g.Metadata[field]; ok {
			fmt.Fprintf(&buf, "# %s %s\n", field, value)
		}
	}

	nodes := make([]*Node, len(g.Nodes))
	copy(nodes, g.Nodes)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	for _, node := range nodes {
		fmt.Fprintf(&buf, "%d %d %.4f %.4f %.4f %.4f %d\n",
			node.ID, node.Type, node.X, node.Y, node.Z, node.Radius, node.ParentID)
	}
	return buf.Bytes()
}
