package swc

import (
	"fmt"
	"log"
)

// HeaderFields lists the canonical SWC header fields; anything else in the
// header is ignored.
var HeaderFields = []string{
	"ORIGINAL_SOURCE",
	"CREATURE",
	"REGION",
	"FIELD/LAYER",
	"TYPE",
	"CONTRIBUTOR",
	"REFERENCE",
	"RAW",
	"EXTRAS",
	"SOMA_AREA",
	"SHRINKAGE_CORRECTION",
	"VERSION_NUMBER",
	"VERSION_DATE",
	"SCALE",
}

// Graph holds a parsed SWC morphology: a single-rooted tree of nodes plus
// the recognised header metadata.
type Graph struct {
	Nodes    []*Node
	Root     *Node
	Metadata map[string]string

	byID map[int]*Node
}

// NewGraph creates an empty SWC graph.
func NewGraph() *Graph {
	return &Graph{
		Metadata: make(map[string]string),
		byID:     make(map[int]*Node),
	}
}

// AddNode attaches a node to the graph, wiring it to its parent. It returns
// an error on a duplicate id, a second root or a missing parent.
func (g *Graph) AddNode(node *Node) error {
	if _, ok := g.byID[node.ID]; ok {
		return fmt.Errorf("duplicate node ID: %d", node.ID)
	}
	if node.ParentID == -1 {
		if g.Root != nil {
			return fmt.Errorf("attempted to add multiple root nodes, only one root node is allowed")
		}
		g.Root = node
	} else {
		parent, ok := g.byID[node.ParentID]
		if !ok {
			return fmt.Errorf("parent node %d not found for node %d", node.ParentID, node.ID)
		}
		parent.children = append(parent.children, node)
	}
	g.Nodes = append(g.Nodes, node)
	g.byID[node.ID] = node
	return nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id int) (*Node, error) {
	node, ok := g.byID[id]
	if !ok {
		return nil, fmt.Errorf("node %d not found in the SWC tree", id)
	}
	return node, nil
}

// AddMetadata records a header field; unrecognised fields are dropped.
func (g *Graph) AddMetadata(key, value string) {
	for _, field := range HeaderFields {
		if field == key {
			g.Metadata[key] = value
			return
		}
	}
	log.Printf("ignoring unrecognized header field: %v: %v", key, value)
}

// Parent returns the parent of the given node, or nil for the root.
func (g *Graph) Parent(id int) (*Node, error) {
	node, err := g.Node(id)
	if err != nil {
		return nil, err
	}
	if node.ParentID == -1 {
		return nil, nil
	}
	return g.Node(node.ParentID)
}

// Children returns the direct children of the given node.
func (g *Graph) Children(id int) ([]*Node, error) {
	node, err := g.Node(id)
	if err != nil {
		return nil, err
	}
	return node.children, nil
}

// NodesOfType returns all nodes with the given structure type.
func (g *Graph) NodesOfType(typeID int) []*Node {
	var nodes []*Node
	for _, node := range g.Nodes {
		if node.Type == typeID {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// MultiChildNodes returns nodes with more than one child, optionally
// restricted to a structure type (pass a negative type to disable the
// filter).
func (g *Graph) MultiChildNodes(typeID int) []*Node {
	var nodes []*Node
	for _, node := range g.Nodes {
		if len(node.children) > 1 && (typeID < 0 || node.Type == typeID) {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// BranchPoints returns all branch points grouped by the requested structure
// types; with no types given, the flat list of all branch points is keyed
// under -1.
func (g *Graph) BranchPoints(types ...int) map[int][]*Node {
	result := make(map[int][]*Node)
	if len(types) == 0 {
		result[-1] = g.MultiChildNodes(-1)
		return result
	}
	for _, typeID := range types {
		result[typeID] = g.MultiChildNodes(typeID)
	}
	return result
}
