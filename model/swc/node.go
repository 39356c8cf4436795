package swc

import "fmt"

// Structure type identifiers defined by the SWC specification
// (https://swc-specification.readthedocs.io/en/latest/swc.html).
const (
	Undefined          = 0
	Soma               = 1
	Axon               = 2
	BasalDendrite      = 3
	ApicalDendrite     = 4
	Custom             = 5
	UnspecifiedNeurite = 6
	GliaProcesses      = 7
)

// TypeNames maps structure type identifiers to their display names.
var TypeNames = map[int]string{
	Undefined:          "Undefined",
	Soma:               "Soma",
	Axon:               "Axon",
	BasalDendrite:      "Basal Dendrite",
	ApicalDendrite:     "Apical Dendrite",
	Custom:             "Custom",
	UnspecifiedNeurite: "Unspecified Neurite",
	GliaProcesses:      "Glia Processes",
}

// TypeName returns the display name for a structure type, falling back to
// Custom_<n> for non-standard types.
func TypeName(typeID int) string {
	if name, ok := TypeNames[typeID]; ok {
		return name
	}
	return fmt.Sprintf("Custom_%d", typeID)
}

// Node represents a single sample point in an SWC morphology: a typed 3D
// point with a radius and a parent pointer. A parent of -1 marks the root.
type Node struct {
	ID       int
	Type     int
	X        float64
	Y        float64
	Z        float64
	Radius   float64
	ParentID int

	children []*Node
}

// Children returns the nodes directly attached to this node.
func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) String() string {
	return fmt.Sprintf("Node ID: %d, Type: %s, Coordinates: (%.2f, %.2f, %.2f), Radius: %.2f, Parent ID: %d",
		n.ID, TypeName(n.Type), n.X, n.Y, n.Z, n.Radius, n.ParentID)
}
