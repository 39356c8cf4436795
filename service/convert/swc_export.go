package convert

import (
	"fmt"
	"sort"

	"github.com/neuroml/gonml/model/neuroml"
	"github.com/neuroml/gonml/model/swc"
)

// groupTypes maps semantic group ids back to SWC structure types; more
// specific groups take precedence over dendrite_group.
var groupTypes = []struct {
	group  string
	typeID int
}{
	{"soma_group", swc.Soma},
	{"axon_group", swc.Axon},
	{"basal_dendrite", swc.BasalDendrite},
	{"apical_dendrite", swc.ApicalDendrite},
	{"dendrite_group", swc.BasalDendrite},
}

// ExportSWC converts a NeuroML morphology back into an SWC graph. Each
// segment contributes its distal point; root segments additionally
// contribute their proximal point as the SWC root. Structure types are
// recovered from semantic group membership.
func ExportSWC(morphology *neuroml.Morphology, origin string) (*swc.Graph, error) {
	if morphology == nil || len(morphology.Segments) == 0 {
		return nil, fmt.Errorf("morphology has no segments to export")
	}

	types := make(map[int]int)
	for _, entry := range groupTypes {
		group := morphology.Group(entry.group)
		if group == nil {
			continue
		}
		for _, member := range group.Members {
			if _, ok := types[member.Segment]; !ok {
				types[member.Segment] = entry.typeID
			}
		}
	}

	segments := make([]*neuroml.Segment, len(morphology.Segments))
	copy(segments, morphology.Segments)
	sort.Slice(segments, func(i, j int) bool { return segments[i].ID < segments[j].ID })

	graph := swc.NewGraph()
	if origin != "" {
		graph.Metadata["ORIGINAL_SOURCE"] = origin
	}

	nodeID := 0
	nodeForSegment := make(map[int]int)
	addNode := func(point *neuroml.Point3DWithDiam, typeID, parentNode int) (int, error) {
		nodeID++
		node := &swc.Node{
			ID:       nodeID,
			Type:     typeID,
			X:        point.X,
			Y:        point.Y,
			Z:        point.Z,
			Radius:   point.Diameter / 2,
			ParentID: parentNode,
		}
		if err := graph.AddNode(node); err != nil {
			return 0, err
		}
		return nodeID, nil
	}

	for _, segment := range segments {
		typeID := types[segment.ID]
		if segment.Distal == nil {
			return nil, fmt.Errorf("segment %d has no distal point", segment.ID)
		}
		parentNode := -1
		if segment.Parent == nil {
			if segment.Proximal != nil && *segment.Proximal != *segment.Distal {
				proximalNode, err := addNode(segment.Proximal, typeID, -1)
				if err != nil {
					return nil, err
				}
				parentNode = proximalNode
			}
		} else {
			node, ok := nodeForSegment[segment.Parent.Segment]
			if !ok {
				return nil, fmt.Errorf("segment %d references missing parent segment %d", segment.ID, segment.Parent.Segment)
			}
			parentNode = node
		}

		distalNode, err := addNode(segment.Distal, typeID, parentNode)
		if err != nil {
			return nil, err
		}
		nodeForSegment[segment.ID] = distalNode
	}
	return graph, nil
}
