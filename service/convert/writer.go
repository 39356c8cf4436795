package convert

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/neuroml/gonml/model/neuroml"
	"github.com/neuroml/gonml/model/swc"
)

// sectionTypes maps SWC structure types to segment naming prefixes.
var sectionTypes = []string{"undefined", "soma", "axon", "basal dendrite", "apical dendrite"}

// groupOrder fixes the emission order of the semantic segment groups.
var groupOrder = []string{"all", "soma_group", "axon_group", "dendrite_group", "basal_dendrite", "apical_dendrite"}

// Writer converts an SWC graph into a NeuroML cell morphology. Points are
// walked from the root and assigned to cables: unbranched runs of segments
// that split at branch points and structure-type changes. Soma points follow
// the NeuroMorpho standardised representations (single point, three point
// cylinder, multi-point cable).
type Writer struct {
	graph      *swc.Graph
	somaPoints []*swc.Node
	origin     string

	cell     *neuroml.Cell
	document *neuroml.Document

	segmentForPoint map[int]int
	segmentTypes    map[int]int
	nextSegmentID   int
	processed       map[int]bool

	// deferred holds points already consumed as the distal end of a segment
	// created while processing their parent; their subtrees still need the
	// walk, but no segment of their own.
	deferred map[int]bool

	groups map[string]map[int]bool
}

// NewWriter creates a Writer for the given SWC graph.
func NewWriter(graph *swc.Graph) *Writer {
	origin := graph.Metadata["ORIGINAL_SOURCE"]
	if origin == "" {
		origin = "Unknown"
	}
	writer := &Writer{
		graph:           graph,
		somaPoints:      graph.NodesOfType(swc.Soma),
		origin:          origin,
		segmentForPoint: make(map[int]int),
		segmentTypes:    make(map[int]int),
		processed:       make(map[int]bool),
		deferred:        make(map[int]bool),
		groups:          make(map[string]map[int]bool),
	}
	for _, name := range groupOrder {
		writer.groups[name] = make(map[int]bool)
	}
	return writer
}

// Generate runs the conversion and returns the NeuroML document. With
// standaloneMorphology set, the morphology is emitted as a top level object
// instead of being embedded in a cell.
func (w *Writer) Generate(standaloneMorphology bool) (*neuroml.Document, error) {
	if w.document != nil {
		return w.document, nil
	}
	if len(w.graph.Nodes) < 2 {
		return nil, fmt.Errorf("SWC has fewer than two points, cannot convert")
	}
	if w.graph.Root == nil {
		return nil, fmt.Errorf("SWC has no root point, cannot convert")
	}

	w.createCell()
	if err := w.parseTree(w.graph.Root, w.graph.Root); err != nil {
		return nil, err
	}
	w.createSegmentGroups()

	w.document = neuroml.NewDocument(w.cell.ID)
	if standaloneMorphology {
		w.document.Morphologies = append(w.document.Morphologies, w.cell.Morphology)
	} else {
		w.document.Cells = append(w.document.Cells, w.cell)
	}
	return w.document, nil
}

func (w *Writer) createCell() {
	name := w.cellName()
	w.cell = &neuroml.Cell{
		ID: name,
		Morphology: &neuroml.Morphology{
			ID:    "morphology_" + name,
			Notes: fmt.Sprintf("Neuronal morphology converted from SWC. Original file: %v", w.origin),
		},
	}
}

// cellName derives the cell id from the morphology origin file name.
func (w *Writer) cellName() string {
	base := path.Base(strings.ReplaceAll(w.origin, "\\", "/"))
	name := strings.TrimSuffix(base, ".swc")
	name = strings.ReplaceAll(name, ".", "_")
	name = strings.ReplaceAll(name, "-", "_")
	if name == "" {
		return "cell1"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "Cell_" + name
	}
	return name
}

// parseTree recursively walks the SWC tree creating segments.
func (w *Writer) parseTree(parentPoint, thisPoint *swc.Node) error {
	if w.processed[thisPoint.ID] && !w.deferred[thisPoint.ID] {
		return nil
	}

	if thisPoint.Type == swc.Soma {
		w.handleSoma(thisPoint)
	} else if !w.deferred[thisPoint.ID] {
		if err := w.createSegment(parentPoint, thisPoint); err != nil {
			return err
		}
	}
	w.processed[thisPoint.ID] = true

	for _, child := range thisPoint.Children() {
		if !w.processed[child.ID] {
			if err := w.parseTree(thisPoint, child); err != nil {
				return err
			}
		}
	}
	return nil
}

// handleSoma creates soma segments following the NeuroMorpho soma
// representations: a single point becomes a sphere, three points become two
// cylinders around the middle point and longer runs become a cylinder per
// consecutive pair. Only the triggering point is marked processed here; the
// remaining soma points can still root subtrees and are walked separately.
func (w *Writer) handleSoma(thisPoint *swc.Node) {
	if w.processed[thisPoint.ID] {
		return
	}

	switch {
	case len(w.somaPoints) == 1:
		segment := w.newTypedSegment(swc.Soma)
		segment.Proximal = pointOf(thisPoint)
		segment.Distal = pointOf(thisPoint)
		w.segmentForPoint[thisPoint.ID] = segment.ID
		w.processed[thisPoint.ID] = true

	case len(w.somaPoints) == 3:
		if thisPoint.ID != w.somaPoints[0].ID {
			// already consumed by the first soma point
			return
		}
		middle, end := w.somaPoints[1], w.somaPoints[2]

		first := w.newTypedSegment(swc.Soma)
		first.Proximal = pointOf(middle)
		first.Distal = pointOf(thisPoint)
		w.segmentForPoint[thisPoint.ID] = first.ID
		w.segmentForPoint[middle.ID] = first.ID
		w.processed[thisPoint.ID] = true

		second := w.newTypedSegment(swc.Soma)
		second.Parent = &neuroml.SegmentParent{Segment: first.ID}
		second.Distal = pointOf(end)
		w.segmentForPoint[end.ID] = second.ID

	case len(w.somaPoints) > 3:
		if thisPoint.ID != w.somaPoints[0].ID {
			return
		}
		for i := 0; i < len(w.somaPoints)-1; i++ {
			current, next := w.somaPoints[i], w.somaPoints[i+1]
			segment := w.newTypedSegment(swc.Soma)
			if i == 0 {
				segment.Proximal = pointOf(current)
			} else {
				segment.Parent = &neuroml.SegmentParent{Segment: segment.ID - 1}
			}
			segment.Distal = pointOf(next)
			w.segmentForPoint[current.ID] = segment.ID
		}
		w.processed[thisPoint.ID] = true
		w.segmentForPoint[w.somaPoints[len(w.somaPoints)-1].ID] = w.nextSegmentID - 1
	}
}

// createSegment creates a segment for a non-soma point.
//
// Cases:
//  1. the first point of a soma-less tree becomes a zero length segment with
//     identical proximal and distal points;
//  2. a point whose parent is a soma point starts a new cable: the point is
//     the proximal end and its first child the distal end, with the child
//     deferred (walked, but no segment of its own);
//  3. everything else extends the parent cable with a distal-only segment
//     attached at fractionAlong 1.
func (w *Writer) createSegment(parentPoint, thisPoint *swc.Node) error {
	isFirstPoint := parentPoint == thisPoint
	isTypeChange := thisPoint.Type != parentPoint.Type
	isParentSoma := parentPoint.Type == swc.Soma

	switch {
	case isFirstPoint:
		segment := w.newTypedSegment(thisPoint.Type)
		segment.Proximal = pointOf(thisPoint)
		segment.Distal = pointOf(thisPoint)
		w.segmentForPoint[thisPoint.ID] = segment.ID

	case isParentSoma && isTypeChange:
		children := thisPoint.Children()
		if len(children) == 0 {
			return fmt.Errorf("point %v attaches to soma but has no child to span a segment", thisPoint)
		}
		secondPoint := children[0]

		parentID, ok := w.segmentForPoint[parentPoint.ID]
		if !ok {
			return fmt.Errorf("parent segment not found for %v", thisPoint)
		}
		segment := w.newTypedSegment(thisPoint.Type)
		segment.Parent = &neuroml.SegmentParent{Segment: parentID, FractionAlong: floatPtr(1)}
		segment.Proximal = pointOf(thisPoint)
		segment.Distal = pointOf(secondPoint)
		w.segmentForPoint[thisPoint.ID] = segment.ID
		w.segmentForPoint[secondPoint.ID] = segment.ID
		w.deferred[secondPoint.ID] = true

	default:
		parentID, ok := w.segmentForPoint[parentPoint.ID]
		if !ok {
			return fmt.Errorf("parent segment not found for %v", thisPoint)
		}
		segment := w.newTypedSegment(thisPoint.Type)
		segment.Parent = &neuroml.SegmentParent{Segment: parentID, FractionAlong: floatPtr(1)}
		segment.Distal = pointOf(thisPoint)
		w.segmentForPoint[thisPoint.ID] = segment.ID
	}

	w.processed[thisPoint.ID] = true
	return nil
}

// newTypedSegment appends a segment named after the structure type and adds
// it to the semantic groups.
func (w *Writer) newTypedSegment(segmentType int) *neuroml.Segment {
	segment := &neuroml.Segment{
		ID:   w.nextSegmentID,
		Name: fmt.Sprintf("%s_Seg_%d", segmentTypeName(segmentType), w.nextSegmentID),
	}
	w.cell.Morphology.Segments = append(w.cell.Morphology.Segments, segment)
	w.segmentTypes[segment.ID] = segmentType
	for _, group := range groupsForType(segmentType) {
		w.groups[group][segment.ID] = true
	}
	w.nextSegmentID++
	return segment
}

func segmentTypeName(segmentType int) string {
	if segmentType >= 0 && segmentType < len(sectionTypes) {
		return strings.ReplaceAll(sectionTypes[segmentType], " ", "_")
	}
	return fmt.Sprintf("type_%d", segmentType)
}

// groupsForType returns the semantic groups a segment of the given SWC type
// belongs to.
func groupsForType(segmentType int) []string {
	groups := []string{"all"}
	switch segmentType {
	case swc.Soma:
		groups = append(groups, "soma_group")
	case swc.Axon:
		groups = append(groups, "axon_group")
	case swc.BasalDendrite:
		groups = append(groups, "basal_dendrite", "dendrite_group")
	case swc.ApicalDendrite:
		groups = append(groups, "apical_dendrite", "dendrite_group")
	default:
		if segmentType >= swc.Custom {
			groups = append(groups, "dendrite_group")
		}
	}
	return groups
}

// createSegmentGroups emits the semantic groups, the unbranched cable groups
// and the provenance property.
func (w *Writer) createSegmentGroups() {
	if len(w.segmentTypes) == 0 {
		return
	}

	for _, name := range groupOrder {
		members := w.groups[name]
		if len(members) == 0 {
			continue
		}
		group := &neuroml.SegmentGroup{ID: name}
		for _, id := range sortedIDs(members) {
			group.Members = append(group.Members, &neuroml.Member{Segment: id})
		}
		w.cell.Morphology.SegmentGroups = append(w.cell.Morphology.SegmentGroups, group)
	}

	w.createUnbranchedGroups(w.rootSegmentID())

	w.cell.Properties = append(w.cell.Properties, &neuroml.Property{Tag: "cell_type", Value: "converted_from_swc"})
}

// rootSegmentID picks the lowest soma segment id, falling back to the lowest
// segment id for soma-less morphologies.
func (w *Writer) rootSegmentID() int {
	root := -1
	for id, segmentType := range w.segmentTypes {
		if segmentType != swc.Soma {
			continue
		}
		if root == -1 || id < root {
			root = id
		}
	}
	if root != -1 {
		return root
	}
	for id := range w.segmentTypes {
		if root == -1 || id < root {
			root = id
		}
	}
	return root
}

// createUnbranchedGroups walks the segment tree from the root and creates
// one seg_group_<n> per unbranched run, splitting at branch points.
func (w *Writer) createUnbranchedGroups(rootID int) {
	morphology := w.cell.Morphology
	children := make(map[int][]int)
	for _, segment := range morphology.Segments {
		if segment.Parent != nil {
			children[segment.Parent.Segment] = append(children[segment.Parent.Segment], segment.ID)
		}
	}
	for _, ids := range children {
		sort.Ints(ids)
	}

	count := 0
	var walk func(start int)
	walk = func(start int) {
		group := &neuroml.SegmentGroup{
			ID:         fmt.Sprintf("seg_group_%d", count),
			NeuroLexID: neuroml.NeuroLexSection,
		}
		count++
		morphology.SegmentGroups = append(morphology.SegmentGroups, group)

		current := start
		for {
			group.Members = append(group.Members, &neuroml.Member{Segment: current})
			next := children[current]
			if len(next) != 1 {
				for _, branch := range next {
					walk(branch)
				}
				return
			}
			current = next[0]
		}
	}
	if morphology.Segment(rootID) != nil {
		walk(rootID)
	}
}

func pointOf(node *swc.Node) *neuroml.Point3DWithDiam {
	return &neuroml.Point3DWithDiam{X: node.X, Y: node.Y, Z: node.Z, Diameter: 2 * node.Radius}
}

func sortedIDs(set map[int]bool) []int {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func floatPtr(value float64) *float64 { return &value }
