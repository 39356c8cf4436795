package neuroml

// NeuroLexSection is the NeuroLex ontology id tagging unbranched segment
// groups as neuronal sections.
const NeuroLexSection = "sao864921383"

// Cell is a NeuroML cell with its morphology.
type Cell struct {
	ID         string      `xml:"id,attr"`
	Notes      string      `xml:"notes,omitempty"`
	Properties []*Property `xml:"property"`
	Morphology *Morphology `xml:"morphology"`
}

// Property is a free-form tag/value annotation.
type Property struct {
	Tag   string `xml:"tag,attr"`
	Value string `xml:"value,attr"`
}

// Morphology holds segments and their groupings.
type Morphology struct {
	ID            string          `xml:"id,attr"`
	Notes         string          `xml:"notes,omitempty"`
	Segments      []*Segment      `xml:"segment"`
	SegmentGroups []*SegmentGroup `xml:"segmentGroup"`
}

// Segment is a frustum between two 3D points with diameters. A nil proximal
// point inherits the parent segment's distal point.
type Segment struct {
	ID       int              `xml:"id,attr"`
	Name     string           `xml:"name,attr,omitempty"`
	Parent   *SegmentParent   `xml:"parent"`
	Proximal *Point3DWithDiam `xml:"proximal"`
	Distal   *Point3DWithDiam `xml:"distal"`
}

// SegmentParent attaches a segment to its parent at fractionAlong (default 1,
// the distal end).
type SegmentParent struct {
	Segment       int      `xml:"segment,attr"`
	FractionAlong *float64 `xml:"fractionAlong,attr,omitempty"`
}

// Point3DWithDiam is a 3D point with a diameter.
type Point3DWithDiam struct {
	X        float64 `xml:"x,attr"`
	Y        float64 `xml:"y,attr"`
	Z        float64 `xml:"z,attr"`
	Diameter float64 `xml:"diameter,attr"`
}

// SegmentGroup tags a set of segments, by direct membership or by including
// other groups.
type SegmentGroup struct {
	ID         string          `xml:"id,attr"`
	NeuroLexID string          `xml:"neuroLexId,attr,omitempty"`
	Members    []*Member       `xml:"member"`
	Includes   []*GroupInclude `xml:"include"`
}

// Member references a segment by id.
type Member struct {
	Segment int `xml:"segment,attr"`
}

// GroupInclude references another segment group by id.
type GroupInclude struct {
	SegmentGroup string `xml:"segmentGroup,attr"`
}

// Segment returns the segment with the given id, or nil.
func (m *Morphology) Segment(id int) *Segment {
	for _, segment := range m.Segments {
		if segment.ID == id {
			return segment
		}
	}
	return nil
}

// RootSegments returns segments without a parent.
func (m *Morphology) RootSegments() []*Segment {
	var roots []*Segment
	for _, segment := range m.Segments {
		if segment.Parent == nil {
			roots = append(roots, segment)
		}
	}
	return roots
}

// ChildrenOf returns the segments whose parent is the given segment id.
func (m *Morphology) ChildrenOf(id int) []*Segment {
	var children []*Segment
	for _, segment := range m.Segments {
		if segment.Parent != nil && segment.Parent.Segment == id {
			children = append(children, segment)
		}
	}
	return children
}

// Group returns the segment group with the given id, or nil.
func (m *Morphology) Group(id string) *SegmentGroup {
	for _, group := range m.SegmentGroups {
		if group.ID == id {
			return group
		}
	}
	return nil
}
