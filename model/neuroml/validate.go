package neuroml

import "fmt"

// Validate performs structural validation of the document and returns the
// full list of issues found rather than stopping at the first one.
func (d *Document) Validate() []error {
	var issues []error
	if d.ID == "" {
		issues = append(issues, fmt.Errorf("document id must not be empty"))
	}
	for _, cell := range d.Cells {
		if cell.ID == "" {
			issues = append(issues, fmt.Errorf("cell id must not be empty"))
		}
		if cell.Morphology == nil {
			issues = append(issues, fmt.Errorf("cell %v: morphology missing", cell.ID))
			continue
		}
		issues = append(issues, validateMorphology(cell.Morphology)...)
	}
	for _, morphology := range d.Morphologies {
		issues = append(issues, validateMorphology(morphology)...)
	}
	return issues
}

func validateMorphology(m *Morphology) []error {
	var issues []error
	if m.ID == "" {
		issues = append(issues, fmt.Errorf("morphology id must not be empty"))
	}

	seen := make(map[int]*Segment, len(m.Segments))
	for _, segment := range m.Segments {
		if _, ok := seen[segment.ID]; ok {
			issues = append(issues, fmt.Errorf("morphology %v: duplicate segment id %d", m.ID, segment.ID))
			continue
		}
		seen[segment.ID] = segment
		if segment.Distal == nil {
			issues = append(issues, fmt.Errorf("morphology %v: segment %d has no distal point", m.ID, segment.ID))
		}
	}

	roots := 0
	for _, segment := range m.Segments {
		if segment.Parent == nil {
			roots++
			continue
		}
		if _, ok := seen[segment.Parent.Segment]; !ok {
			issues = append(issues, fmt.Errorf("morphology %v: segment %d references missing parent %d",
				m.ID, segment.ID, segment.Parent.Segment))
		}
		if segment.Parent.Segment == segment.ID {
			issues = append(issues, fmt.Errorf("morphology %v: segment %d is its own parent", m.ID, segment.ID))
		}
	}
	if len(m.Segments) > 0 && roots == 0 {
		issues = append(issues, fmt.Errorf("morphology %v: no root segment", m.ID))
	}
	if roots > 1 {
		issues = append(issues, fmt.Errorf("morphology %v: %d root segments, expected exactly one", m.ID, roots))
	}

	// parent chains must terminate at a root
	for _, segment := range m.Segments {
		visited := map[int]bool{segment.ID: true}
		current := segment
		for current.Parent != nil {
			next, ok := seen[current.Parent.Segment]
			if !ok {
				break
			}
			if visited[next.ID] {
				issues = append(issues, fmt.Errorf("morphology %v: segment parent cycle involving segment %d", m.ID, segment.ID))
				break
			}
			visited[next.ID] = true
			current = next
		}
	}

	for _, group := range m.SegmentGroups {
		for _, member := range group.Members {
			if _, ok := seen[member.Segment]; !ok {
				issues = append(issues, fmt.Errorf("morphology %v: group %v references missing segment %d",
					m.ID, group.ID, member.Segment))
			}
		}
		for _, include := range group.Includes {
			if m.Group(include.SegmentGroup) == nil {
				issues = append(issues, fmt.Errorf("morphology %v: group %v includes missing group %v",
					m.ID, group.ID, include.SegmentGroup))
			}
		}
	}
	return issues
}
