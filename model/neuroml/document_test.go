package neuroml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func testCell() *Cell {
	return &Cell{
		ID: "cell0",
		Morphology: &Morphology{
			ID: "morphology_cell0",
			Segments: []*Segment{
				{
					ID:       0,
					Name:     "soma_Seg_0",
					Proximal: &Point3DWithDiam{Diameter: 10},
					Distal:   &Point3DWithDiam{Diameter: 10},
				},
				{
					ID:     1,
					Name:   "axon_Seg_1",
					Parent: &SegmentParent{Segment: 0, FractionAlong: floatPtr(1)},
					Distal: &Point3DWithDiam{Y: 20, Diameter: 2},
				},
			},
			SegmentGroups: []*SegmentGroup{
				{ID: "all", Members: []*Member{{Segment: 0}, {Segment: 1}}},
				{ID: "soma_group", Members: []*Member{{Segment: 0}}},
			},
		},
	}
}

func TestDocumentEncode(t *testing.T) {
	document := NewDocument("cell0")
	document.Cells = append(document.Cells, testCell())

	data, err := document.Encode()
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "<?xml"))
	assert.Contains(t, text, `<neuroml xmlns="http://www.neuroml.org/schema/neuroml2"`)
	assert.Contains(t, text, `<cell id="cell0">`)
	assert.Contains(t, text, `<parent segment="0" fractionAlong="1"></parent>`)
	assert.Contains(t, text, `<segmentGroup id="soma_group">`)
}

func TestDocumentRoundTrip(t *testing.T) {
	document := NewDocument("cell0")
	document.Cells = append(document.Cells, testCell())
	document.Includes = append(document.Includes, &Include{Href: "channels.nml"})

	data, err := document.Encode()
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "cell0", parsed.ID)
	require.Equal(t, 1, len(parsed.Cells))
	require.Equal(t, 1, len(parsed.Includes))
	assert.Equal(t, "channels.nml", parsed.Includes[0].Href)

	morphology := parsed.Cells[0].Morphology
	require.NotNil(t, morphology)
	require.Equal(t, 2, len(morphology.Segments))
	assert.Equal(t, 2, len(morphology.SegmentGroups))
	require.NotNil(t, morphology.Segments[1].Parent)
	assert.Equal(t, 0, morphology.Segments[1].Parent.Segment)
}

func TestMorphologyQueries(t *testing.T) {
	morphology := testCell().Morphology
	assert.NotNil(t, morphology.Segment(1))
	assert.Nil(t, morphology.Segment(9))
	assert.Equal(t, 1, len(morphology.RootSegments()))
	assert.Equal(t, 1, len(morphology.ChildrenOf(0)))
	assert.NotNil(t, morphology.Group("all"))
	assert.Nil(t, morphology.Group("missing"))
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(*Document)
		fragment    string
	}{
		{
			description: "valid document",
			mutate:      func(d *Document) {},
		},
		{
			description: "duplicate segment id",
			mutate: func(d *Document) {
				m := d.Cells[0].Morphology
				m.Segments = append(m.Segments, &Segment{ID: 1, Distal: &Point3DWithDiam{}})
			},
			fragment: "duplicate segment id 1",
		},
		{
			description: "missing parent",
			mutate: func(d *Document) {
				d.Cells[0].Morphology.Segments[1].Parent.Segment = 42
			},
			fragment: "missing parent 42",
		},
		{
			description: "missing group member",
			mutate: func(d *Document) {
				m := d.Cells[0].Morphology
				m.SegmentGroups[0].Members = append(m.SegmentGroups[0].Members, &Member{Segment: 7})
			},
			fragment: "missing segment 7",
		},
		{
			description: "missing included group",
			mutate: func(d *Document) {
				m := d.Cells[0].Morphology
				m.SegmentGroups[0].Includes = append(m.SegmentGroups[0].Includes, &GroupInclude{SegmentGroup: "nope"})
			},
			fragment: "includes missing group nope",
		},
		{
			description: "self parent cycle",
			mutate: func(d *Document) {
				d.Cells[0].Morphology.Segments[1].Parent.Segment = 1
			},
			fragment: "is its own parent",
		},
		{
			description: "multiple root segments",
			mutate: func(d *Document) {
				m := d.Cells[0].Morphology
				m.Segments = append(m.Segments, &Segment{ID: 2, Name: "soma_Seg_2", Distal: &Point3DWithDiam{Diameter: 4}})
			},
			fragment: "2 root segments",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			document := NewDocument("cell0")
			document.Cells = append(document.Cells, testCell())
			tc.mutate(document)

			issues := document.Validate()
			if tc.fragment == "" {
				assert.Empty(t, issues)
				return
			}
			require.NotEmpty(t, issues)
			found := false
			for _, issue := range issues {
				if strings.Contains(issue.Error(), tc.fragment) {
					found = true
				}
			}
			assert.True(t, found, "expected issue containing %q, got %v", tc.fragment, issues)
		})
	}
}
