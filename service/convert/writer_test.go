package convert

import (
	"testing"

	"github.com/neuroml/gonml/model/neuroml"
	"github.com/neuroml/gonml/model/swc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSWC(t *testing.T, content, location string) *swc.Graph {
	t.Helper()
	graph, err := swc.Parse([]byte(content), location)
	require.NoError(t, err)
	return graph
}

func groupMembers(morphology *neuroml.Morphology, id string) []int {
	group := morphology.Group(id)
	if group == nil {
		return nil
	}
	var ids []int
	for _, member := range group.Members {
		ids = append(ids, member.Segment)
	}
	return ids
}

func TestWriter_Generate_singlePointSoma(t *testing.T) {
	graph := parseSWC(t, `# ORIGINAL_SOURCE simple.swc
1 1 0 0 0 5 -1
2 3 0 5 0 1 1
3 3 0 10 0 1 2
4 3 5 10 0 1 3
`, "simple.swc")

	document, err := NewWriter(graph).Generate(false)
	require.NoError(t, err)
	require.Len(t, document.Cells, 1)

	cell := document.Cells[0]
	assert.EqualValues(t, "simple", cell.ID)
	morphology := cell.Morphology
	require.NotNil(t, morphology)
	assert.EqualValues(t, "morphology_simple", morphology.ID)
	require.Len(t, morphology.Segments, 3)

	soma := morphology.Segments[0]
	assert.EqualValues(t, "soma_Seg_0", soma.Name)
	require.NotNil(t, soma.Proximal)
	require.NotNil(t, soma.Distal)
	assert.EqualValues(t, *soma.Proximal, *soma.Distal)
	assert.EqualValues(t, 10.0, soma.Distal.Diameter)

	// the first dendrite point starts a new cable: proximal at the point,
	// distal at its first child
	first := morphology.Segments[1]
	assert.EqualValues(t, "basal_dendrite_Seg_1", first.Name)
	require.NotNil(t, first.Parent)
	assert.EqualValues(t, 0, first.Parent.Segment)
	require.NotNil(t, first.Proximal)
	assert.EqualValues(t, 5.0, first.Proximal.Y)
	assert.EqualValues(t, 10.0, first.Distal.Y)

	second := morphology.Segments[2]
	assert.Nil(t, second.Proximal)
	require.NotNil(t, second.Parent)
	assert.EqualValues(t, 1, second.Parent.Segment)
	require.NotNil(t, second.Parent.FractionAlong)
	assert.EqualValues(t, 1.0, *second.Parent.FractionAlong)

	assert.EqualValues(t, []int{0, 1, 2}, groupMembers(morphology, "all"))
	assert.EqualValues(t, []int{0}, groupMembers(morphology, "soma_group"))
	assert.EqualValues(t, []int{1, 2}, groupMembers(morphology, "dendrite_group"))
	assert.EqualValues(t, []int{1, 2}, groupMembers(morphology, "basal_dendrite"))
	assert.Nil(t, morphology.Group("axon_group"))

	require.Len(t, cell.Properties, 1)
	assert.EqualValues(t, "cell_type", cell.Properties[0].Tag)
	assert.EqualValues(t, "converted_from_swc", cell.Properties[0].Value)
}

func TestWriter_Generate_threePointSoma(t *testing.T) {
	graph := parseSWC(t, `1 1 0 0 0 5 -1
2 1 0 -5 0 5 1
3 1 0 5 0 5 2
`, "threesoma.swc")

	document, err := NewWriter(graph).Generate(false)
	require.NoError(t, err)
	morphology := document.Cells[0].Morphology
	require.Len(t, morphology.Segments, 2)

	first := morphology.Segments[0]
	require.NotNil(t, first.Proximal)
	assert.EqualValues(t, -5.0, first.Proximal.Y)
	assert.EqualValues(t, 0.0, first.Distal.Y)
	assert.Nil(t, first.Parent)

	second := morphology.Segments[1]
	require.NotNil(t, second.Parent)
	assert.EqualValues(t, 0, second.Parent.Segment)
	assert.Nil(t, second.Proximal)
	assert.EqualValues(t, 5.0, second.Distal.Y)

	assert.EqualValues(t, []int{0, 1}, groupMembers(morphology, "soma_group"))
}

func TestWriter_Generate_multiPointSoma(t *testing.T) {
	graph := parseSWC(t, `1 1 0 0 0 5 -1
2 1 0 2 0 5 1
3 1 0 4 0 4 2
4 1 0 6 0 3 3
`, "multisoma.swc")

	document, err := NewWriter(graph).Generate(false)
	require.NoError(t, err)
	morphology := document.Cells[0].Morphology
	require.Len(t, morphology.Segments, 3)

	first := morphology.Segments[0]
	require.NotNil(t, first.Proximal)
	assert.EqualValues(t, 0.0, first.Proximal.Y)
	assert.EqualValues(t, 2.0, first.Distal.Y)

	for i := 1; i < 3; i++ {
		segment := morphology.Segments[i]
		require.NotNil(t, segment.Parent)
		assert.EqualValues(t, segment.ID-1, segment.Parent.Segment)
		assert.Nil(t, segment.Proximal)
	}
	assert.EqualValues(t, 6.0, morphology.Segments[2].Distal.Y)
	assert.EqualValues(t, 6.0, morphology.Segments[2].Distal.Diameter)
}

func TestWriter_Generate_somaLessRoot(t *testing.T) {
	graph := parseSWC(t, `1 3 0 0 0 1 -1
2 3 0 5 0 1 1
3 3 0 10 0 1 2
`, "nosoma.swc")

	document, err := NewWriter(graph).Generate(false)
	require.NoError(t, err)
	morphology := document.Cells[0].Morphology
	require.Len(t, morphology.Segments, 3)

	// zero length root segment anchors the tree
	root := morphology.Segments[0]
	require.NotNil(t, root.Proximal)
	assert.EqualValues(t, *root.Proximal, *root.Distal)
	assert.Nil(t, root.Parent)

	cable := morphology.Group("seg_group_0")
	require.NotNil(t, cable)
	assert.EqualValues(t, neuroml.NeuroLexSection, cable.NeuroLexID)
	assert.EqualValues(t, []int{0, 1, 2}, groupMembers(morphology, "seg_group_0"))
}

func TestWriter_Generate_branchingCables(t *testing.T) {
	graph := parseSWC(t, `1 1 0 0 0 5 -1
2 3 0 5 0 1 1
3 3 0 10 0 1 2
4 3 5 15 0 1 3
5 3 -5 15 0 1 3
`, "branch.swc")

	document, err := NewWriter(graph).Generate(false)
	require.NoError(t, err)
	morphology := document.Cells[0].Morphology
	require.Len(t, morphology.Segments, 4)

	assert.EqualValues(t, []int{0, 1}, groupMembers(morphology, "seg_group_0"))
	assert.EqualValues(t, []int{2}, groupMembers(morphology, "seg_group_1"))
	assert.EqualValues(t, []int{3}, groupMembers(morphology, "seg_group_2"))
	for _, id := range []string{"seg_group_0", "seg_group_1", "seg_group_2"} {
		assert.EqualValues(t, neuroml.NeuroLexSection, morphology.Group(id).NeuroLexID)
	}

	assert.Empty(t, document.Validate())
}

func TestWriter_Generate_standaloneMorphology(t *testing.T) {
	graph := parseSWC(t, `1 1 0 0 0 5 -1
2 3 0 5 0 1 1
3 3 0 10 0 1 2
`, "standalone.swc")

	document, err := NewWriter(graph).Generate(true)
	require.NoError(t, err)
	assert.Empty(t, document.Cells)
	require.Len(t, document.Morphologies, 1)
	assert.EqualValues(t, "morphology_standalone", document.Morphologies[0].ID)
}

func TestWriter_Generate_errors(t *testing.T) {
	var testCases = []struct {
		description string
		content     string
		expect      string
	}{
		{
			description: "single point",
			content:     "1 1 0 0 0 5 -1\n",
			expect:      "fewer than two points",
		},
		{
			description: "dendrite on soma without child",
			content: `1 1 0 0 0 5 -1
2 1 0 2 0 5 1
3 3 0 5 0 1 1
`,
			expect: "no child to span a segment",
		},
	}

	for _, testCase := range testCases {
		graph := parseSWC(t, testCase.content, "error.swc")
		_, err := NewWriter(graph).Generate(false)
		require.Error(t, err, testCase.description)
		assert.Contains(t, err.Error(), testCase.expect, testCase.description)
	}
}

func TestWriter_cellName(t *testing.T) {
	var testCases = []struct {
		origin string
		expect string
	}{
		{origin: "simple.swc", expect: "simple"},
		{origin: "/data/morphologies/pyr-4.swc", expect: "pyr_4"},
		{origin: `C:\data\cell.v2.swc`, expect: "cell_v2"},
		{origin: "10-1cell.swc", expect: "Cell_10_1cell"},
		{origin: "Unknown", expect: "Unknown"},
	}

	for _, testCase := range testCases {
		writer := &Writer{origin: testCase.origin}
		assert.EqualValues(t, testCase.expect, writer.cellName(), testCase.origin)
	}
}

func TestExportSWC_roundTrip(t *testing.T) {
	graph := parseSWC(t, `1 1 0 0 0 5 -1
2 3 0 5 0 1 1
3 3 0 10 0 1 2
4 3 5 10 0 1 3
`, "roundtrip.swc")

	document, err := NewWriter(graph).Generate(false)
	require.NoError(t, err)

	exported, err := ExportSWC(document.Cells[0].Morphology, "roundtrip.swc")
	require.NoError(t, err)
	require.Len(t, exported.Nodes, 3)

	require.NotNil(t, exported.Root)
	assert.EqualValues(t, swc.Soma, exported.Root.Type)
	assert.EqualValues(t, 5.0, exported.Root.Radius)
	for _, node := range exported.NodesOfType(swc.BasalDendrite) {
		assert.NotEqualValues(t, -1, node.ParentID)
	}
	assert.EqualValues(t, "roundtrip.swc", exported.Metadata["ORIGINAL_SOURCE"])
}

func TestExportSWC_errors(t *testing.T) {
	_, err := ExportSWC(&neuroml.Morphology{}, "")
	assert.Error(t, err)

	morphology := &neuroml.Morphology{
		Segments: []*neuroml.Segment{
			{ID: 0, Parent: &neuroml.SegmentParent{Segment: 99}, Distal: &neuroml.Point3DWithDiam{}},
		},
	}
	_, err = ExportSWC(morphology, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing parent segment")
}
