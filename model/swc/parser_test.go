package swc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		shouldError bool
		errFragment string
		expectNodes int
		expectMeta  map[string]string
	}{
		{
			description: "simple three point morphology",
			input: `# ORIGINAL_SOURCE cell.swc
# CREATURE rat
1 1 0.0 0.0 0.0 5.0 -1
2 3 0.0 10.0 0.0 1.0 1
3 3 0.0 20.0 0.0 1.0 2
`,
			expectNodes: 3,
			expectMeta: map[string]string{
				"ORIGINAL_SOURCE": "cell.swc",
				"CREATURE":        "rat",
			},
		},
		{
			description: "case insensitive header, unknown field ignored",
			input: `# original_source somewhere.swc
# NOT_A_FIELD value
1 1 0 0 0 5 -1
`,
			expectNodes: 1,
			expectMeta:  map[string]string{"ORIGINAL_SOURCE": "somewhere.swc"},
		},
		{
			description: "duplicate node id",
			input: `1 1 0 0 0 5 -1
1 3 0 1 0 1 1
`,
			shouldError: true,
			errFragment: "duplicate node ID",
		},
		{
			description: "second root rejected",
			input: `1 1 0 0 0 5 -1
2 1 0 1 0 5 -1
`,
			shouldError: true,
			errFragment: "multiple root nodes",
		},
		{
			description: "missing parent",
			input: `1 1 0 0 0 5 -1
3 3 0 1 0 1 2
`,
			shouldError: true,
			errFragment: "parent node 2 not found",
		},
		{
			description: "wrong field count",
			input:       "1 1 0 0 0 5\n",
			shouldError: true,
			errFragment: "invalid number of fields",
		},
		{
			description: "first point must be root",
			input:       "1 1 0 0 0 5 2\n",
			shouldError: true,
			errFragment: "first point in file must have parent '-1'",
		},
		{
			description: "non numeric field",
			input:       "1 1 0 0 0 abc -1\n",
			shouldError: true,
			errFragment: "invalid number of fields",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			graph, err := Parse([]byte(tc.input), "test.swc")
			if tc.shouldError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errFragment)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectNodes, len(graph.Nodes))
			for key, value := range tc.expectMeta {
				assert.Equal(t, value, graph.Metadata[key], key)
			}
		})
	}
}

func TestParseDefaultsOriginalSource(t *testing.T) {
	graph, err := Parse([]byte("1 1 0 0 0 5 -1\n"), "/tmp/morph.swc")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/morph.swc", graph.Metadata["ORIGINAL_SOURCE"])
}

func TestParseScientificNotation(t *testing.T) {
	graph, err := Parse([]byte("1 1 1.5e1 -2.5E-1 0 5 -1\n"), "")
	require.NoError(t, err)
	require.Equal(t, 1, len(graph.Nodes))
	assert.InDelta(t, 15.0, graph.Nodes[0].X, 1e-9)
	assert.InDelta(t, -0.25, graph.Nodes[0].Y, 1e-9)
}

func TestGraphQueries(t *testing.T) {
	input := `1 1 0 0 0 5 -1
2 3 0 10 0 1 1
3 3 0 20 0 1 2
4 3 10 20 0 1 2
5 2 0 -10 0 1 1
`
	graph, err := Parse([]byte(input), "")
	require.NoError(t, err)

	root, err := graph.Node(1)
	require.NoError(t, err)
	assert.Equal(t, root, graph.Root)

	parent, err := graph.Parent(2)
	require.NoError(t, err)
	assert.Equal(t, 1, parent.ID)

	parent, err = graph.Parent(1)
	require.NoError(t, err)
	assert.Nil(t, parent)

	children, err := graph.Children(2)
	require.NoError(t, err)
	assert.Equal(t, 2, len(children))

	assert.Equal(t, 3, len(graph.NodesOfType(BasalDendrite)))
	assert.Equal(t, 1, len(graph.NodesOfType(Axon)))

	branchPoints := graph.BranchPoints()
	require.Equal(t, 1, len(branchPoints))
	assert.Equal(t, 2, len(branchPoints[-1]))

	byType := graph.BranchPoints(Soma, BasalDendrite)
	assert.Equal(t, 1, len(byType[Soma]))
	assert.Equal(t, 1, len(byType[BasalDendrite]))

	_, err = graph.Node(99)
	assert.Error(t, err)
}

func TestEncodeRoundTrip(t *testing.T) {
	input := `# ORIGINAL_SOURCE cell.swc
1 1 0.0 0.0 0.0 5.0 -1
2 3 0.0 10.0 0.0 1.0 1
`
	graph, err := Parse([]byte(input), "")
	require.NoError(t, err)

	encoded := graph.Encode()
	assert.True(t, strings.HasPrefix(string(encoded), "# ORIGINAL_SOURCE cell.swc\n"))

	reparsed, err := Parse(encoded, "")
	require.NoError(t, err)
	require.Equal(t, len(graph.Nodes), len(reparsed.Nodes))
	for i, node := range graph.Nodes {
		assert.Equal(t, node.ID, reparsed.Nodes[i].ID)
		assert.InDelta(t, node.Radius, reparsed.Nodes[i].Radius, 1e-9)
	}
}

func TestNodeString(t *testing.T) {
	node := &Node{ID: 1, Type: Soma, Radius: 5, ParentID: -1}
	assert.Contains(t, node.String(), "Type: Soma")
	node.Type = 9
	assert.Contains(t, node.String(), "Custom_9")
}
