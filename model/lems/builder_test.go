package lems

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuilder(t *testing.T) {
	testCases := []struct {
		description  string
		duration     string
		step         string
		expectLength string
		expectStep   string
		shouldError  bool
	}{
		{description: "bare magnitudes", duration: "500", step: "0.025", expectLength: "500ms", expectStep: "0.025ms"},
		{description: "unit strings", duration: "0.5 s", step: "25 us", expectLength: "500ms", expectStep: "0.025ms"},
		{description: "bad duration", duration: "1 mV", step: "0.025", shouldError: true},
		{description: "bad step", duration: "500", step: "abc", shouldError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			builder, err := NewBuilder("sim1", tc.duration, tc.step)
			if tc.shouldError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectLength, builder.simulation.Length)
			assert.Equal(t, tc.expectStep, builder.simulation.Step)
		})
	}
}

func TestBuilderBuild(t *testing.T) {
	builder, err := NewBuilder("sim1", "500 ms", "0.025ms",
		WithTarget("net1"),
		WithSeed(9876),
		WithReportFile("report.txt"),
		WithMeta(&Meta{For: "neuron", Method: "cvode", AbsTolerance: "0.001", RelTolerance: "0.001"}),
	)
	require.NoError(t, err)

	builder.Include("cell.nml")
	builder.Include("cell.nml") // duplicate ignored
	builder.Include("net.nml")

	display := builder.AddDisplay("d0", "membrane potential", -90, 50)
	builder.AddLine(display, "v", "net1/pop0[0]/v", "1mV", "")

	output := builder.AddOutputFile("of0", "sim1.v.dat")
	builder.AddColumn(output, "v", "net1/pop0[0]/v")

	events, err := builder.AddEventOutputFile("ev0", "sim1.spikes", FormatTimeID)
	require.NoError(t, err)
	builder.AddEventSelection(events, 0, "net1/pop0[0]", "spike")

	file, err := builder.Build()
	require.NoError(t, err)

	data, err := file.Encode()
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, `<Simulation id="sim1" length="500ms" step="0.025ms" target="net1" seed="9876">`)
	assert.Contains(t, text, `<Target component="sim1" reportFile="report.txt">`)
	assert.Contains(t, text, `<Include file="Cells.xml">`)
	assert.Contains(t, text, `<Include file="cell.nml">`)
	assert.Contains(t, text, `<Meta for="neuron" method="cvode" abs_tolerance="0.001" rel_tolerance="0.001">`)
	assert.Contains(t, text, `<OutputColumn id="v" quantity="net1/pop0[0]/v">`)
	assert.Contains(t, text, `<EventSelection id="0" select="net1/pop0[0]" eventPort="spike">`)
	// includes listed once only
	assert.Equal(t, 1, strings.Count(text, `file="cell.nml"`))
}

func TestBuilderTargetRequired(t *testing.T) {
	builder, err := NewBuilder("sim1", "500", "0.025")
	require.NoError(t, err)
	_, err = builder.Build()
	assert.Error(t, err)
}

func TestDeterministicColors(t *testing.T) {
	first, err := NewBuilder("sim1", "500", "0.025", WithGenerateSeed(4321))
	require.NoError(t, err)
	second, err := NewBuilder("sim1", "500", "0.025", WithGenerateSeed(4321))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.Equal(t, first.NextColor(), second.NextColor())
	}
}

func TestEventFormatValidation(t *testing.T) {
	builder, err := NewBuilder("sim1", "500", "0.025", WithTarget("net1"))
	require.NoError(t, err)
	_, err = builder.AddEventOutputFile("ev0", "out.spikes", "BOGUS")
	assert.Error(t, err)
}

func TestParseRoundTrip(t *testing.T) {
	builder, err := NewBuilder("sim1", "500", "0.025", WithTarget("net1"))
	require.NoError(t, err)
	builder.Include("cell.nml")
	file, err := builder.Build()
	require.NoError(t, err)

	data, err := file.Encode()
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, 1, len(parsed.Simulations))
	assert.Equal(t, "sim1", parsed.Simulations[0].ID)
	assert.Equal(t, len(StandardIncludes)+1, len(parsed.Includes))
	require.NotNil(t, parsed.Target)
	assert.Equal(t, "sim1", parsed.Target.Component)
}
