package analysis

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectSpikes(t *testing.T) {
	times := []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5}
	values := []float64{-65, -20, 10, -60, 15, -65}

	spikes, err := DetectSpikes(times, values, 0)
	require.NoError(t, err)
	assert.EqualValues(t, []float64{0.2, 0.4}, spikes)

	none, err := DetectSpikes(times, values, 20)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = DetectSpikes(times[:2], values, 0)
	assert.Error(t, err)
}

func TestMeanFrequencyAndISI(t *testing.T) {
	spikes := []float64{0.1, 0.2, 0.35, 0.5}
	assert.InDelta(t, 4.0, MeanFrequency(spikes, 0, 1), 1e-9)
	assert.InDelta(t, 0.0, MeanFrequency(spikes, 0.6, 1), 1e-9)
	assert.InDelta(t, 0.0, MeanFrequency(spikes, 1, 0), 1e-9)

	intervals := ISIs(spikes)
	require.Len(t, intervals, 3)
	assert.InDelta(t, 0.1, intervals[0], 1e-9)
	assert.InDelta(t, 0.15, intervals[2], 1e-9)
	assert.Nil(t, ISIs([]float64{0.1}))

	stats := NewISIStats(spikes)
	require.NotNil(t, stats)
	assert.InDelta(t, 0.1, stats.Min, 1e-9)
	assert.InDelta(t, 0.15, stats.Max, 1e-9)
	assert.InDelta(t, (0.1+0.1+0.15)/3, stats.Mean, 1e-9)
	assert.Greater(t, stats.CV, 0.0)
	assert.Nil(t, NewISIStats(nil))
}

func TestIFCurve(t *testing.T) {
	trains := map[float64][]float64{
		0.2: {0.1, 0.3, 0.5, 0.7},
		0.1: {0.4},
		0.0: nil,
	}
	points := IFCurve(trains, 0, 1)
	require.Len(t, points, 3)
	assert.EqualValues(t, 0.0, points[0].Current)
	assert.EqualValues(t, 0.0, points[0].Value)
	assert.EqualValues(t, 0.1, points[1].Current)
	assert.EqualValues(t, 1.0, points[1].Value)
	assert.EqualValues(t, 4.0, points[2].Value)
}

func TestIVCurve(t *testing.T) {
	voltage, err := SteadyStateVoltage([]float64{-65, -64, -70, -70}, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, -70, voltage, 1e-9)

	_, err = SteadyStateVoltage(nil, 0.1)
	assert.Error(t, err)

	points, err := IVCurve(map[float64][]float64{
		-0.1: {-80, -80},
		0.0:  {-65, -65},
	}, 0.5)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.EqualValues(t, -80.0, points[0].Value)
	assert.EqualValues(t, -65.0, points[1].Value)
}

func TestService_spikesAndSweep(t *testing.T) {
	dir := t.TempDir()
	trace := "0.0 -65\n0.1 10\n0.2 -65\n0.3 12\n0.4 -65\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fast.dat"), []byte(trace), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quiet.dat"), []byte("0.0 -65\n0.1 -65\n0.2 -65\n0.3 -65\n0.4 -65\n"), 0644))

	service := New(nil)
	assert.EqualValues(t, "analysis", service.Name())

	spikesMethod, err := service.Method("spikes")
	require.NoError(t, err)
	spikesOut := &SpikesOutput{}
	err = spikesMethod(context.Background(), &SpikesInput{SourceURL: filepath.Join(dir, "fast.dat")}, spikesOut)
	require.NoError(t, err)
	assert.EqualValues(t, 2, spikesOut.Count)
	assert.InDelta(t, 5.0, spikesOut.MeanFrequency, 1e-9)
	require.NotNil(t, spikesOut.ISI)
	assert.InDelta(t, 0.2, spikesOut.ISI.Mean, 1e-9)

	sweepMethod, err := service.Method("sweep")
	require.NoError(t, err)
	sweepOut := &SweepOutput{}
	err = sweepMethod(context.Background(), &SweepInput{
		Currents:   []float64{0.0, 0.2},
		SourceURLs: []string{filepath.Join(dir, "quiet.dat"), filepath.Join(dir, "fast.dat")},
	}, sweepOut)
	require.NoError(t, err)
	require.Len(t, sweepOut.Points, 2)
	assert.EqualValues(t, 0.0, sweepOut.Points[0].Value)
	assert.InDelta(t, 5.0, sweepOut.Points[1].Value, 1e-9)

	ivOut := &SweepOutput{}
	err = sweepMethod(context.Background(), &SweepInput{
		Currents:   []float64{0.0},
		SourceURLs: []string{filepath.Join(dir, "quiet.dat")},
		Kind:       "iv",
	}, ivOut)
	require.NoError(t, err)
	require.Len(t, ivOut.Points, 1)
	assert.InDelta(t, -65.0, ivOut.Points[0].Value, 1e-9)

	err = sweepMethod(context.Background(), &SweepInput{Currents: []float64{1}, SourceURLs: nil}, &SweepOutput{})
	assert.Error(t, err)
	err = sweepMethod(context.Background(), &SweepInput{
		Currents:   []float64{0.0},
		SourceURLs: []string{filepath.Join(dir, "quiet.dat")},
		Kind:       "fi",
	}, &SweepOutput{})
	assert.Error(t, err)

}
