// Package analysis extracts summary measures from simulation traces: spike
// times, firing frequencies, inter-spike intervals and current/frequency or
// current/voltage curve points.
package analysis

import (
	"fmt"
	"math"
	"sort"
)

// DetectSpikes returns the times of upward threshold crossings in a membrane
// potential trace. Times and values must be the same length.
func DetectSpikes(times, values []float64, threshold float64) ([]float64, error) {
	if len(times) != len(values) {
		return nil, fmt.Errorf("times and values length differ: %d vs %d", len(times), len(values))
	}
	var spikes []float64
	for i := 1; i < len(values); i++ {
		if values[i-1] < threshold && values[i] >= threshold {
			spikes = append(spikes, times[i])
		}
	}
	return spikes, nil
}

// MeanFrequency returns the average firing rate in Hz over [start, end],
// with times in seconds.
func MeanFrequency(spikes []float64, start, end float64) float64 {
	if end <= start {
		return 0
	}
	count := 0
	for _, at := range spikes {
		if at >= start && at <= end {
			count++
		}
	}
	return float64(count) / (end - start)
}

// ISIs returns the inter-spike intervals of an ordered spike train.
func ISIs(spikes []float64) []float64 {
	if len(spikes) < 2 {
		return nil
	}
	intervals := make([]float64, len(spikes)-1)
	for i := 1; i < len(spikes); i++ {
		intervals[i-1] = spikes[i] - spikes[i-1]
	}
	return intervals
}

// ISIStats summarises a spike train's intervals.
type ISIStats struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	CV   float64 `json:"cv"`
}

// NewISIStats computes interval statistics; nil for fewer than two spikes.
func NewISIStats(spikes []float64) *ISIStats {
	intervals := ISIs(spikes)
	if len(intervals) == 0 {
		return nil
	}
	stats := &ISIStats{Min: math.Inf(1), Max: math.Inf(-1)}
	var sum float64
	for _, interval := range intervals {
		sum += interval
		stats.Min = math.Min(stats.Min, interval)
		stats.Max = math.Max(stats.Max, interval)
	}
	stats.Mean = sum / float64(len(intervals))
	var variance float64
	for _, interval := range intervals {
		variance += (interval - stats.Mean) * (interval - stats.Mean)
	}
	variance /= float64(len(intervals))
	if stats.Mean != 0 {
		stats.CV = math.Sqrt(variance) / stats.Mean
	}
	return stats
}

// CurvePoint is a single sample of a stimulation sweep.
type CurvePoint struct {
	Current float64 `json:"current"`
	Value   float64 `json:"value"`
}

// IFCurve builds current/frequency points from per-current spike trains,
// sorted by current. The window bounds the frequency measurement.
func IFCurve(trains map[float64][]float64, start, end float64) []CurvePoint {
	points := make([]CurvePoint, 0, len(trains))
	for current, spikes := range trains {
		points = append(points, CurvePoint{Current: current, Value: MeanFrequency(spikes, start, end)})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Current < points[j].Current })
	return points
}

// SteadyStateVoltage averages the last fraction of a voltage trace, the
// conventional estimate for sub-threshold current/voltage sweeps.
func SteadyStateVoltage(values []float64, fraction float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("voltage trace was empty")
	}
	if fraction <= 0 || fraction > 1 {
		fraction = 0.1
	}
	from := len(values) - int(math.Ceil(fraction*float64(len(values))))
	if from < 0 {
		from = 0
	}
	var sum float64
	for _, value := range values[from:] {
		sum += value
	}
	return sum / float64(len(values)-from), nil
}

// IVCurve builds current/steady-state-voltage points sorted by current.
func IVCurve(sweeps map[float64][]float64, fraction float64) ([]CurvePoint, error) {
	points := make([]CurvePoint, 0, len(sweeps))
	for current, values := range sweeps {
		voltage, err := SteadyStateVoltage(values, fraction)
		if err != nil {
			return nil, err
		}
		points = append(points, CurvePoint{Current: current, Value: voltage})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Current < points[j].Current })
	return points, nil
}
