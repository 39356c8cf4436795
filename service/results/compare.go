package results

import (
	"fmt"
	"math"

	"github.com/pmezard/go-difflib/difflib"
)

// Comparison summarises the difference between two trace files.
type Comparison struct {
	Identical     bool    `json:"identical"`
	WithinBounds  bool    `json:"withinBounds"`
	Rows          int     `json:"rows"`
	MaxDifference float64 `json:"maxDifference"`
	Diff          string  `json:"diff,omitempty"`
}

// CompareTraces checks two trace sets row by row. Values within tolerance
// count as equal; the returned diff is a unified text diff of the rows that
// exceeded it, capped at ten entries.
func CompareTraces(expected, actual *Traces, tolerance float64) (*Comparison, error) {
	if expected.Columns() != actual.Columns() {
		return nil, fmt.Errorf("column count differs: %d vs %d", expected.Columns(), actual.Columns())
	}
	if len(expected.Times) != len(actual.Times) {
		return nil, fmt.Errorf("row count differs: %d vs %d", len(expected.Times), len(actual.Times))
	}

	comparison := &Comparison{Rows: len(expected.Times)}
	var expectedRows, actualRows []string
	for i := range expected.Times {
		rowDiff := math.Abs(expected.Times[i] - actual.Times[i])
		for j := range expected.Values[i] {
			rowDiff = math.Max(rowDiff, math.Abs(expected.Values[i][j]-actual.Values[i][j]))
		}
		if rowDiff > comparison.MaxDifference {
			comparison.MaxDifference = rowDiff
		}
		if rowDiff > tolerance && len(expectedRows) < 10 {
			expectedRows = append(expectedRows, formatRow(expected, i))
			actualRows = append(actualRows, formatRow(actual, i))
		}
	}
	comparison.Identical = comparison.MaxDifference == 0
	comparison.WithinBounds = comparison.MaxDifference <= tolerance
	if !comparison.WithinBounds {
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        expectedRows,
			B:        actualRows,
			FromFile: "expected",
			ToFile:   "actual",
			Context:  1,
		})
		if err != nil {
			return nil, err
		}
		comparison.Diff = diff
	}
	return comparison, nil
}

func formatRow(traces *Traces, index int) string {
	row := fmt.Sprintf("%g", traces.Times[index])
	for _, value := range traces.Values[index] {
		row += fmt.Sprintf("\t%g", value)
	}
	return row + "\n"
}
