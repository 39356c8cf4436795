// Package results loads and compares the data files produced by simulation
// runs: whitespace-separated trace columns and spike event listings.
package results

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/neuroml/gonml/model/lems"
)

// Traces holds the content of a simulation output file: the first column is
// time, the remaining columns are the recorded quantities.
type Traces struct {
	Labels []string    `json:"labels,omitempty"`
	Times  []float64   `json:"times"`
	Values [][]float64 `json:"values"`
}

// Columns returns the number of recorded quantities.
func (t *Traces) Columns() int {
	if len(t.Values) == 0 {
		return 0
	}
	return len(t.Values[0])
}

// Column returns a single recorded quantity as a series.
func (t *Traces) Column(index int) ([]float64, error) {
	if index < 0 || index >= t.Columns() {
		return nil, fmt.Errorf("column %d out of range, file has %d", index, t.Columns())
	}
	series := make([]float64, len(t.Values))
	for i, row := range t.Values {
		series[i] = row[index]
	}
	return series, nil
}

// ParseTraces decodes a trace data file. Every row must carry the same
// number of columns; blank lines and # comments are skipped.
func ParseTraces(data []byte) (*Traces, error) {
	traces := &Traces{}
	columns := -1
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if columns == -1 {
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: trace rows need a time and at least one value", i+1)
			}
			columns = len(fields)
		} else if len(fields) != columns {
			return nil, fmt.Errorf("line %d: expected %d columns, found %d", i+1, columns, len(fields))
		}
		row := make([]float64, 0, len(fields)-1)
		for j, field := range fields {
			value, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid number %q", i+1, field)
			}
			if j == 0 {
				traces.Times = append(traces.Times, value)
				continue
			}
			row = append(row, value)
		}
		traces.Values = append(traces.Values, row)
	}
	if len(traces.Times) == 0 {
		return nil, fmt.Errorf("trace file was empty")
	}
	return traces, nil
}

// LabelColumns attaches quantity names from the LEMS output declaration.
func (t *Traces) LabelColumns(outputFile *lems.OutputFile) {
	if outputFile == nil {
		return
	}
	var labels []string
	for _, column := range outputFile.Columns {
		labels = append(labels, column.Quantity)
	}
	t.Labels = labels
}
