package results

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/neuroml/gonml/model/lems"
)

// Events maps a source id to its ordered spike times.
type Events map[int][]float64

// IDs returns the source ids in ascending order.
func (e Events) IDs() []int {
	ids := make([]int, 0, len(e))
	for id := range e {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Count returns the total number of events across all sources.
func (e Events) Count() int {
	total := 0
	for _, times := range e {
		total += len(times)
	}
	return total
}

// ParseEvents decodes a spike event file in the TIME_ID or ID_TIME column
// order used by LEMS EventOutputFile.
func ParseEvents(data []byte, format string) (Events, error) {
	if format != lems.FormatTimeID && format != lems.FormatIDTime {
		return nil, fmt.Errorf("unknown event format: %v", format)
	}
	events := Events{}
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected 2 columns, found %d", i+1, len(fields))
		}
		timeField, idField := fields[0], fields[1]
		if format == lems.FormatIDTime {
			timeField, idField = idField, timeField
		}
		at, err := strconv.ParseFloat(timeField, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid event time %q", i+1, timeField)
		}
		id, err := strconv.Atoi(idField)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid event source id %q", i+1, idField)
		}
		events[id] = append(events[id], at)
	}
	for _, times := range events {
		sort.Float64s(times)
	}
	return events, nil
}
