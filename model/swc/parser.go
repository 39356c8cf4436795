package swc

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/viant/parsly"
)

// Parse reads SWC text into a Graph. Header lines start with '#'; every
// other non-empty line is a point record of exactly seven numeric fields:
// id, structure type, x, y, z, radius, parent id. The first point must be
// the root (parent -1). The source location is recorded as ORIGINAL_SOURCE
// metadata unless the header already carries one.
func Parse(data []byte, location string) (*Graph, error) {
	graph := NewGraph()
	pointCount := 0

	for i, raw := range strings.Split(string(data), "\n") {
		lineNumber := i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			header := strings.TrimSpace(line[1:])
			if key, value, ok := parseHeader(header); ok {
				graph.AddMetadata(key, value)
			} else if header != "" {
				log.Printf("ignoring line %d: does not match header format: # %v", lineNumber, header)
			}
			continue
		}

		node, err := parsePoint([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		if pointCount == 0 && node.ParentID != -1 {
			return nil, fmt.Errorf("line %d: first point in file must have parent '-1' (root), got: %v", lineNumber, line)
		}
		if err := graph.AddNode(node); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		pointCount++
	}

	if _, ok := graph.Metadata["ORIGINAL_SOURCE"]; !ok && location != "" {
		graph.Metadata["ORIGINAL_SOURCE"] = location
	}
	return graph, nil
}

// parseHeader matches a header line against the canonical field names,
// case-insensitively; the remainder of the line is the value.
func parseHeader(line string) (string, string, bool) {
	for _, field := range HeaderFields {
		if len(line) <= len(field) {
			continue
		}
		if !strings.EqualFold(line[:len(field)], field) {
			continue
		}
		rest := line[len(field):]
		if rest[0] != ' ' && rest[0] != '\t' {
			continue
		}
		value := strings.TrimSpace(rest)
		if value == "" {
			continue
		}
		return field, value, true
	}
	return "", "", false
}

// parsePoint tokenises a single point line into a node.
func parsePoint(line []byte) (*Node, error) {
	cursor := parsly.NewCursor("", line, 0)
	fields := make([]string, 0, 7)
	for {
		matched := cursor.MatchAfterOptional(whitespaceToken, numberToken)
		if matched.Code != numberToken.Code {
			break
		}
		fields = append(fields, matched.Text(cursor))
	}
	if len(fields) != 7 || cursor.Pos < cursor.InputSize && strings.TrimSpace(string(line[cursor.Pos:])) != "" {
		return nil, fmt.Errorf("invalid number of fields, expected 7 in: %v", string(line))
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("invalid node id %v: %w", fields[0], err)
	}
	typeID, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("invalid type id %v: %w", fields[1], err)
	}
	parentID, err := strconv.Atoi(fields[6])
	if err != nil {
		return nil, fmt.Errorf("invalid parent id %v: %w", fields[6], err)
	}

	coords := make([]float64, 4)
	for i, field := range fields[2:6] {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid numeric field %v: %w", field, err)
		}
		coords[i] = value
	}

	return &Node{
		ID:       id,
		Type:     typeID,
		X:        coords[0],
		Y:        coords[1],
		Z:        coords[2],
		Radius:   coords[3],
		ParentID: parentID,
	}, nil
}
