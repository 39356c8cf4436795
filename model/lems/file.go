// Package lems models LEMS simulation-description files: the XML consumed
// by the jNeuroML reference simulator and the engines it drives.
package lems

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// Event output formats supported by LEMS EventOutputFile.
const (
	FormatTimeID = "TIME_ID"
	FormatIDTime = "ID_TIME"
)

// StandardIncludes are the NeuroML2 core type definitions every generated
// simulation pulls in.
var StandardIncludes = []string{"Cells.xml", "Networks.xml", "Simulation.xml"}

// StandardDefinitionFiles lists the LEMS definition files shipped with
// NeuroML2; they are resolved by the simulator itself and never packaged.
var StandardDefinitionFiles = []string{
	"Cells.xml",
	"Channels.xml",
	"Inputs.xml",
	"Networks.xml",
	"NeuroML2CoreTypes.xml",
	"NeuroMLCoreCompTypes.xml",
	"NeuroMLCoreDimensions.xml",
	"PyNN.xml",
	"Simulation.xml",
	"Synapses.xml",
}

// IsStandardDefinition reports whether the file name is one of the NeuroML2
// core LEMS definitions.
func IsStandardDefinition(name string) bool {
	for _, candidate := range StandardDefinitionFiles {
		if candidate == name {
			return true
		}
	}
	return false
}

// File is the root Lems element.
type File struct {
	XMLName     xml.Name      `xml:"Lems"`
	Comment     string        `xml:",comment"`
	Target      *Target       `xml:"Target"`
	Includes    []*Include    `xml:"Include"`
	Simulations []*Simulation `xml:"Simulation"`
}

// Target marks the simulation component to execute.
type Target struct {
	Component  string `xml:"component,attr"`
	ReportFile string `xml:"reportFile,attr,omitempty"`
}

// Include references another LEMS or NeuroML file.
type Include struct {
	File string `xml:"file,attr"`
}

// Simulation describes a single run: duration, step, target network and the
// recorded outputs.
type Simulation struct {
	ID               string             `xml:"id,attr"`
	Length           string             `xml:"length,attr"`
	Step             string             `xml:"step,attr"`
	Target           string             `xml:"target,attr"`
	Seed             int                `xml:"seed,attr,omitempty"`
	Meta             *Meta              `xml:"Meta"`
	Displays         []*Display         `xml:"Display"`
	OutputFiles      []*OutputFile      `xml:"OutputFile"`
	EventOutputFiles []*EventOutputFile `xml:"EventOutputFile"`
}

// Meta carries engine-specific solver settings (currently NEURON/CVODE).
type Meta struct {
	For          string `xml:"for,attr"`
	Method       string `xml:"method,attr"`
	AbsTolerance string `xml:"abs_tolerance,attr,omitempty"`
	RelTolerance string `xml:"rel_tolerance,attr,omitempty"`
}

// Display is an on-screen plot panel.
type Display struct {
	ID        string  `xml:"id,attr"`
	Title     string  `xml:"title,attr"`
	TimeScale string  `xml:"timeScale,attr"`
	Xmin      float64 `xml:"xmin,attr"`
	Xmax      float64 `xml:"xmax,attr"`
	Ymin      float64 `xml:"ymin,attr"`
	Ymax      float64 `xml:"ymax,attr"`
	Lines     []*Line `xml:"Line"`
}

// Line plots a single recorded quantity in a display.
type Line struct {
	ID        string `xml:"id,attr"`
	Quantity  string `xml:"quantity,attr"`
	Scale     string `xml:"scale,attr"`
	Color     string `xml:"color,attr"`
	TimeScale string `xml:"timeScale,attr"`
}

// OutputFile records quantities as columns of a data file.
type OutputFile struct {
	ID       string          `xml:"id,attr"`
	FileName string          `xml:"fileName,attr"`
	Columns  []*OutputColumn `xml:"OutputColumn"`
}

// OutputColumn records a single quantity.
type OutputColumn struct {
	ID       string `xml:"id,attr"`
	Quantity string `xml:"quantity,attr"`
}

// EventOutputFile records spike events.
type EventOutputFile struct {
	ID         string            `xml:"id,attr"`
	FileName   string            `xml:"fileName,attr"`
	Format     string            `xml:"format,attr"`
	Selections []*EventSelection `xml:"EventSelection"`
}

// EventSelection records events from a single component port.
type EventSelection struct {
	ID        int    `xml:"id,attr"`
	Select    string `xml:"select,attr"`
	EventPort string `xml:"eventPort,attr"`
}

// Encode serialises the file as indented XML with the standard header.
func (f *File) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	encoder := xml.NewEncoder(&buf)
	encoder.Indent("", "    ")
	if err := encoder.Encode(f); err != nil {
		return nil, fmt.Errorf("failed to encode lems file: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Parse decodes a LEMS file from XML.
func Parse(data []byte) (*File, error) {
	file := &File{}
	if err := xml.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("failed to parse lems file: %w", err)
	}
	return file, nil
}
