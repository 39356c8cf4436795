// Package neuroml holds a minimal NeuroML2 document model covering cells,
// morphologies and segment groups, with an XML codec and structural
// validation.
package neuroml

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

const (
	// Namespace is the NeuroML v2 schema namespace.
	Namespace = "http://www.neuroml.org/schema/neuroml2"
	// XSINamespace is the XML schema-instance namespace.
	XSINamespace = "http://www.w3.org/2001/XMLSchema-instance"
	// SchemaLocation points at the NeuroML v2.3 schema document.
	SchemaLocation = "http://www.neuroml.org/schema/neuroml2 https://raw.github.com/NeuroML/NeuroML2/development/Schemas/NeuroML2/NeuroML_v2.3.xsd"
)

// Document is the root NeuroML element.
type Document struct {
	XMLName        xml.Name      `xml:"neuroml"`
	Xmlns          string        `xml:"xmlns,attr"`
	XmlnsXSI       string        `xml:"xmlns:xsi,attr,omitempty"`
	SchemaLocation string        `xml:"xsi:schemaLocation,attr,omitempty"`
	ID             string        `xml:"id,attr"`
	Notes          string        `xml:"notes,omitempty"`
	Includes       []*Include    `xml:"include"`
	Cells          []*Cell       `xml:"cell"`
	Morphologies   []*Morphology `xml:"morphology"`
}

// Include references another NeuroML file.
type Include struct {
	Href string `xml:"href,attr"`
}

// NewDocument creates an empty document with the namespace attributes set.
func NewDocument(id string) *Document {
	return &Document{
		Xmlns:          Namespace,
		XmlnsXSI:       XSINamespace,
		SchemaLocation: SchemaLocation,
		ID:             id,
	}
}

// Encode serialises the document as indented XML with the standard header.
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	encoder := xml.NewEncoder(&buf)
	encoder.Indent("", "    ")
	if err := encoder.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode neuroml document %v: %w", d.ID, err)
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Parse decodes a NeuroML document from XML.
func Parse(data []byte) (*Document, error) {
	document := &Document{}
	if err := xml.Unmarshal(data, document); err != nil {
		return nil, fmt.Errorf("failed to parse neuroml document: %w", err)
	}
	return document, nil
}
