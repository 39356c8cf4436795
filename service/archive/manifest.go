// Package archive builds COMBINE archives (OMEX): a zip of a master
// simulation file, the model files it includes and a manifest describing
// them.
package archive

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// COMBINE format identifiers used in manifest content entries.
const (
	FormatOmex     = "http://identifiers.org/combine.specifications/omex"
	FormatManifest = "http://identifiers.org/combine.specifications/omex-manifest"
	FormatNeuroML  = "http://identifiers.org/combine.specifications/neuroml"
	FormatSEDML    = "http://identifiers.org/combine.specifications/sed-ml"
	FormatGeneric  = "http://purl.org/NET/mediatypes/application/xml"
)

const manifestNamespace = "http://identifiers.org/combine.specifications/omex-manifest"

// ManifestName is the fixed manifest location inside an archive.
const ManifestName = "manifest.xml"

// Manifest is the omexManifest root element.
type Manifest struct {
	XMLName  xml.Name   `xml:"omexManifest"`
	Xmlns    string     `xml:"xmlns,attr"`
	Contents []*Content `xml:"content"`
}

// Content describes a single archive entry.
type Content struct {
	Location string `xml:"location,attr"`
	Format   string `xml:"format,attr"`
	Master   bool   `xml:"master,attr,omitempty"`
}

// NewManifest creates a manifest seeded with the archive self-entry.
func NewManifest() *Manifest {
	return &Manifest{
		Xmlns: manifestNamespace,
		Contents: []*Content{
			{Location: ".", Format: FormatOmex},
			{Location: ManifestName, Format: FormatManifest},
		},
	}
}

// Add appends a content entry, deriving the format from the location.
func (m *Manifest) Add(location string, master bool) {
	m.Contents = append(m.Contents, &Content{
		Location: location,
		Format:   FormatFor(location),
		Master:   master,
	})
}

// FormatFor derives the COMBINE format identifier from a file name.
func FormatFor(location string) string {
	lower := strings.ToLower(location)
	switch {
	case strings.HasSuffix(lower, ".nml"):
		return FormatNeuroML
	case strings.HasSuffix(lower, ".sedml"):
		return FormatSEDML
	default:
		return FormatGeneric
	}
}

// Encode serialises the manifest as indented XML.
func (m *Manifest) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	encoder := xml.NewEncoder(&buf)
	encoder.Indent("", "    ")
	if err := encoder.Encode(m); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// ParseManifest decodes a manifest document.
func ParseManifest(data []byte) (*Manifest, error) {
	manifest := &Manifest{}
	if err := xml.Unmarshal(data, manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return manifest, nil
}
