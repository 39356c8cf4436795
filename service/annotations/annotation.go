// Package annotations builds COMBINE metadata: RDF/XML descriptions of a
// model with its creators, citations and provenance, suitable for packaging
// next to the model in an archive.
package annotations

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"
)

// Annotation gathers the metadata recorded about a model.
type Annotation struct {
	Subject      string    `json:"subject" yaml:"subject" description:"archive-relative location of the annotated file"`
	Title        string    `json:"title,omitempty" yaml:"title,omitempty"`
	Abstract     string    `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Keywords     []string  `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Creators     []Creator `json:"creators,omitempty" yaml:"creators,omitempty"`
	Citations    []string  `json:"citations,omitempty" yaml:"citations,omitempty" description:"identifier URIs of publications describing the model"`
	Sources      []string  `json:"sources,omitempty" yaml:"sources,omitempty" description:"URIs of source repositories"`
	Predecessors []string  `json:"predecessors,omitempty" yaml:"predecessors,omitempty"`
	SeeAlso      []string  `json:"seeAlso,omitempty" yaml:"seeAlso,omitempty"`
	Created      time.Time `json:"created,omitempty" yaml:"created,omitempty"`
	Modified     time.Time `json:"modified,omitempty" yaml:"modified,omitempty"`
}

// Creator identifies a model author.
type Creator struct {
	Name         string `json:"name" yaml:"name"`
	Email        string `json:"email,omitempty" yaml:"email,omitempty"`
	Organisation string `json:"organisation,omitempty" yaml:"organisation,omitempty"`
}

type rdfRoot struct {
	XMLName      xml.Name `xml:"rdf:RDF"`
	XmlnsRDF     string   `xml:"xmlns:rdf,attr"`
	XmlnsDC      string   `xml:"xmlns:dc,attr"`
	XmlnsDCTerms string   `xml:"xmlns:dcterms,attr"`
	XmlnsFoaf    string   `xml:"xmlns:foaf,attr"`
	XmlnsRDFS    string   `xml:"xmlns:rdfs,attr"`
	XmlnsBqmodel string   `xml:"xmlns:bqmodel,attr"`
	Description  *rdfDescription
}

type rdfDescription struct {
	XMLName      xml.Name       `xml:"rdf:Description"`
	About        string         `xml:"rdf:about,attr"`
	Title        string         `xml:"dc:title,omitempty"`
	Abstract     string         `xml:"dcterms:abstract,omitempty"`
	Keywords     []string       `xml:"dc:subject,omitempty"`
	Creators     []*rdfCreator  `xml:"dc:creator,omitempty"`
	Citations    []*rdfResource `xml:"bqmodel:isDescribedBy,omitempty"`
	Sources      []*rdfResource `xml:"dc:source,omitempty"`
	Predecessors []*rdfResource `xml:"bqmodel:isDerivedFrom,omitempty"`
	SeeAlso      []*rdfResource `xml:"rdfs:seeAlso,omitempty"`
	Created      *rdfDate       `xml:"dcterms:created,omitempty"`
	Modified     *rdfDate       `xml:"dcterms:modified,omitempty"`
}

type rdfCreator struct {
	Name         string `xml:"foaf:name,omitempty"`
	Email        string `xml:"foaf:mbox,omitempty"`
	Organisation string `xml:"foaf:organization,omitempty"`
}

type rdfResource struct {
	Resource string `xml:"rdf:resource,attr"`
}

type rdfDate struct {
	Value string `xml:"dcterms:W3CDTF"`
}

// Validate checks the annotation names a subject.
func (a *Annotation) Validate() error {
	if a.Subject == "" {
		return fmt.Errorf("annotation subject was empty")
	}
	return nil
}

// Encode renders the annotation as RDF/XML.
func (a *Annotation) Encode() ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	description := &rdfDescription{
		About:    a.Subject,
		Title:    a.Title,
		Abstract: a.Abstract,
		Keywords: a.Keywords,
	}
	for _, creator := range a.Creators {
		email := creator.Email
		if email != "" {
			email = "mailto:" + email
		}
		description.Creators = append(description.Creators, &rdfCreator{
			Name:         creator.Name,
			Email:        email,
			Organisation: creator.Organisation,
		})
	}
	description.Citations = resources(a.Citations)
	description.Sources = resources(a.Sources)
	description.Predecessors = resources(a.Predecessors)
	description.SeeAlso = resources(a.SeeAlso)
	if !a.Created.IsZero() {
		description.Created = &rdfDate{Value: a.Created.Format("2006-01-02T15:04:05Z07:00")}
	}
	if !a.Modified.IsZero() {
		description.Modified = &rdfDate{Value: a.Modified.Format("2006-01-02T15:04:05Z07:00")}
	}

	root := &rdfRoot{
		XmlnsRDF:     "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		XmlnsDC:      "http://purl.org/dc/elements/1.1/",
		XmlnsDCTerms: "http://purl.org/dc/terms/",
		XmlnsFoaf:    "http://xmlns.com/foaf/0.1/",
		XmlnsRDFS:    "http://www.w3.org/2000/01/rdf-schema#",
		XmlnsBqmodel: "http://biomodels.net/model-qualifiers/",
		Description:  description,
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	encoder := xml.NewEncoder(&buf)
	encoder.Indent("", "    ")
	if err := encoder.Encode(root); err != nil {
		return nil, fmt.Errorf("failed to encode annotation: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func resources(uris []string) []*rdfResource {
	var out []*rdfResource
	for _, uri := range uris {
		out = append(out, &rdfResource{Resource: uri})
	}
	return out
}
