package annotations

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotation_Encode(t *testing.T) {
	annotation := &Annotation{
		Subject:  "model.cell.nml",
		Title:    "L5 pyramidal cell",
		Abstract: "Converted morphology with passive properties.",
		Keywords: []string{"morphology", "cortex"},
		Creators: []Creator{
			{Name: "A Researcher", Email: "a@example.org", Organisation: "Example Lab"},
		},
		Citations: []string{"https://identifiers.org/doi/10.1371/journal.pcbi.1010941"},
		SeeAlso:   []string{"https://neuromorpho.org"},
		Created:   time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}

	data, err := annotation.Encode()
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, `rdf:about="model.cell.nml"`)
	assert.Contains(t, content, "<dc:title>L5 pyramidal cell</dc:title>")
	assert.Contains(t, content, "<foaf:name>A Researcher</foaf:name>")
	assert.Contains(t, content, "<foaf:mbox>mailto:a@example.org</foaf:mbox>")
	assert.Contains(t, content, `rdf:resource="https://identifiers.org/doi/10.1371/journal.pcbi.1010941"`)
	assert.Contains(t, content, "<dcterms:W3CDTF>2026-03-14T12:00:00Z</dcterms:W3CDTF>")

	_, err = (&Annotation{}).Encode()
	assert.Error(t, err)
}

func TestService_create(t *testing.T) {
	dir := t.TempDir()
	service := New()
	assert.EqualValues(t, "annotations", service.Name())

	method, err := service.Method("create")
	require.NoError(t, err)

	destURL := filepath.Join(dir, "metadata.rdf")
	output := &Output{}
	err = method(context.Background(), &Input{
		Annotation: &Annotation{Subject: "model.cell.nml", Title: "cell"},
		DestURL:    destURL,
	}, output)
	require.NoError(t, err)
	assert.EqualValues(t, destURL, output.DestURL)

	data, err := os.ReadFile(destURL)
	require.NoError(t, err)
	assert.Contains(t, string(data), "dcterms:created")

	err = method(context.Background(), &Input{}, &Output{})
	assert.Error(t, err)
}
