package convert

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/neuroml/gonml/model/neuroml"
	"github.com/neuroml/gonml/model/swc"
	"github.com/neuroml/gonml/model/types"
	"github.com/viant/afs"
	"github.com/viant/afs/url"
)

const name = "convert"

// Service converts between SWC morphology files and NeuroML documents.
type Service struct {
	fs afs.Service
}

// Input requests an SWC to NeuroML conversion.
type Input struct {
	SourceURL string `json:"sourceURL" description:"location of the SWC morphology file"`
	DestURL   string `json:"destURL,omitempty" description:"optional location to store the resulting NeuroML document"`
	// MorphologyOnly emits a standalone <morphology> element instead of a cell.
	MorphologyOnly bool `json:"morphologyOnly,omitempty"`
}

// Output holds the conversion result.
type Output struct {
	DocumentID string `json:"documentID"`
	CellID     string `json:"cellID,omitempty"`
	Segments   int    `json:"segments"`
	Groups     int    `json:"groups"`
	DestURL    string `json:"destURL,omitempty"`
	Data       []byte `json:"data,omitempty"`
}

// ExportInput requests a NeuroML to SWC conversion.
type ExportInput struct {
	SourceURL string `json:"sourceURL" description:"location of the NeuroML document"`
	DestURL   string `json:"destURL,omitempty" description:"optional location to store the resulting SWC file"`
}

// ExportOutput holds the exported SWC content.
type ExportOutput struct {
	Points  int    `json:"points"`
	DestURL string `json:"destURL,omitempty"`
	Data    []byte `json:"data,omitempty"`
}

// New creates a new conversion service.
func New() *Service {
	return &Service{fs: afs.New()}
}

// Name returns the service name
func (s *Service) Name() string {
	return name
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "swc2nml",
			Description: "Converts an SWC morphology file into a NeuroML cell document.",
			Input:       reflect.TypeOf(&Input{}),
			Output:      reflect.TypeOf(&Output{}),
		},
		{
			Name:        "nml2swc",
			Description: "Exports a NeuroML morphology back into an SWC file.",
			Input:       reflect.TypeOf(&ExportInput{}),
			Output:      reflect.TypeOf(&ExportOutput{}),
		},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "swc2nml":
		return s.swc2nml, nil
	case "nml2swc":
		return s.nml2swc, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) swc2nml(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*Input)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	data, err := s.fs.DownloadWithURL(ctx, input.SourceURL)
	if err != nil {
		return fmt.Errorf("failed to load SWC from %v: %w", input.SourceURL, err)
	}
	graph, err := swc.Parse(data, input.SourceURL)
	if err != nil {
		return err
	}
	document, err := NewWriter(graph).Generate(input.MorphologyOnly)
	if err != nil {
		return err
	}
	encoded, err := document.Encode()
	if err != nil {
		return err
	}
	output.DocumentID = document.ID
	if len(document.Cells) > 0 {
		cell := document.Cells[0]
		output.CellID = cell.ID
		if cell.Morphology != nil {
			output.Segments = len(cell.Morphology.Segments)
			output.Groups = len(cell.Morphology.SegmentGroups)
		}
	} else if len(document.Morphologies) > 0 {
		output.Segments = len(document.Morphologies[0].Segments)
		output.Groups = len(document.Morphologies[0].SegmentGroups)
	}
	if input.DestURL != "" {
		if err = s.fs.Upload(ctx, input.DestURL, 0644, strings.NewReader(string(encoded))); err != nil {
			return fmt.Errorf("failed to store NeuroML at %v: %w", input.DestURL, err)
		}
		output.DestURL = input.DestURL
		return nil
	}
	output.Data = encoded
	return nil
}

func (s *Service) nml2swc(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*ExportInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*ExportOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	data, err := s.fs.DownloadWithURL(ctx, input.SourceURL)
	if err != nil {
		return fmt.Errorf("failed to load NeuroML from %v: %w", input.SourceURL, err)
	}
	document, err := neuroml.Parse(data)
	if err != nil {
		return err
	}
	morphology := documentMorphology(document)
	if morphology == nil {
		return fmt.Errorf("%v contains no morphology", input.SourceURL)
	}
	graph, err := ExportSWC(morphology, url.Path(input.SourceURL))
	if err != nil {
		return err
	}
	encoded := graph.Encode()
	output.Points = len(graph.Nodes)
	if input.DestURL != "" {
		if err = s.fs.Upload(ctx, input.DestURL, 0644, strings.NewReader(string(encoded))); err != nil {
			return fmt.Errorf("failed to store SWC at %v: %w", input.DestURL, err)
		}
		output.DestURL = input.DestURL
		return nil
	}
	output.Data = encoded
	return nil
}

func documentMorphology(document *neuroml.Document) *neuroml.Morphology {
	if len(document.Cells) > 0 && document.Cells[0].Morphology != nil {
		return document.Cells[0].Morphology
	}
	if len(document.Morphologies) > 0 {
		return document.Morphologies[0]
	}
	return nil
}
