package annotations

import (
	"context"
	"reflect"
	"strings"

	"github.com/neuroml/gonml/internal/clock"
	"github.com/neuroml/gonml/model/types"
	"github.com/viant/afs"
)

const name = "annotations"

// Service renders COMBINE metadata files.
type Service struct {
	fs afs.Service
}

// Input describes the annotation to render.
type Input struct {
	Annotation *Annotation `json:"annotation"`
	DestURL    string      `json:"destURL,omitempty" description:"optional location to store the metadata file"`
}

// Output holds the rendered metadata.
type Output struct {
	DestURL string `json:"destURL,omitempty"`
	Data    []byte `json:"data,omitempty"`
}

// New creates an annotations service.
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
			Name:        "create",
			Description: "Renders model metadata as a COMBINE RDF/XML file.",
			Input:       reflect.TypeOf(&Input{}),
			Output:      reflect.TypeOf(&Output{}),
		},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "create":
		return s.create, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) create(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*Input)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	if input.Annotation == nil {
		return types.NewInvalidInputError(in)
	}
	annotation := *input.Annotation
	if annotation.Created.IsZero() {
		annotation.Created = clock.Now()
	}
	data, err := annotation.Encode()
	if err != nil {
		return err
	}
	if input.DestURL != "" {
		if err = s.fs.Upload(ctx, input.DestURL, 0644, strings.NewReader(string(data))); err != nil {
			return err
		}
		output.DestURL = input.DestURL
		return nil
	}
	output.Data = data
	return nil
}
