package results

import (
	"context"
	"reflect"
	"strings"

	"github.com/neuroml/gonml/model/lems"
	"github.com/neuroml/gonml/model/types"
	"github.com/neuroml/gonml/service/meta"
	"github.com/viant/afs"
)

const name = "results"

// Service loads simulation output files.
type Service struct {
	meta *meta.Service
}

// TracesInput loads a trace data file, optionally labelling columns from the
// LEMS file that produced it.
type TracesInput struct {
	SourceURL string `json:"sourceURL"`
	LemsURL   string `json:"lemsURL,omitempty"`
}

// TracesOutput holds the decoded traces.
type TracesOutput struct {
	Traces *Traces `json:"traces"`
}

// EventsInput loads a spike event file.
type EventsInput struct {
	SourceURL string `json:"sourceURL"`
	Format    string `json:"format,omitempty" description:"TIME_ID or ID_TIME, defaults to TIME_ID"`
}

// EventsOutput holds the decoded events.
type EventsOutput struct {
	Events Events `json:"events"`
	Count  int    `json:"count"`
}

// CompareInput compares two trace files within a numeric tolerance.
type CompareInput struct {
	ExpectedURL string  `json:"expectedURL"`
	ActualURL   string  `json:"actualURL"`
	Tolerance   float64 `json:"tolerance,omitempty"`
}

// CompareOutput holds the comparison summary.
type CompareOutput struct {
	Comparison *Comparison `json:"comparison"`
}

// New creates a results service.
func New(metaService *meta.Service) *Service {
	if metaService == nil {
		metaService = meta.New(afs.New(), "")
	}
	return &Service{meta: metaService}
}

// Name returns the service name
func (s *Service) Name() string {
	return name
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "traces",
			Description: "Loads a simulation trace data file.",
			Input:       reflect.TypeOf(&TracesInput{}),
			Output:      reflect.TypeOf(&TracesOutput{}),
		},
		{
			Name:        "events",
			Description: "Loads a spike event file.",
			Input:       reflect.TypeOf(&EventsInput{}),
			Output:      reflect.TypeOf(&EventsOutput{}),
		},
		{
			Name:        "compare",
			Description: "Compares two trace files within a numeric tolerance.",
			Input:       reflect.TypeOf(&CompareInput{}),
			Output:      reflect.TypeOf(&CompareOutput{}),
		},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "traces":
		return s.traces, nil
	case "events":
		return s.events, nil
	case "compare":
		return s.compare, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) traces(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*TracesInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*TracesOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	data, err := s.meta.Download(ctx, input.SourceURL)
	if err != nil {
		return err
	}
	traces, err := ParseTraces(data)
	if err != nil {
		return err
	}
	if input.LemsURL != "" {
		if err = s.labelFromLEMS(ctx, input, traces); err != nil {
			return err
		}
	}
	output.Traces = traces
	return nil
}

// labelFromLEMS matches the trace file against the LEMS output declarations
// by file name.
func (s *Service) labelFromLEMS(ctx context.Context, input *TracesInput, traces *Traces) error {
	file, err := s.meta.LoadLEMS(ctx, input.LemsURL)
	if err != nil {
		return err
	}
	for _, simulation := range file.Simulations {
		for _, outputFile := range simulation.OutputFiles {
			if strings.HasSuffix(input.SourceURL, outputFile.FileName) {
				traces.LabelColumns(outputFile)
				return nil
			}
		}
	}
	return nil
}

func (s *Service) events(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*EventsInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*EventsOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	if input.Format == "" {
		input.Format = lems.FormatTimeID
	}
	data, err := s.meta.Download(ctx, input.SourceURL)
	if err != nil {
		return err
	}
	events, err := ParseEvents(data, input.Format)
	if err != nil {
		return err
	}
	output.Events = events
	output.Count = events.Count()
	return nil
}

func (s *Service) compare(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*CompareInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*CompareOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	expectedData, err := s.meta.Download(ctx, input.ExpectedURL)
	if err != nil {
		return err
	}
	actualData, err := s.meta.Download(ctx, input.ActualURL)
	if err != nil {
		return err
	}
	expected, err := ParseTraces(expectedData)
	if err != nil {
		return err
	}
	actual, err := ParseTraces(actualData)
	if err != nil {
		return err
	}
	comparison, err := CompareTraces(expected, actual, input.Tolerance)
	if err != nil {
		return err
	}
	output.Comparison = comparison
	return nil
}
