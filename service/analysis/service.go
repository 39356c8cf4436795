package analysis

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/neuroml/gonml/model/types"
	"github.com/neuroml/gonml/service/meta"
	"github.com/neuroml/gonml/service/results"
	"github.com/viant/afs"
)

const name = "analysis"

// Service analyses simulation trace files.
type Service struct {
	meta *meta.Service
}

// SpikesInput detects spikes in a voltage trace column.
type SpikesInput struct {
	SourceURL string  `json:"sourceURL"`
	Column    int     `json:"column,omitempty"`
	Threshold float64 `json:"threshold,omitempty" description:"spike threshold in trace units, defaults to 0"`
}

// SpikesOutput summarises the detected spike train.
type SpikesOutput struct {
	Spikes        []float64 `json:"spikes"`
	Count         int       `json:"count"`
	MeanFrequency float64   `json:"meanFrequency" description:"average rate over the trace window in Hz"`
	ISI           *ISIStats `json:"isi,omitempty"`
}

// SweepInput builds a current/frequency or current/voltage curve from one
// trace file per stimulation current.
type SweepInput struct {
	Currents   []float64 `json:"currents"`
	SourceURLs []string  `json:"sourceURLs"`
	Column     int       `json:"column,omitempty"`
	Threshold  float64   `json:"threshold,omitempty"`
	Kind       string    `json:"kind,omitempty" description:"if or iv, defaults to if"`
}

// SweepOutput holds the curve points.
type SweepOutput struct {
	Points []CurvePoint `json:"points"`
}

// New creates an analysis service.
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
			Name:        "spikes",
			Description: "Detects spikes in a voltage trace and summarises the train.",
			Input:       reflect.TypeOf(&SpikesInput{}),
			Output:      reflect.TypeOf(&SpikesOutput{}),
		},
		{
			Name:        "sweep",
			Description: "Builds a current/frequency or current/voltage curve from sweep traces.",
			Input:       reflect.TypeOf(&SweepInput{}),
			Output:      reflect.TypeOf(&SweepOutput{}),
		},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "spikes":
		return s.spikes, nil
	case "sweep":
		return s.sweep, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) spikes(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*SpikesInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*SpikesOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	times, values, err := s.loadColumn(ctx, input.SourceURL, input.Column)
	if err != nil {
		return err
	}
	spikes, err := DetectSpikes(times, values, input.Threshold)
	if err != nil {
		return err
	}
	output.Spikes = spikes
	output.Count = len(spikes)
	output.MeanFrequency = MeanFrequency(spikes, times[0], times[len(times)-1])
	output.ISI = NewISIStats(spikes)
	return nil
}

func (s *Service) sweep(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*SweepInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*SweepOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	if len(input.Currents) != len(input.SourceURLs) {
		return fmt.Errorf("currents and sourceURLs length differ: %d vs %d", len(input.Currents), len(input.SourceURLs))
	}
	if len(input.Currents) == 0 {
		return fmt.Errorf("sweep input was empty")
	}

	kind := strings.ToLower(input.Kind)
	if kind == "" {
		kind = "if"
	}
	switch kind {
	case "if":
		trains := make(map[float64][]float64)
		var start, end float64
		for i, sourceURL := range input.SourceURLs {
			times, values, err := s.loadColumn(ctx, sourceURL, input.Column)
			if err != nil {
				return err
			}
			spikes, err := DetectSpikes(times, values, input.Threshold)
			if err != nil {
				return err
			}
			trains[input.Currents[i]] = spikes
			start, end = times[0], times[len(times)-1]
		}
		output.Points = IFCurve(trains, start, end)
	case "iv":
		sweeps := make(map[float64][]float64)
		for i, sourceURL := range input.SourceURLs {
			_, values, err := s.loadColumn(ctx, sourceURL, input.Column)
			if err != nil {
				return err
			}
			sweeps[input.Currents[i]] = values
		}
		points, err := IVCurve(sweeps, 0)
		if err != nil {
			return err
		}
		output.Points = points
	default:
		return fmt.Errorf("unknown sweep kind: %v", input.Kind)
	}
	return nil
}

func (s *Service) loadColumn(ctx context.Context, sourceURL string, column int) ([]float64, []float64, error) {
	data, err := s.meta.Download(ctx, sourceURL)
	if err != nil {
		return nil, nil, err
	}
	traces, err := results.ParseTraces(data)
	if err != nil {
		return nil, nil, err
	}
	values, err := traces.Column(column)
	if err != nil {
		return nil, nil, err
	}
	return traces.Times, values, nil
}
