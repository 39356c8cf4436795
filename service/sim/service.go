// Package sim launches NeuroML simulations through external engines: the
// jNeuroML runner and the simulators it generates code for, plus standalone
// backends such as EDEN. Commands run through shell sessions, locally or
// over SSH.
package sim

import (
	"context"
	"reflect"
	"strings"

	"github.com/neuroml/gonml/model/run"
	"github.com/neuroml/gonml/model/types"
	"github.com/neuroml/gonml/service/dao"
	"github.com/neuroml/gonml/service/meta"
	"github.com/viant/afs"
)

const name = "sim"

// Service exposes simulation launching as an action service.
type Service struct {
	catalog *Catalog
	runner  *Runner
	store   dao.Service[string, run.Run]
	workers int
}

// RunOutput reports a single launch.
type RunOutput struct {
	Run *run.Run `json:"run"`
}

// EnginesInput lists the engine catalog.
type EnginesInput struct{}

// EnginesOutput holds the catalog engines.
type EnginesOutput struct {
	Engines []*Engine `json:"engines"`
}

// New creates a simulation service; nil arguments fall back to the built-in
// catalog, a plain file loader and no run persistence.
func New(catalog *Catalog, metaService *meta.Service, store dao.Service[string, run.Run]) (*Service, error) {
	var err error
	if catalog == nil {
		if catalog, err = NewCatalog(nil); err != nil {
			return nil, err
		}
	}
	if metaService == nil {
		metaService = meta.New(afs.New(), "")
	}
	return &Service{
		catalog: catalog,
		runner:  NewRunner(catalog, metaService),
		store:   store,
	}, nil
}

// Name returns the service name
func (s *Service) Name() string {
	return name
}

// Runner exposes the underlying runner for callers that bypass the action
// layer.
func (s *Service) Runner() *Runner {
	return s.runner
}

// WithWorkers sets the default batch worker pool size used when a request
// does not specify one.
func (s *Service) WithWorkers(workers int) *Service {
	s.workers = workers
	return s
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "run",
			Description: "Runs a LEMS simulation file with the selected engine.",
			Input:       reflect.TypeOf(&Request{}),
			Output:      reflect.TypeOf(&RunOutput{}),
		},
		{
			Name:        "batch",
			Description: "Runs a set of LEMS simulation files with a worker pool.",
			Input:       reflect.TypeOf(&BatchRequest{}),
			Output:      reflect.TypeOf(&BatchResult{}),
		},
		{
			Name:        "engines",
			Description: "Lists the available simulation engines.",
			Input:       reflect.TypeOf(&EnginesInput{}),
			Output:      reflect.TypeOf(&EnginesOutput{}),
		},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "run":
		return s.run, nil
	case "batch":
		return s.batch, nil
	case "engines":
		return s.engines, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) run(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*Request)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*RunOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	record, err := s.runner.Run(ctx, input)
	if err != nil {
		return err
	}
	if s.store != nil {
		if err = s.store.Save(ctx, record); err != nil {
			return err
		}
	}
	output.Run = record
	return nil
}

func (s *Service) batch(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*BatchRequest)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*BatchResult)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	if input.Workers <= 0 {
		input.Workers = s.workers
	}
	result, err := s.runner.RunBatch(ctx, input, s.store)
	if err != nil {
		return err
	}
	*output = *result
	return nil
}

func (s *Service) engines(_ context.Context, in, out interface{}) error {
	if _, ok := in.(*EnginesInput); !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*EnginesOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	output.Engines = s.catalog.Engines
	return nil
}

// Close releases runner sessions.
func (s *Service) Close() error {
	return s.runner.Close()
}
