package gonml

import (
	"context"

	"github.com/neuroml/gonml/model/run"
	"github.com/neuroml/gonml/service/analysis"
	"github.com/neuroml/gonml/service/annotations"
	"github.com/neuroml/gonml/service/archive"
	"github.com/neuroml/gonml/service/convert"
	"github.com/neuroml/gonml/service/results"
	"github.com/neuroml/gonml/service/sim"
	"github.com/neuroml/gonml/service/validate"
)

// Runtime offers typed wrappers over the action services.
type Runtime struct {
	service *Service
}

// ConvertSWC converts an SWC morphology into a NeuroML document.
func (r *Runtime) ConvertSWC(ctx context.Context, input *convert.Input) (*convert.Output, error) {
	out, err := r.service.Invoke(ctx, "convert.swc2nml", input)
	if err != nil {
		return nil, err
	}
	return out.(*convert.Output), nil
}

// ExportSWC converts a NeuroML morphology back into an SWC file.
func (r *Runtime) ExportSWC(ctx context.Context, input *convert.ExportInput) (*convert.ExportOutput, error) {
	out, err := r.service.Invoke(ctx, "convert.nml2swc", input)
	if err != nil {
		return nil, err
	}
	return out.(*convert.ExportOutput), nil
}

// Validate checks NeuroML and LEMS files for structural problems.
func (r *Runtime) Validate(ctx context.Context, urls ...string) (*validate.Output, error) {
	out, err := r.service.Invoke(ctx, "validate.check", &validate.Input{URLs: urls})
	if err != nil {
		return nil, err
	}
	return out.(*validate.Output), nil
}

// Simulate launches a LEMS simulation, applying the configured launch
// policy.
func (r *Runtime) Simulate(ctx context.Context, request *sim.Request) (*run.Run, error) {
	out, err := r.service.Invoke(r.service.NewContext(ctx), "sim.run", request)
	if err != nil {
		return nil, err
	}
	return out.(*sim.RunOutput).Run, nil
}

// SimulateBatch launches a set of LEMS simulations with a worker pool.
func (r *Runtime) SimulateBatch(ctx context.Context, request *sim.BatchRequest) (*sim.BatchResult, error) {
	out, err := r.service.Invoke(r.service.NewContext(ctx), "sim.batch", request)
	if err != nil {
		return nil, err
	}
	return out.(*sim.BatchResult), nil
}

// Engines lists the simulation engine catalog.
func (r *Runtime) Engines(ctx context.Context) ([]*sim.Engine, error) {
	out, err := r.service.Invoke(ctx, "sim.engines", &sim.EnginesInput{})
	if err != nil {
		return nil, err
	}
	return out.(*sim.EnginesOutput).Engines, nil
}

// Traces loads a simulation trace file.
func (r *Runtime) Traces(ctx context.Context, input *results.TracesInput) (*results.Traces, error) {
	out, err := r.service.Invoke(ctx, "results.traces", input)
	if err != nil {
		return nil, err
	}
	return out.(*results.TracesOutput).Traces, nil
}

// Events loads a spike event file.
func (r *Runtime) Events(ctx context.Context, input *results.EventsInput) (results.Events, error) {
	out, err := r.service.Invoke(ctx, "results.events", input)
	if err != nil {
		return nil, err
	}
	return out.(*results.EventsOutput).Events, nil
}

// Compare compares two trace files within a numeric tolerance.
func (r *Runtime) Compare(ctx context.Context, input *results.CompareInput) (*results.Comparison, error) {
	out, err := r.service.Invoke(ctx, "results.compare", input)
	if err != nil {
		return nil, err
	}
	return out.(*results.CompareOutput).Comparison, nil
}

// Spikes detects and summarises spikes in a voltage trace.
func (r *Runtime) Spikes(ctx context.Context, input *analysis.SpikesInput) (*analysis.SpikesOutput, error) {
	out, err := r.service.Invoke(ctx, "analysis.spikes", input)
	if err != nil {
		return nil, err
	}
	return out.(*analysis.SpikesOutput), nil
}

// Sweep builds a current/frequency or current/voltage curve.
func (r *Runtime) Sweep(ctx context.Context, input *analysis.SweepInput) (*analysis.SweepOutput, error) {
	out, err := r.service.Invoke(ctx, "analysis.sweep", input)
	if err != nil {
		return nil, err
	}
	return out.(*analysis.SweepOutput), nil
}

// CreateArchive packages a simulation into a COMBINE archive.
func (r *Runtime) CreateArchive(ctx context.Context, input *archive.Input) (*archive.Output, error) {
	out, err := r.service.Invoke(ctx, "archive.create", input)
	if err != nil {
		return nil, err
	}
	return out.(*archive.Output), nil
}

// Annotate renders model metadata as COMBINE RDF/XML.
func (r *Runtime) Annotate(ctx context.Context, input *annotations.Input) (*annotations.Output, error) {
	out, err := r.service.Invoke(ctx, "annotations.create", input)
	if err != nil {
		return nil, err
	}
	return out.(*annotations.Output), nil
}

// Close releases simulator sessions.
func (r *Runtime) Close() error {
	return r.service.simService.Close()
}
