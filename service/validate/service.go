// Package validate checks NeuroML documents and LEMS simulation files for
// structural problems before they are handed to a simulator.
package validate

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/neuroml/gonml/model/lems"
	"github.com/neuroml/gonml/model/run"
	"github.com/neuroml/gonml/model/types"
	"github.com/neuroml/gonml/model/units"
	"github.com/neuroml/gonml/service/meta"
	"github.com/neuroml/gonml/service/sim"
	"github.com/viant/afs"
)

const name = "validate"

// Launcher runs a validation command through a simulation engine.
type Launcher interface {
	Run(ctx context.Context, request *sim.Request) (*run.Run, error)
}

// Service validates model files.
type Service struct {
	meta     *meta.Service
	launcher Launcher
}

// Issue describes a single validation finding.
type Issue struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// Input lists the files to validate.
type Input struct {
	URLs []string `json:"urls" description:"locations of NeuroML or LEMS files to validate"`
	// Deep additionally runs each file through the jNeuroML validator.
	Deep   bool   `json:"deep,omitempty"`
	Engine string `json:"engine,omitempty" description:"engine used for deep validation, default jnml"`
}

// Output reports the validation result.
type Output struct {
	Valid  bool     `json:"valid"`
	Files  int      `json:"files"`
	Issues []*Issue `json:"issues,omitempty"`
}

// New creates a new validation service.
func New(metaService *meta.Service) *Service {
	if metaService == nil {
		metaService = meta.New(afs.New(), "")
	}
	return &Service{meta: metaService}
}

// WithLauncher enables deep validation through the supplied engine launcher.
func (s *Service) WithLauncher(launcher Launcher) *Service {
	s.launcher = launcher
	return s
}

// Name returns the service name
func (s *Service) Name() string {
	return name
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "check",
			Description: "Validates NeuroML documents and LEMS simulation files.",
			Input:       reflect.TypeOf(&Input{}),
			Output:      reflect.TypeOf(&Output{}),
		},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "check":
		return s.check, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) check(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*Input)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	if len(input.URLs) == 0 {
		return fmt.Errorf("validation input was empty")
	}
	for _, URL := range input.URLs {
		issues, err := s.checkFile(ctx, URL)
		if err != nil {
			return err
		}
		output.Issues = append(output.Issues, issues...)
		output.Files++
	}
	if input.Deep {
		issues, err := s.checkDeep(ctx, input)
		if err != nil {
			return err
		}
		output.Issues = append(output.Issues, issues...)
	}
	output.Valid = len(output.Issues) == 0
	return nil
}

// checkDeep runs each file through the external jNeuroML validator.
func (s *Service) checkDeep(ctx context.Context, input *Input) ([]*Issue, error) {
	if s.launcher == nil {
		return nil, fmt.Errorf("deep validation requires a simulation runner")
	}
	engine := input.Engine
	if engine == "" {
		engine = "jnml"
	}
	var issues []*Issue
	for _, URL := range input.URLs {
		record, err := s.launcher.Run(ctx, &sim.Request{
			SourceURL: URL,
			Engine:    engine,
			Args:      []string{"-validate"},
		})
		if err != nil {
			return nil, err
		}
		switch record.State {
		case run.StateCompleted:
		case run.StateDenied:
			issues = append(issues, &Issue{Location: URL, Message: fmt.Sprintf("deep validation with %v was denied by policy", engine)})
		default:
			message := record.Error
			if message == "" {
				message = strings.TrimSpace(record.Stdout)
			}
			issues = append(issues, &Issue{Location: URL, Message: fmt.Sprintf("deep validation with %v failed: %v", engine, message)})
		}
	}
	return issues, nil
}

func (s *Service) checkFile(ctx context.Context, URL string) ([]*Issue, error) {
	lower := strings.ToLower(URL)
	switch {
	case strings.HasSuffix(lower, ".nml"):
		return s.checkNeuroML(ctx, URL)
	case strings.HasSuffix(lower, ".xml"):
		if strings.Contains(strings.ToLower(URL), "lems") {
			return s.checkLEMS(ctx, URL)
		}
		return s.checkNeuroML(ctx, URL)
	default:
		return nil, fmt.Errorf("unsupported file type: %v", URL)
	}
}

func (s *Service) checkNeuroML(ctx context.Context, URL string) ([]*Issue, error) {
	document, err := s.meta.LoadNeuroML(ctx, URL)
	if err != nil {
		return nil, err
	}
	var issues []*Issue
	for _, problem := range document.Validate() {
		issues = append(issues, &Issue{Location: URL, Message: problem.Error()})
	}
	return issues, nil
}

func (s *Service) checkLEMS(ctx context.Context, URL string) ([]*Issue, error) {
	file, err := s.meta.LoadLEMS(ctx, URL)
	if err != nil {
		return nil, err
	}
	var issues []*Issue
	report := func(format string, args ...interface{}) {
		issues = append(issues, &Issue{Location: URL, Message: fmt.Sprintf(format, args...)})
	}

	if file.Target == nil {
		report("missing Target element")
	}
	if len(file.Simulations) == 0 {
		report("missing Simulation element")
		return issues, nil
	}
	targets := make(map[string]bool)
	if file.Target != nil {
		targets[file.Target.Component] = true
	}
	for _, simulation := range file.Simulations {
		if !targets[simulation.ID] && file.Target != nil {
			report("simulation %v is not referenced by the Target", simulation.ID)
		}
		for _, field := range []struct{ name, value string }{
			{"length", simulation.Length},
			{"step", simulation.Step},
		} {
			if field.value == "" {
				report("simulation %v has no %v", simulation.ID, field.name)
				continue
			}
			if _, err := units.Convert(field.value, "ms"); err != nil {
				report("simulation %v has invalid %v: %v", simulation.ID, field.name, err)
			}
		}
		if simulation.Target == "" {
			report("simulation %v has no target network", simulation.ID)
		}
		for _, outputFile := range simulation.OutputFiles {
			if outputFile.FileName == "" {
				report("output file %v has no file name", outputFile.ID)
			}
		}
		for _, eventFile := range simulation.EventOutputFiles {
			if eventFile.Format != lems.FormatTimeID && eventFile.Format != lems.FormatIDTime {
				report("event output file %v has unknown format %v", eventFile.ID, eventFile.Format)
			}
		}
	}
	return issues, nil
}
