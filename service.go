package gonml

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/neuroml/gonml/extension"
	"github.com/neuroml/gonml/model/run"
	"github.com/neuroml/gonml/model/types"
	"github.com/neuroml/gonml/policy"
	"github.com/neuroml/gonml/service/analysis"
	"github.com/neuroml/gonml/service/annotations"
	"github.com/neuroml/gonml/service/archive"
	"github.com/neuroml/gonml/service/convert"
	"github.com/neuroml/gonml/service/dao"
	rfs "github.com/neuroml/gonml/service/dao/run/fs"
	rmemory "github.com/neuroml/gonml/service/dao/run/memory"
	"github.com/neuroml/gonml/service/meta"
	"github.com/neuroml/gonml/service/results"
	"github.com/neuroml/gonml/service/sim"
	"github.com/neuroml/gonml/service/validate"
	"github.com/neuroml/gonml/tracing"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/structology/conv"
	"github.com/viant/x"
)

// Service is the toolkit facade: it wires the action services together and
// dispatches loosely-typed invocations.
type Service struct {
	config            *Config
	metaService       *meta.Service
	metaFsOptions     []storage.Option
	actions           *extension.Actions
	extensionTypes    []*x.Type
	extensionServices []types.Service
	converter         *conv.Converter
	runDAO            dao.Service[string, run.Run]
	catalog           *sim.Catalog
	simService        *sim.Service
	runtime           *Runtime
}

// New creates a toolkit service.
func New(options ...Option) (*Service, error) {
	s := &Service{config: DefaultConfig()}
	for _, option := range options {
		option(s)
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) init() error {
	if err := s.config.Validate(); err != nil {
		return err
	}
	if err := s.ensureBaseSetup(); err != nil {
		return err
	}

	simService, err := sim.New(s.catalog, s.metaService, s.runDAO)
	if err != nil {
		return err
	}
	s.simService = simService.WithWorkers(s.config.Sim.Workers)

	s.actions = extension.NewActions(s.extensionTypes...)
	s.actions.Register(convert.New())
	s.actions.Register(validate.New(s.metaService).WithLauncher(simService.Runner()))
	s.actions.Register(results.New(s.metaService))
	s.actions.Register(analysis.New(s.metaService))
	s.actions.Register(archive.New(s.metaService))
	s.actions.Register(annotations.New())
	s.actions.Register(simService)
	for _, service := range s.extensionServices {
		s.actions.Register(service)
	}

	converterOptions := conv.DefaultOptions()
	converterOptions.ClonePointerData = true
	converterOptions.IgnoreUnmapped = true
	converterOptions.AccessUnexported = true
	s.converter = conv.NewConverter(converterOptions)

	s.runtime = &Runtime{service: s}
	return nil
}

func (s *Service) ensureBaseSetup() error {
	if s.metaService == nil {
		s.metaService = meta.New(afs.New(), s.config.Meta.BaseURL, s.metaFsOptions...)
	}
	if s.runDAO == nil {
		if s.config.Sim.RunsURL != "" {
			s.runDAO = rfs.New(s.config.Sim.RunsURL)
		} else {
			s.runDAO = rmemory.New()
		}
	}
	if s.catalog == nil {
		var content []byte
		if s.config.Sim.CatalogURL != "" {
			var err error
			if content, err = s.metaService.Download(context.Background(), s.config.Sim.CatalogURL); err != nil {
				return err
			}
		}
		catalog, err := sim.NewCatalog(content)
		if err != nil {
			return err
		}
		s.catalog = catalog
	}
	return nil
}

// Runtime returns the typed convenience API.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// Actions exposes the action service registry.
func (s *Service) Actions() *extension.Actions {
	return s.actions
}

// Runs exposes the run record store.
func (s *Service) Runs() dao.Service[string, run.Run] {
	return s.runDAO
}

// RegisterExtensionTypes registers additional data types.
func (s *Service) RegisterExtensionTypes(types ...*x.Type) {
	for i := range types {
		s.actions.Types().Register(types[i])
	}
}

// RegisterExtensionServices registers additional action services.
func (s *Service) RegisterExtensionServices(services ...types.Service) {
	for i := range services {
		s.actions.Register(services[i])
	}
}

// NewContext derives a context carrying the configured launch policy.
func (s *Service) NewContext(ctx context.Context) context.Context {
	if s.config.Policy != nil {
		ctx = policy.WithPolicy(ctx, policy.FromConfig(s.config.Policy))
	}
	return ctx
}

// Invoke dispatches an action named "service.method" with a loosely-typed
// input (typically a map decoded from JSON or YAML) and returns the typed
// output.
func (s *Service) Invoke(ctx context.Context, action string, input interface{}) (interface{}, error) {
	index := strings.LastIndex(action, ".")
	if index == -1 {
		return nil, fmt.Errorf("invalid action %q, expected service.method", action)
	}
	serviceName, methodName := action[:index], action[index+1:]
	actionService := s.actions.Lookup(serviceName)
	if actionService == nil {
		return nil, fmt.Errorf("service %v not found", serviceName)
	}
	signature := actionService.Methods().Lookup(methodName)
	if signature == nil {
		return nil, types.NewMethodNotFoundError(methodName)
	}
	method, err := actionService.Method(methodName)
	if err != nil {
		return nil, err
	}

	in := reflect.New(signature.Input.Elem()).Interface()
	if input != nil {
		if reflect.TypeOf(input) == signature.Input {
			in = input
		} else if err = s.converter.Convert(input, in); err != nil {
			return nil, fmt.Errorf("failed to convert input for %v: %w", action, err)
		}
	}
	out := reflect.New(signature.Output.Elem()).Interface()

	ctx, span := tracing.StartSpan(ctx, action)
	err = method(ctx, in, out)
	tracing.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}
