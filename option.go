package gonml

import (
	"github.com/neuroml/gonml/model/run"
	"github.com/neuroml/gonml/model/types"
	"github.com/neuroml/gonml/policy"
	"github.com/neuroml/gonml/service/dao"
	"github.com/neuroml/gonml/service/meta"
	"github.com/neuroml/gonml/service/sim"
	"github.com/viant/afs/storage"
	"github.com/viant/x"
)

// Option customises the toolkit service.
type Option func(s *Service)

// WithConfig replaces the whole configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithMetaService sets the document loader.
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) {
		s.metaService = service
	}
}

// WithMetaBaseURL sets the base location relative documents resolve against.
func WithMetaBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.config.Meta.BaseURL = baseURL
	}
}

// WithMetaFsOptions sets storage options for document loading.
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.metaFsOptions = options
	}
}

// WithRunDAO sets the run record store.
func WithRunDAO(service dao.Service[string, run.Run]) Option {
	return func(s *Service) {
		s.runDAO = service
	}
}

// WithCatalog sets the simulation engine catalog.
func WithCatalog(catalog *sim.Catalog) Option {
	return func(s *Service) {
		s.catalog = catalog
	}
}

// WithPolicy sets the launch approval policy applied by NewContext.
func WithPolicy(config *policy.Config) Option {
	return func(s *Service) {
		s.config.Policy = config
	}
}

// WithExtensionTypes registers additional data types.
func WithExtensionTypes(types ...*x.Type) Option {
	return func(s *Service) {
		s.extensionTypes = types
	}
}

// WithExtensionServices registers additional action services.
func WithExtensionServices(services ...types.Service) Option {
	return func(s *Service) {
		s.extensionServices = services
	}
}
