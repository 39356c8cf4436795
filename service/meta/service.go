// Package meta loads model documents and catalog files from storage
// locations, decoding them by extension.
package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/neuroml/gonml/model/lems"
	"github.com/neuroml/gonml/model/neuroml"
	"github.com/neuroml/gonml/model/swc"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service loads documents from storage; relative locations resolve against
// the base URL.
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// New creates a new meta service.
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	return &Service{fs: fs, baseURL: baseURL, options: options}
}

// ResolveURL joins a relative location with the base URL; absolute locations
// pass through unchanged.
func (s *Service) ResolveURL(location string) string {
	if s.baseURL == "" || !url.IsRelative(location) {
		return location
	}
	return url.Join(s.baseURL, location)
}

// Download fetches the raw content of a location.
func (s *Service) Download(ctx context.Context, location string) ([]byte, error) {
	data, err := s.fs.DownloadWithURL(ctx, s.ResolveURL(location), s.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load %v: %w", location, err)
	}
	return data, nil
}

// Load fetches a location and decodes it into target based on extension;
// .yaml/.yml and .json are supported.
func (s *Service) Load(ctx context.Context, location string, target interface{}) error {
	data, err := s.Download(ctx, location)
	if err != nil {
		return err
	}
	switch {
	case strings.HasSuffix(location, ".yaml"), strings.HasSuffix(location, ".yml"):
		if err = yaml.Unmarshal(data, target); err != nil {
			return fmt.Errorf("failed to decode %v: %w", location, err)
		}
	case strings.HasSuffix(location, ".json"):
		if err = json.Unmarshal(data, target); err != nil {
			return fmt.Errorf("failed to decode %v: %w", location, err)
		}
	default:
		return fmt.Errorf("unsupported document format: %v", location)
	}
	return nil
}

// LoadNeuroML fetches and parses a NeuroML document.
func (s *Service) LoadNeuroML(ctx context.Context, location string) (*neuroml.Document, error) {
	data, err := s.Download(ctx, location)
	if err != nil {
		return nil, err
	}
	document, err := neuroml.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse NeuroML %v: %w", location, err)
	}
	return document, nil
}

// LoadLEMS fetches and parses a LEMS simulation file.
func (s *Service) LoadLEMS(ctx context.Context, location string) (*lems.File, error) {
	data, err := s.Download(ctx, location)
	if err != nil {
		return nil, err
	}
	file, err := lems.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse LEMS %v: %w", location, err)
	}
	return file, nil
}

// LoadSWC fetches and parses an SWC morphology file.
func (s *Service) LoadSWC(ctx context.Context, location string) (*swc.Graph, error) {
	data, err := s.Download(ctx, location)
	if err != nil {
		return nil, err
	}
	graph, err := swc.Parse(data, s.ResolveURL(location))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SWC %v: %w", location, err)
	}
	return graph, nil
}

// Exists checks whether a location is present in storage.
func (s *Service) Exists(ctx context.Context, location string) (bool, error) {
	return s.fs.Exists(ctx, s.ResolveURL(location), s.options...)
}
