package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/neuroml/gonml/model/types"
	"github.com/neuroml/gonml/service/meta"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

const name = "archive"

// Service creates COMBINE archives.
type Service struct {
	fs   afs.Service
	meta *meta.Service
}

// Input requests a COMBINE archive for a master simulation file.
type Input struct {
	SourceURL string   `json:"sourceURL" description:"master LEMS or NeuroML file"`
	DestURL   string   `json:"destURL,omitempty" description:"archive location, defaults to the master name with .omex"`
	Extra     []string `json:"extra,omitempty" description:"additional files to package, relative to the master"`
}

// Output reports the created archive.
type Output struct {
	DestURL string   `json:"destURL"`
	Files   []string `json:"files"`
}

// New creates an archive service.
func New(metaService *meta.Service) *Service {
	if metaService == nil {
		metaService = meta.New(afs.New(), "")
	}
	return &Service{fs: afs.New(), meta: metaService}
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
			Description: "Packages a simulation and its includes into a COMBINE archive.",
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
	if input.SourceURL == "" {
		return fmt.Errorf("sourceURL was empty")
	}

	baseURL, master := url.Split(input.SourceURL, file.Scheme)
	resolver := newResolver(s.meta, baseURL)
	if err := resolver.resolve(ctx, master); err != nil {
		return err
	}
	for _, extra := range input.Extra {
		resolver.add(extra)
	}

	manifest := NewManifest()
	for i, location := range resolver.files {
		manifest.Add(location, i == 0)
	}
	manifestData, err := manifest.Encode()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	entry, err := writer.Create(ManifestName)
	if err != nil {
		return err
	}
	if _, err = entry.Write(manifestData); err != nil {
		return err
	}
	for _, location := range resolver.files {
		data, err := s.meta.Download(ctx, url.Join(baseURL, location))
		if err != nil {
			return err
		}
		entry, err := writer.Create(location)
		if err != nil {
			return err
		}
		if _, err = entry.Write(data); err != nil {
			return err
		}
	}
	if err = writer.Close(); err != nil {
		return fmt.Errorf("failed to finalise archive: %w", err)
	}

	destURL := input.DestURL
	if destURL == "" {
		destURL = strings.TrimSuffix(input.SourceURL, ".xml")
		destURL = strings.TrimSuffix(destURL, ".nml") + ".omex"
	}
	if err = s.fs.Upload(ctx, destURL, 0644, &buf); err != nil {
		return fmt.Errorf("failed to store archive at %v: %w", destURL, err)
	}
	output.DestURL = destURL
	output.Files = resolver.files
	return nil
}
