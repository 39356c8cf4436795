package archive

import (
	"context"
	"fmt"
	"strings"

	"github.com/neuroml/gonml/model/lems"
	"github.com/neuroml/gonml/model/neuroml"
	"github.com/neuroml/gonml/service/meta"
	"github.com/viant/afs/url"
)

// resolver walks include references starting from the master file and
// collects every model file the archive needs.
type resolver struct {
	meta    *meta.Service
	baseURL string
	seen    map[string]bool
	files   []string
}

func newResolver(metaService *meta.Service, baseURL string) *resolver {
	return &resolver{meta: metaService, baseURL: baseURL, seen: map[string]bool{}}
}

// resolve follows includes recursively; locations are archive-relative and
// must be NeuroML or LEMS files. The NeuroML2 core definition files ship
// with the simulators and are skipped.
func (r *resolver) resolve(ctx context.Context, location string) error {
	if r.seen[location] {
		return nil
	}
	if lems.IsStandardDefinition(location) {
		return nil
	}
	lower := strings.ToLower(location)
	isNeuroML := strings.HasSuffix(lower, ".nml")
	if !isNeuroML && !strings.HasSuffix(lower, ".xml") {
		return fmt.Errorf("unsupported file type for archive entry %v, expected .nml or .xml", location)
	}
	r.seen[location] = true
	r.files = append(r.files, location)

	data, err := r.meta.Download(ctx, url.Join(r.baseURL, location))
	if err != nil {
		return fmt.Errorf("failed to resolve archive entry %v: %w", location, err)
	}

	if isNeuroML {
		document, err := neuroml.Parse(data)
		if err != nil {
			return err
		}
		for _, include := range document.Includes {
			if err = r.resolve(ctx, relative(location, include.Href)); err != nil {
				return err
			}
		}
		return nil
	}
	file, err := lems.Parse(data)
	if err != nil {
		return err
	}
	for _, include := range file.Includes {
		if err = r.resolve(ctx, relative(location, include.File)); err != nil {
			return err
		}
	}
	return nil
}

// add records a file verbatim, without following includes; used for the
// caller-supplied extra files which may be of any type.
func (r *resolver) add(location string) {
	if r.seen[location] {
		return
	}
	r.seen[location] = true
	r.files = append(r.files, location)
}

// relative resolves an include reference against the directory of the
// including file, keeping the result archive-relative.
func relative(from, href string) string {
	if !strings.Contains(from, "/") {
		return href
	}
	dir := from[:strings.LastIndex(from, "/")]
	return dir + "/" + href
}
