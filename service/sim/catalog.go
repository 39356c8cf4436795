package sim

import (
	_ "embed"
	"fmt"
	"path"
	"strings"

	"github.com/viant/toolbox/data"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Engine describes a simulation backend and the command used to launch it.
// The command template expands $file (LEMS file name), $dir (working
// directory) and $args (extra arguments).
type Engine struct {
	ID          string            `json:"id" yaml:"id"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Command     string            `json:"command" yaml:"command"`
	Env         map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	TimeoutMs   int               `json:"timeoutMs,omitempty" yaml:"timeoutMs,omitempty"`
}

// Expand renders the launch command for a LEMS file.
func (e *Engine) Expand(fileURL, workDir string, args []string) string {
	aMap := data.NewMap()
	aMap.Put("file", path.Base(fileURL))
	aMap.Put("dir", workDir)
	aMap.Put("args", strings.Join(args, " "))
	return strings.TrimSpace(aMap.ExpandAsText(e.Command))
}

// Catalog holds the known simulation engines.
type Catalog struct {
	Engines []*Engine `json:"engines" yaml:"engines"`
}

// Engine returns the engine with the given id.
func (c *Catalog) Engine(id string) (*Engine, error) {
	for _, engine := range c.Engines {
		if engine.ID == id {
			return engine, nil
		}
	}
	return nil, fmt.Errorf("unknown simulation engine: %v", id)
}

// IDs returns the catalog engine ids in declaration order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.Engines))
	for _, engine := range c.Engines {
		ids = append(ids, engine.ID)
	}
	return ids
}

// NewCatalog decodes a catalog from YAML; with no data the built-in catalog
// is used.
func NewCatalog(content []byte) (*Catalog, error) {
	if len(content) == 0 {
		content = defaultCatalog
	}
	catalog := &Catalog{}
	if err := yaml.Unmarshal(content, catalog); err != nil {
		return nil, fmt.Errorf("failed to decode engine catalog: %w", err)
	}
	if len(catalog.Engines) == 0 {
		return nil, fmt.Errorf("engine catalog was empty")
	}
	return catalog, nil
}
