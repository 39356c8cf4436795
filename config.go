package gonml

import (
	"fmt"

	"github.com/neuroml/gonml/policy"
)

// Config is a serialisable representation of the toolkit configuration. It
// can be populated from JSON or YAML; the zero value inherits the package
// defaults.
type Config struct {
	Meta   MetaConfig     `json:"meta" yaml:"meta"`
	Sim    SimConfig      `json:"sim" yaml:"sim"`
	Policy *policy.Config `json:"policy,omitempty" yaml:"policy,omitempty"`
}

// MetaConfig configures document loading.
type MetaConfig struct {
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
}

// SimConfig configures simulation launching.
type SimConfig struct {
	// Workers bounds the batch worker pool.
	Workers int `json:"workers" yaml:"workers"`
	// CatalogURL overrides the built-in engine catalog.
	CatalogURL string `json:"catalogURL,omitempty" yaml:"catalogURL,omitempty"`
	// RunsURL persists run records under this location; empty keeps them in
	// memory.
	RunsURL string `json:"runsURL,omitempty" yaml:"runsURL,omitempty"`
}

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() *Config {
	return &Config{
		Sim: SimConfig{Workers: 4},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Sim.Workers <= 0 {
		return fmt.Errorf("sim.workers must be > 0")
	}
	return nil
}
