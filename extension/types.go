package extension

import (
	"github.com/viant/x"
)

// Types is the registry of input/output data types exposed by toolkit
// services, so loosely-typed invocations can be converted to the right Go
// structs.
type Types struct {
	x.Registry
}

// Register adds a data type to the registry
func (t *Types) Register(dataType *x.Type) {
	t.Registry.Register(dataType)
}

// Lookup returns a data type from the registry, or nil when unknown.
func (t *Types) Lookup(name string) *x.Type {
	return t.Registry.Lookup(name)
}

// NewTypes creates a new data type registry.
func NewTypes() *Types {
	return &Types{Registry: *x.NewRegistry()}
}
