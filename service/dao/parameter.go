package dao

// Parameter is a named filter applied by List implementations; the run
// stores understand "engine" and "state".
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter creates a list filter; a single value stays scalar, several
// become a slice.
func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}
