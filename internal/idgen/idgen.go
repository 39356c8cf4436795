package idgen

import "github.com/google/uuid"

// NewFunc produces run, batch and message identifiers; tests replace it to
// get stable ids.
var NewFunc = func() string { return uuid.New().String() }

// New returns the next identifier from NewFunc.
func New() string { return NewFunc() }
