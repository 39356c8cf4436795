package types

// Service is a named toolkit service exposing invocable methods
type Service interface {
	Name() string
	Methods() Signatures
	Method(name string) (Executable, error)
}
