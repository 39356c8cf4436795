// Package idgen generates unique identifiers for simulator runs and archive
// manifests; the generator can be stubbed in tests.
package idgen
