// Package uid provides identifier generators behind small interfaces so
// callers can swap deterministic implementations in tests.
package uid

// StringID generates opaque string identifiers.
type StringID interface {
	Generate() string
}
