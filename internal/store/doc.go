// Package store defines interfaces for run history dependencies. Implementations
// live in subpackages; this package must not import concrete clients.
package store
