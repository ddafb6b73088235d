package ports

import (
	"context"

	"github.com/Lemventory/forge/internal/core/domain"
)

// DependencyLocator finds installed native libraries on the host.
//
//go:generate go run go.uber.org/mock/mockgen -source=locator.go -destination=mocks/mock_locator.go -package=mocks
type DependencyLocator interface {
	// Locate probes the given search roots for the named dependency and
	// returns a spec whose paths all belong to one consistent installation.
	// Returns domain.ErrMissingNativeDependency if no root provides it, or
	// domain.ErrInconsistentNativeDependency if the development and runtime
	// components disagree on their version.
	Locate(ctx context.Context, name string, roots []string) (domain.NativeDependencySpec, error)
}

// TreeMerger joins several directory trees into a single merged view.
// The locator uses it to unify split development/runtime installations
// before exposing a dependency's directories.
type TreeMerger interface {
	// Merge produces a merged view of roots under the given name. On path
	// collisions the earliest root wins. The same inputs always yield the
	// same view path, so repeated merges are free.
	Merge(name string, roots []string) (string, error)
}
