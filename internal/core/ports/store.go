package ports

import "github.com/Lemventory/forge/internal/core/domain"

// BuildStore persists completed build outputs keyed by target. A stored
// output whose derivation ID matches the current inputs is a cache hit.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildStore interface {
	// Get retrieves the last recorded output for a target.
	// Returns nil, nil if not found.
	Get(target domain.BuildTarget) (*domain.BuildOutput, error)

	// Put stores the output.
	Put(output domain.BuildOutput) error
}
