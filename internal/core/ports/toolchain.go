// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"github.com/Lemventory/forge/internal/core/domain"
)

// ToolchainResolver turns a toolchain pin into a concrete installed toolchain.
//
// Implementations are responsible for:
//   - Looking the pin up in the release index (cache first, then network)
//   - Selecting the artifact for the host triple and requested target
//   - Materializing the toolchain on disk, content-addressed
//
// Resolution has no side effects beyond the network fetch and its cache.
//
//go:generate go run go.uber.org/mock/mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks
type ToolchainResolver interface {
	// Resolve resolves a pin (e.g., stable@1.81.0) to an installed toolchain.
	// Returns domain.ErrUnresolvableToolchain if the channel, version or
	// triple cannot be satisfied.
	Resolve(ctx context.Context, pin domain.ToolchainPin) (domain.ToolchainSpec, error)
}
