package ports

import "github.com/Lemventory/forge/internal/core/domain"

// InputReader parses the pinned input files named by the descriptor: the
// backend manifest, the two lockfiles and the toolchain pin. Parsed values
// are snapshots; nothing re-reads them mid-build.
//
//go:generate go run go.uber.org/mock/mockgen -source=inputs.go -destination=mocks/mock_inputs.go -package=mocks
type InputReader interface {
	// ReadManifest parses the backend package manifest.
	ReadManifest(path string) (domain.Manifest, error)

	// ReadLockfile parses the backend lockfile and records its content digest.
	ReadLockfile(path string) (domain.Lockfile, error)

	// ReadToolchainPin parses a toolchain pin file.
	ReadToolchainPin(path string) (domain.ToolchainPin, error)

	// ReadUILockfile parses the front-end lockfile.
	ReadUILockfile(path string) (domain.UILockfile, error)
}
