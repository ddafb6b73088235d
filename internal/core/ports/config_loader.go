package ports

import "github.com/Lemventory/forge/internal/core/domain"

// ConfigLoader defines the interface for loading the project descriptor.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the descriptor from the given working directory, applies
	// defaults and validates it.
	Load(cwd string) (*domain.Descriptor, error)
}
