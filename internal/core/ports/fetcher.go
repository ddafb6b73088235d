package ports

import (
	"context"

	"github.com/Lemventory/forge/internal/core/domain"
)

// SourceFetcher materializes pinned external archives as local trees.
//
//go:generate go run go.uber.org/mock/mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type SourceFetcher interface {
	// Fetch downloads the ref's archive, verifies it against ref.ContentHash
	// and unpacks it into the content-addressed store. A tree already present
	// for the hash is returned without touching the network. Returns
	// domain.ErrSourceFetchFailure on download errors or hash mismatch.
	Fetch(ctx context.Context, ref domain.SourceRef) (string, error)

	// FetchArchive downloads an arbitrary archive URL, verifies it against
	// contentHash and unpacks it into the content-addressed store. Same
	// caching and failure semantics as Fetch.
	FetchArchive(ctx context.Context, url, contentHash string) (string, error)
}
