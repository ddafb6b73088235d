package fetch

import (
	"context"

	"github.com/Lemventory/forge/internal/core/ports"
	"github.com/grindlemire/graft"
)

const NodeID graft.ID = "adapter.source_fetcher"

func init() {
	graft.Register(graft.Node[ports.SourceFetcher]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.SourceFetcher, error) {
			return NewFetcher()
		},
	})
}
