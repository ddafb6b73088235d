package toolchain

import (
	"context"

	"github.com/Lemventory/forge/internal/adapters/fetch"
	"github.com/Lemventory/forge/internal/core/ports"
	"github.com/grindlemire/graft"
)

const NodeID graft.ID = "adapter.toolchain_resolver"

func init() {
	graft.Register(graft.Node[ports.ToolchainResolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fetch.NodeID},
		Run: func(ctx context.Context) (ports.ToolchainResolver, error) {
			fetcher, err := graft.Dep[ports.SourceFetcher](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(fetcher)
		},
	})
}
