package syslib

import (
	"context"

	"github.com/Lemventory/forge/internal/adapters/overlay"
	"github.com/Lemventory/forge/internal/core/ports"
	"github.com/grindlemire/graft"
)

const NodeID graft.ID = "adapter.dependency_locator"

func init() {
	graft.Register(graft.Node[ports.DependencyLocator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{overlay.MergerNodeID},
		Run: func(ctx context.Context) (ports.DependencyLocator, error) {
			merger, err := graft.Dep[ports.TreeMerger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLocator(merger), nil
		},
	})
}
