package cas

import (
	"context"

	"github.com/Lemventory/forge/internal/core/ports"
	"github.com/grindlemire/graft"
)

const NodeID graft.ID = "adapter.build_store"

func init() {
	graft.Register(graft.Node[ports.BuildStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.BuildStore, error) {
			return NewStore(), nil
		},
	})
}
