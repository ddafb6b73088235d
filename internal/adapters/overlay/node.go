package overlay

import (
	"context"

	"github.com/Lemventory/forge/internal/core/ports"
	"github.com/grindlemire/graft"
)

const MergerNodeID graft.ID = "adapter.overlay.merger"

func init() {
	// Merger Node
	graft.Register(graft.Node[ports.TreeMerger]{
		ID:        MergerNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.TreeMerger, error) {
			return NewMerger(), nil
		},
	})
}
