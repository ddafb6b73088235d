package manifest

import (
	"context"

	"github.com/Lemventory/forge/internal/core/ports"
	"github.com/grindlemire/graft"
)

const NodeID graft.ID = "adapter.input_reader"

func init() {
	graft.Register(graft.Node[ports.InputReader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.InputReader, error) {
			return NewReader(), nil
		},
	})
}
