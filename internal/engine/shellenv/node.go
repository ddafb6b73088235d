package shellenv

import (
	"context"

	"github.com/Lemventory/forge/internal/adapters/shell"
	"github.com/Lemventory/forge/internal/adapters/telemetry"
	"github.com/Lemventory/forge/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the shell composer Graft node.
const NodeID graft.ID = "engine.shellenv"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Engine, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return New(runner, tel), nil
		},
	})
}
