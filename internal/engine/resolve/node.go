package resolve

import (
	"context"

	"github.com/Lemventory/forge/internal/adapters/manifest"
	"github.com/Lemventory/forge/internal/adapters/syslib"
	"github.com/Lemventory/forge/internal/adapters/telemetry"
	"github.com/Lemventory/forge/internal/adapters/toolchain"
	"github.com/Lemventory/forge/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the resolution engine Graft node.
const NodeID graft.ID = "engine.resolve"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			toolchain.NodeID,
			syslib.NodeID,
			manifest.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Engine, error) {
			toolchains, err := graft.Dep[ports.ToolchainResolver](ctx)
			if err != nil {
				return nil, err
			}

			locator, err := graft.Dep[ports.DependencyLocator](ctx)
			if err != nil {
				return nil, err
			}

			inputs, err := graft.Dep[ports.InputReader](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return New(toolchains, locator, inputs, tel), nil
		},
	})
}
