package builder

import (
	"context"

	"github.com/Lemventory/forge/internal/adapters/cas"
	"github.com/Lemventory/forge/internal/adapters/fetch"
	"github.com/Lemventory/forge/internal/adapters/fs"
	"github.com/Lemventory/forge/internal/adapters/manifest"
	"github.com/Lemventory/forge/internal/adapters/shell"
	"github.com/Lemventory/forge/internal/adapters/telemetry"
	"github.com/Lemventory/forge/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the builder engine Graft node.
const NodeID graft.ID = "engine.builder"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			manifest.NodeID,
			fs.HasherNodeID,
			fs.VerifierNodeID,
			fetch.NodeID,
			shell.NodeID,
			cas.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Engine, error) {
			inputs, err := graft.Dep[ports.InputReader](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.TreeHasher](ctx)
			if err != nil {
				return nil, err
			}

			verifier, err := graft.Dep[ports.ArtifactVerifier](ctx)
			if err != nil {
				return nil, err
			}

			fetcher, err := graft.Dep[ports.SourceFetcher](ctx)
			if err != nil {
				return nil, err
			}

			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.BuildStore](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return New(inputs, hasher, fetcher, runner, store, verifier, tel), nil
		},
	})
}
