package app

import (
	"context"

	"github.com/Lemventory/forge/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"github.com/Lemventory/forge/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"github.com/Lemventory/forge/internal/adapters/shell"     //nolint:depguard // Wired in app layer
	"github.com/Lemventory/forge/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	fswatch "github.com/Lemventory/forge/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"github.com/Lemventory/forge/internal/core/ports"
	"github.com/Lemventory/forge/internal/engine/builder"
	"github.com/Lemventory/forge/internal/engine/resolve"
	"github.com/Lemventory/forge/internal/engine/shellenv"
	"github.com/grindlemire/graft"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			resolve.NodeID,
			builder.NodeID,
			shellenv.NodeID,
			shell.NodeID,
			fswatch.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	resolver, err := graft.Dep[*resolve.Engine](ctx)
	if err != nil {
		return nil, err
	}

	bld, err := graft.Dep[*builder.Engine](ctx)
	if err != nil {
		return nil, err
	}

	composer, err := graft.Dep[*shellenv.Engine](ctx)
	if err != nil {
		return nil, err
	}

	runner, err := graft.Dep[ports.CommandRunner](ctx)
	if err != nil {
		return nil, err
	}

	watcher, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, resolver, bld, composer, runner, watcher, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	application, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tel, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return NewComponents(application, log, tel), nil
}
