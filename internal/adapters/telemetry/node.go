package telemetry

import (
	"context"
	"os"

	"github.com/Lemventory/forge/internal/adapters/logger"
	"github.com/Lemventory/forge/internal/adapters/telemetry/progrock"
	"github.com/Lemventory/forge/internal/core/ports"
	"github.com/grindlemire/graft"
)

const NodeID graft.ID = "adapter.telemetry"

// progressEnv selects the telemetry implementation: "rich" records onto a
// progrock tape, "off" discards, anything else streams through the logger.
const progressEnv = "FORGE_PROGRESS"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Telemetry, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			switch os.Getenv(progressEnv) {
			case "rich":
				return progrock.New(), nil
			case "off":
				return NewNoop(), nil
			default:
				return NewLogBridge(log), nil
			}
		},
	})
}
