package telemetry

import (
	"context"
	"io"

	"github.com/Lemventory/forge/internal/core/domain"
	"github.com/Lemventory/forge/internal/core/ports"
)

// Noop discards all recording. Tests and quiet mode use it.
type Noop struct{}

var _ ports.Telemetry = (*Noop)(nil)

// NewNoop creates a Noop telemetry sink.
func NewNoop() *Noop {
	return &Noop{}
}

// Record returns a vertex that swallows everything.
func (n *Noop) Record(ctx context.Context, _ string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
	v := &noopVertex{}
	return ports.ContextWithVertex(ctx, v), v
}

// Close does nothing.
func (n *Noop) Close() error {
	return nil
}

type noopVertex struct{}

var _ ports.Vertex = (*noopVertex)(nil)

func (v *noopVertex) Stdout() io.Writer               { return io.Discard }
func (v *noopVertex) Stderr() io.Writer               { return io.Discard }
func (v *noopVertex) Log(_ domain.LogLevel, _ string) {}
func (v *noopVertex) Complete(_ error)                {}
func (v *noopVertex) Cached()                         {}
