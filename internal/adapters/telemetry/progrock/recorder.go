// Package progrock records build progress through the progrock library.
// Each step becomes a vertex on an update stream keyed by a digest of its
// name, so replays of the same pipeline line up vertex for vertex.
package progrock

import (
	"context"

	"github.com/Lemventory/forge/internal/core/ports"
	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
)

// Recorder implements ports.Telemetry on a progrock update stream.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

var _ ports.Telemetry = (*Recorder)(nil)

// New creates a Recorder backed by a fresh tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a Recorder emitting updates to w.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Record starts a vertex named after the step. Options are only meaningful
// to the log bridge; the tape shows every vertex.
func (r *Recorder) Record(ctx context.Context, name string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
	d := digest.FromString(name)
	v := newVertex(r.rec.Vertex(d, name))
	return ports.ContextWithVertex(ctx, v), v
}

// Close flushes and closes the update stream.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
