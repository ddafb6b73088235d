package progrock

import (
	"fmt"
	"io"

	"github.com/Lemventory/forge/internal/core/domain"
	"github.com/Lemventory/forge/internal/core/ports"
	"github.com/vito/progrock"
)

// Vertex wraps a *progrock.VertexRecorder. Output streams pass through a
// Batcher so chatty build tools do not flood the tape with one update per
// chunk.
type Vertex struct {
	vertex *progrock.VertexRecorder
	stdout *Batcher
	stderr *Batcher
}

var _ ports.Vertex = (*Vertex)(nil)

func newVertex(vr *progrock.VertexRecorder) *Vertex {
	return &Vertex{
		vertex: vr,
		stdout: NewBatcher(0, 0, func(p []byte) { _, _ = vr.Stdout().Write(p) }),
		stderr: NewBatcher(0, 0, func(p []byte) { _, _ = vr.Stderr().Write(p) }),
	}
}

// Stdout returns the batched standard output writer.
func (v *Vertex) Stdout() io.Writer {
	return v.stdout
}

// Stderr returns the batched error output writer.
func (v *Vertex) Stderr() io.Writer {
	return v.stderr
}

// Log records a structured message on the vertex's output stream.
func (v *Vertex) Log(level domain.LogLevel, msg string) {
	_, _ = fmt.Fprintf(v.stdout, "[%s] %s\n", level.String(), msg)
}

// Complete drains the batchers and marks the vertex finished.
func (v *Vertex) Complete(err error) {
	_ = v.stdout.Close()
	_ = v.stderr.Close()
	v.vertex.Done(err)
}

// Cached drains the batchers and marks the vertex as a cache hit.
func (v *Vertex) Cached() {
	_ = v.stdout.Close()
	_ = v.stderr.Close()
	v.vertex.Cached()
}
