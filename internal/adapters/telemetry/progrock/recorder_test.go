package progrock_test

import (
	"context"
	"testing"

	"github.com/Lemventory/forge/internal/adapters/telemetry/progrock"
	"github.com/Lemventory/forge/internal/core/domain"
	"github.com/Lemventory/forge/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	recorder := progrock.New()
	assert.NotNil(t, recorder)
	require.NoError(t, recorder.Close())
}

func TestRecorder_VertexLifecycle(t *testing.T) {
	recorder := progrock.New()

	ctx, vertex := recorder.Record(context.Background(), "compile backend")

	fromCtx, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, vertex, fromCtx)

	_, err := vertex.Stdout().Write([]byte("Compiling lemmy_server v0.19.0\n"))
	require.NoError(t, err)
	_, err = vertex.Stderr().Write([]byte("warning: unused import\n"))
	require.NoError(t, err)

	vertex.Log(domain.LogLevelDebug, "lockfile verified")
	vertex.Complete(nil)

	require.NoError(t, recorder.Close())
}

func TestRecorder_CachedVertex(t *testing.T) {
	recorder := progrock.New()

	_, vertex := recorder.Record(context.Background(), "fetch ui source")
	vertex.Cached()

	require.NoError(t, recorder.Close())
}

func TestRecorder_CompleteWithError(t *testing.T) {
	recorder := progrock.New()

	_, vertex := recorder.Record(context.Background(), "link")
	_, err := vertex.Stderr().Write([]byte("ld: library not found\n"))
	require.NoError(t, err)
	vertex.Complete(assert.AnError)

	require.NoError(t, recorder.Close())
}
