// Package builder turns a joined resolution into recorded build outputs.
// The backend derivation compiles the pinned source tree inside a
// constructed environment; the optional front-end derivation fetches its
// pinned tree and bundles it with its own toolchain. Identical inputs hash
// to identical derivation IDs, and a recorded output with a matching ID
// short-circuits the build.
package builder

import (
	"context"

	"github.com/Lemventory/forge/internal/core/domain"
	"github.com/Lemventory/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Engine drives derivations end to end: input verification, environment
// construction, the pinned commands, artifact verification and recording.
type Engine struct {
	inputs    ports.InputReader
	hasher    ports.TreeHasher
	fetcher   ports.SourceFetcher
	runner    ports.CommandRunner
	store     ports.BuildStore
	verifier  ports.ArtifactVerifier
	telemetry ports.Telemetry
}

// New creates a derivation builder.
func New(
	inputs ports.InputReader,
	hasher ports.TreeHasher,
	fetcher ports.SourceFetcher,
	runner ports.CommandRunner,
	store ports.BuildStore,
	verifier ports.ArtifactVerifier,
	telemetry ports.Telemetry,
) *Engine {
	return &Engine{
		inputs:    inputs,
		hasher:    hasher,
		fetcher:   fetcher,
		runner:    runner,
		store:     store,
		verifier:  verifier,
		telemetry: telemetry,
	}
}

// Build produces the named target's output. The resolution must already be
// joined; the builder never resolves anything itself.
func (e *Engine) Build(
	ctx context.Context,
	desc *domain.Descriptor,
	res *domain.Resolution,
	target domain.BuildTarget,
) (*domain.BuildOutput, error) {
	switch target {
	case domain.TargetBackend:
		return e.buildBackend(ctx, desc, res)
	case domain.TargetUI:
		return e.buildUI(ctx, desc, res)
	default:
		return nil, zerr.With(domain.ErrUnknownTarget, "target", string(target))
	}
}

// runStep executes one pinned command under its own telemetry vertex,
// streaming the command's output into it.
func (e *Engine) runStep(ctx context.Context, name string, spec ports.RunSpec) error {
	_, vertex := e.telemetry.Record(ctx, name)
	spec.Name = name
	spec.Stdout = vertex.Stdout()
	spec.Stderr = vertex.Stderr()

	err := e.runner.Run(ctx, spec)
	vertex.Complete(err)
	return err
}

// cachedOutput returns the recorded output when its derivation ID matches the
// current inputs and the artifact is still on disk. A missing artifact is a
// miss, never an error; the build simply runs again.
func (e *Engine) cachedOutput(target domain.BuildTarget, id, root, artifact string) (*domain.BuildOutput, bool) {
	out, err := e.store.Get(target)
	if err != nil || out == nil || out.DerivationID != id {
		return nil, false
	}
	if err := e.verifier.Verify(root, []string{artifact}); err != nil {
		return nil, false
	}
	return out, true
}
