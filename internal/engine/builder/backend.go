package builder

import (
	"context"
	"path/filepath"
	"time"

	"github.com/Lemventory/forge/internal/core/domain"
	"github.com/Lemventory/forge/internal/core/ports"
)

// buildBackend compiles the backend from its pinned, verified inputs.
func (e *Engine) buildBackend(ctx context.Context, desc *domain.Descriptor, res *domain.Resolution) (*domain.BuildOutput, error) {
	ctx, vertex := e.telemetry.Record(ctx, "build backend")

	out, hit, err := e.runBackend(ctx, vertex, desc, res)
	switch {
	case err != nil:
		vertex.Complete(err)
		return nil, err
	case hit:
		vertex.Cached()
	default:
		vertex.Complete(nil)
	}
	return out, nil
}

func (e *Engine) runBackend(
	ctx context.Context,
	vertex ports.Vertex,
	desc *domain.Descriptor,
	res *domain.Resolution,
) (*domain.BuildOutput, bool, error) {
	backend := desc.Backend

	manifest, err := e.inputs.ReadManifest(filepath.Join(backend.SourceDir, backend.ManifestPath))
	if err != nil {
		return nil, false, err
	}
	if err := manifest.Validate(); err != nil {
		return nil, false, err
	}

	lockfile, err := e.inputs.ReadLockfile(filepath.Join(backend.SourceDir, backend.LockfilePath))
	if err != nil {
		return nil, false, err
	}
	if err := lockfile.VerifyPin(backend.LockfileDigest); err != nil {
		return nil, false, err
	}
	if err := lockfile.Validate(); err != nil {
		return nil, false, err
	}

	// The stamp lands before the tree is hashed, so the source digest
	// covers the exact version constant the binary will report.
	if err := writeStamp(backend.SourceDir, backend.Stamp, manifest.Version); err != nil {
		return nil, false, err
	}

	sourceDigest, err := e.hasher.HashTree(backend.SourceDir)
	if err != nil {
		return nil, false, err
	}

	deps, err := res.BackendDeps()
	if err != nil {
		return nil, false, err
	}
	env, err := res.BackendEnv()
	if err != nil {
		return nil, false, err
	}

	id := domain.GenerateDerivationID(domain.DerivationInput{
		Target:         domain.TargetBackend,
		SourceDigest:   sourceDigest,
		LockfileDigest: lockfile.Digest,
		StampedVersion: manifest.Version,
		Toolchain:      res.Toolchain,
		NativeDeps:     deps,
		Command:        backend.Command,
	})

	if out, ok := e.cachedOutput(domain.TargetBackend, id, backend.SourceDir, backend.ArtifactPath); ok {
		return out, true, nil
	}

	vertex.Log(domain.LogLevelInfo, "compiling "+manifest.Name+" "+manifest.Version)
	err = e.runStep(ctx, "compile "+manifest.Name, ports.RunSpec{
		Dir:  backend.SourceDir,
		Args: backend.Command,
		Env:  env.Environ(),
	})
	if err != nil {
		return nil, false, err
	}

	if err := e.verifier.Verify(backend.SourceDir, []string{backend.ArtifactPath}); err != nil {
		return nil, false, err
	}

	artifact := filepath.Join(backend.SourceDir, backend.ArtifactPath)
	outputDigest, err := e.hasher.HashFile(artifact)
	if err != nil {
		return nil, false, err
	}

	output := domain.BuildOutput{
		Target:       domain.TargetBackend,
		Version:      manifest.Version,
		Path:         artifact,
		OutputDigest: outputDigest,
		DerivationID: id,
		Env:          env.Environ(),
		Timestamp:    time.Now(),
	}
	if err := e.store.Put(output); err != nil {
		return nil, false, err
	}

	return &output, false, nil
}
