package builder

import (
	"context"
	"path/filepath"
	"time"

	"github.com/Lemventory/forge/internal/core/domain"
	"github.com/Lemventory/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// buildUI fetches the pinned front-end tree and bundles it. The front-end
// derivation is fully independent of the backend: its own source, its own
// lockfile, its own toolchain. A failure here never invalidates a recorded
// backend output.
func (e *Engine) buildUI(ctx context.Context, desc *domain.Descriptor, res *domain.Resolution) (*domain.BuildOutput, error) {
	if !desc.HasUI() {
		return nil, zerr.With(domain.ErrInvalidDescriptor, "reason", "descriptor defines no ui target")
	}

	ctx, vertex := e.telemetry.Record(ctx, "build ui")

	out, hit, err := e.runUI(ctx, vertex, desc.UI, res)
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

func (e *Engine) runUI(
	ctx context.Context,
	vertex ports.Vertex,
	ui *domain.UISpec,
	res *domain.Resolution,
) (*domain.BuildOutput, bool, error) {
	vertex.Log(domain.LogLevelInfo, "fetching "+ui.Source.String())
	tree, err := e.fetcher.Fetch(ctx, ui.Source)
	if err != nil {
		return nil, false, err
	}

	lockfile, err := e.inputs.ReadUILockfile(filepath.Join(tree, ui.LockfilePath))
	if err != nil {
		return nil, false, err
	}
	if err := lockfile.Validate(); err != nil {
		return nil, false, err
	}
	// Native modules rebuild from source, so they must be pinned like
	// everything else before their rebuild step is allowed to run.
	for _, module := range ui.NativeModules {
		if !lockfile.HasPackage(module) {
			err := zerr.With(domain.ErrLockfileDrift, "reason", "native module not locked")
			return nil, false, zerr.With(err, "package", module)
		}
	}

	lockfileDigest, err := e.hasher.HashFile(filepath.Join(tree, ui.LockfilePath))
	if err != nil {
		return nil, false, err
	}

	deps, err := res.UIDeps()
	if err != nil {
		return nil, false, err
	}
	env, err := res.UIEnv()
	if err != nil {
		return nil, false, err
	}

	// The ID hashes the full pinned command sequence, rebuild step included,
	// so adding or removing a native module forces a fresh derivation.
	var rebuild []string
	if len(ui.NativeModules) > 0 {
		rebuild = append([]string{ui.InstallCommand[0], "rebuild"}, ui.NativeModules...)
	}
	sequence := append([]string{}, ui.InstallCommand...)
	sequence = append(sequence, rebuild...)
	sequence = append(sequence, ui.BuildCommand...)

	id := domain.GenerateDerivationID(domain.DerivationInput{
		Target:         domain.TargetUI,
		SourceDigest:   ui.Source.ContentHash,
		LockfileDigest: lockfileDigest,
		StampedVersion: ui.Source.Rev,
		Toolchain:      *res.UIToolchain,
		NativeDeps:     deps,
		Command:        sequence,
	})

	if out, ok := e.cachedOutput(domain.TargetUI, id, tree, ui.ArtifactPath); ok {
		return out, true, nil
	}

	environ := env.Environ()
	err = e.runStep(ctx, "install ui dependencies", ports.RunSpec{
		Dir:  tree,
		Args: ui.InstallCommand,
		Env:  environ,
	})
	if err != nil {
		return nil, false, err
	}

	if len(rebuild) > 0 {
		// Prebuilt native binaries link against whatever the publisher had
		// installed. Rebuilding pins them to the located image library.
		err = e.runStep(ctx, "rebuild ui native modules", ports.RunSpec{
			Dir:  tree,
			Args: rebuild,
			Env:  environ,
		})
		if err != nil {
			return nil, false, err
		}
	}

	err = e.runStep(ctx, "bundle ui", ports.RunSpec{
		Dir:  tree,
		Args: ui.BuildCommand,
		Env:  environ,
	})
	if err != nil {
		return nil, false, err
	}

	if err := e.verifier.Verify(tree, []string{ui.ArtifactPath}); err != nil {
		return nil, false, err
	}

	artifact := filepath.Join(tree, ui.ArtifactPath)
	outputDigest, err := e.hasher.HashTree(artifact)
	if err != nil {
		return nil, false, err
	}

	output := domain.BuildOutput{
		Target:       domain.TargetUI,
		Version:      ui.Source.Rev,
		Path:         artifact,
		OutputDigest: outputDigest,
		DerivationID: id,
		Env:          environ,
		Timestamp:    time.Now(),
	}
	if err := e.store.Put(output); err != nil {
		return nil, false, err
	}

	return &output, false, nil
}
