package builder_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Lemventory/forge/internal/core/domain"
	"github.com/Lemventory/forge/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

const uiLockDigest = "sha256:uilockdigest"

func uiSourceRef() domain.SourceRef {
	return domain.SourceRef{
		Owner:       "LemmyNet",
		Repo:        "lemmy-ui",
		Rev:         "0.19.0",
		ContentHash: "sha256:ab12cd34",
	}
}

func uiDescriptor(sourceDir string) *domain.Descriptor {
	desc := backendDescriptor(sourceDir)
	desc.UI = &domain.UISpec{
		Source:         uiSourceRef(),
		LockfilePath:   "pnpm-lock.yaml",
		Toolchain:      domain.ToolchainPin{Channel: "nodejs", Version: "20.11.1"},
		NativeModules:  []string{"sass", "sharp"},
		InstallCommand: []string{"pnpm", "install", "--frozen-lockfile"},
		BuildCommand:   []string{"pnpm", "build"},
		ArtifactPath:   "dist",
	}
	return desc
}

func uiResolution() *domain.Resolution {
	res := backendResolution()
	res.UIToolchain = &domain.ToolchainSpec{
		Channel:         "nodejs",
		CompilerVersion: "20.11.1",
		HostTriple:      "x86_64-unknown-linux-gnu",
		TargetTriple:    "x86_64-unknown-linux-gnu",
		RootDir:         "/store/nodejs",
		BinDir:          "/store/nodejs/bin",
	}
	res.NativeDeps = append(res.NativeDeps, domain.NativeDependencySpec{
		Name:         domain.DepVips,
		Version:      "8.15.1",
		RootDir:      "/deps/vips",
		LibraryDir:   "/deps/vips/lib",
		IncludeDir:   "/deps/vips/include",
		PkgConfigDir: "/deps/vips/lib/pkgconfig",
	})
	return res
}

func uiLockfile() domain.UILockfile {
	return domain.UILockfile{
		FormatVersion: "9.0",
		Packages: map[string]domain.UILockedPackage{
			"sass@1.69.5":  {Version: "1.69.5", Integrity: "sha512-aaa"},
			"sharp@0.32.6": {Version: "0.32.6", Integrity: "sha512-bbb"},
		},
	}
}

func expectedUIID(t *testing.T, ui *domain.UISpec, res *domain.Resolution) string {
	t.Helper()
	deps, err := res.UIDeps()
	require.NoError(t, err)
	return domain.GenerateDerivationID(domain.DerivationInput{
		Target:         domain.TargetUI,
		SourceDigest:   ui.Source.ContentHash,
		LockfileDigest: uiLockDigest,
		StampedVersion: ui.Source.Rev,
		Toolchain:      *res.UIToolchain,
		NativeDeps:     deps,
		Command: []string{
			"pnpm", "install", "--frozen-lockfile",
			"pnpm", "rebuild", "sass", "sharp",
			"pnpm", "build",
		},
	})
}

func TestEngine_Build_UI_FetchesInstallsRebuildsBundles(t *testing.T) {
	ctrl := gomock.NewController(t)
	tree := t.TempDir()
	desc := uiDescriptor(t.TempDir())
	res := uiResolution()
	m := newBackendMocks(ctrl)

	m.fetcher.EXPECT().Fetch(gomock.Any(), uiSourceRef()).Return(tree, nil)
	m.inputs.EXPECT().ReadUILockfile(filepath.Join(tree, "pnpm-lock.yaml")).Return(uiLockfile(), nil)
	m.hasher.EXPECT().HashFile(filepath.Join(tree, "pnpm-lock.yaml")).Return(uiLockDigest, nil)
	m.store.EXPECT().Get(domain.TargetUI).Return(nil, nil)

	var steps []ports.RunSpec
	m.runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, spec ports.RunSpec) error {
			steps = append(steps, spec)
			return nil
		}).Times(3)
	m.verifier.EXPECT().Verify(tree, []string{"dist"}).Return(nil)
	m.hasher.EXPECT().HashTree(filepath.Join(tree, "dist")).Return("distdigest", nil)

	var recorded domain.BuildOutput
	m.store.EXPECT().Put(gomock.Any()).DoAndReturn(func(out domain.BuildOutput) error {
		recorded = out
		return nil
	})

	out, err := m.newEngine(ctrl).Build(t.Context(), desc, res, domain.TargetUI)
	require.NoError(t, err)

	require.Len(t, steps, 3)
	assert.Equal(t, []string{"pnpm", "install", "--frozen-lockfile"}, steps[0].Args)
	assert.Equal(t, []string{"pnpm", "rebuild", "sass", "sharp"}, steps[1].Args)
	assert.Equal(t, []string{"pnpm", "build"}, steps[2].Args)
	for _, step := range steps {
		assert.Equal(t, tree, step.Dir)
		assert.Contains(t, step.Env, "PKG_CONFIG_PATH=/deps/vips/lib/pkgconfig:/deps/pkg-config/lib/pkgconfig")
	}

	assert.Equal(t, expectedUIID(t, desc.UI, res), recorded.DerivationID)
	assert.Equal(t, "0.19.0", recorded.Version)
	assert.Equal(t, filepath.Join(tree, "dist"), recorded.Path)
	assert.Equal(t, "distdigest", recorded.OutputDigest)
	assert.Equal(t, &recorded, out)
}

func TestEngine_Build_UI_FetchFailureAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	desc := uiDescriptor(t.TempDir())
	m := newBackendMocks(ctrl)

	m.fetcher.EXPECT().Fetch(gomock.Any(), uiSourceRef()).
		Return("", zerr.With(domain.ErrSourceFetchFailure, "reason", "archive hash mismatch"))

	_, err := m.newEngine(ctrl).Build(t.Context(), desc, uiResolution(), domain.TargetUI)
	require.ErrorIs(t, err, domain.ErrSourceFetchFailure)
}

func TestEngine_Build_UI_UnlockedNativeModuleAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	tree := t.TempDir()
	desc := uiDescriptor(t.TempDir())
	m := newBackendMocks(ctrl)

	missing := uiLockfile()
	delete(missing.Packages, "sharp@0.32.6")
	m.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(tree, nil)
	m.inputs.EXPECT().ReadUILockfile(gomock.Any()).Return(missing, nil)

	_, err := m.newEngine(ctrl).Build(t.Context(), desc, uiResolution(), domain.TargetUI)
	require.ErrorIs(t, err, domain.ErrLockfileDrift)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "sharp", zErr.Metadata()["package"])
}

func TestEngine_Build_UI_CacheHitSkipsCommands(t *testing.T) {
	ctrl := gomock.NewController(t)
	tree := t.TempDir()
	desc := uiDescriptor(t.TempDir())
	res := uiResolution()
	m := newBackendMocks(ctrl)

	m.fetcher.EXPECT().Fetch(gomock.Any(), uiSourceRef()).Return(tree, nil)
	m.inputs.EXPECT().ReadUILockfile(gomock.Any()).Return(uiLockfile(), nil)
	m.hasher.EXPECT().HashFile(gomock.Any()).Return(uiLockDigest, nil)

	recorded := &domain.BuildOutput{Target: domain.TargetUI, DerivationID: expectedUIID(t, desc.UI, res)}
	m.store.EXPECT().Get(domain.TargetUI).Return(recorded, nil)
	m.verifier.EXPECT().Verify(tree, []string{"dist"}).Return(nil)

	out, err := m.newEngine(ctrl).Build(t.Context(), desc, res, domain.TargetUI)
	require.NoError(t, err)
	assert.Same(t, recorded, out)
}

func TestEngine_Build_UI_WithoutDescriptorAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newBackendMocks(ctrl)

	_, err := m.newEngine(ctrl).Build(t.Context(), backendDescriptor(t.TempDir()), uiResolution(), domain.TargetUI)
	require.ErrorIs(t, err, domain.ErrInvalidDescriptor)
}

func TestEngine_Build_UI_MissingImageLibraryAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	tree := t.TempDir()
	desc := uiDescriptor(t.TempDir())
	m := newBackendMocks(ctrl)

	m.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(tree, nil)
	m.inputs.EXPECT().ReadUILockfile(gomock.Any()).Return(uiLockfile(), nil)
	m.hasher.EXPECT().HashFile(gomock.Any()).Return(uiLockDigest, nil)

	res := backendResolution()
	res.UIToolchain = uiResolution().UIToolchain

	_, err := m.newEngine(ctrl).Build(t.Context(), desc, res, domain.TargetUI)
	require.ErrorIs(t, err, domain.ErrMissingNativeDependency)
}
