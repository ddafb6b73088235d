package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Lemventory/forge/internal/adapters/config"
	"github.com/Lemventory/forge/internal/core/domain"
	"github.com/Lemventory/forge/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

const minimalDescriptor = `
version: "1"
project: lemmy
backend:
  lockfileDigest: "sha256:aaaa"
  stamp:
    path: crates/utils/src/version.rs
  artifact: target/release/lemmy_server
`

func writeDescriptor(t *testing.T, dir, content string) {
	t.Helper()
	path := filepath.Join(dir, domain.DescriptorFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.PrivateFilePerm))
}

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return config.NewLoader(mockLogger)
}

func TestLoader_Load_Defaults(t *testing.T) {
	tmpDir := t.TempDir()
	writeDescriptor(t, tmpDir, minimalDescriptor)

	desc, err := newLoader(t).Load(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "lemmy", desc.Project)
	assert.Equal(t, tmpDir, desc.Backend.SourceDir)
	assert.Equal(t, "Cargo.toml", desc.Backend.ManifestPath)
	assert.Equal(t, "Cargo.lock", desc.Backend.LockfilePath)
	assert.Equal(t, "rust-toolchain.toml", desc.Backend.ToolchainPinPath)
	assert.Equal(t, []string{"cargo", "build", "--release", "--locked"}, desc.Backend.Command)
	assert.Equal(t, `pub const VERSION: &str = "%s";`, desc.Backend.Stamp.Template)
	assert.Equal(t, []string{"/usr", "/usr/local", "/opt/homebrew"}, desc.SearchRoots)
	assert.Contains(t, desc.Shell.Tools, "rust-analyzer")
	assert.False(t, desc.HasUI())
}

func TestLoader_Load_FullDescriptor(t *testing.T) {
	tmpDir := t.TempDir()
	writeDescriptor(t, tmpDir, `
version: "1"
project: lemmy
searchRoots: ["/nix/var", "/usr"]
backend:
  source: server
  manifest: Cargo.toml
  lockfileDigest: "sha256:bbbb"
  stamp:
    path: crates/utils/src/version.rs
    template: 'pub const VERSION: &str = "%s";'
  cmd: ["cargo", "build", "--release"]
  artifact: target/release/lemmy_server
ui:
  source:
    owner: LemmyNet
    repo: lemmy-ui
    rev: 0.19.0
    hash: "sha256:cccc"
  toolchain:
    channel: nodejs
    version: "20.11.1"
  build: ["pnpm", "build:prod"]
shell:
  tools: ["cargo-audit", "pnpm"]
  env:
    LEMMY_CONFIG_LOCATION: ./config/config.hjson
`)

	desc, err := newLoader(t).Load(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpDir, "server"), desc.Backend.SourceDir)

	// User roots keep probing priority; platform defaults follow, deduplicated.
	assert.Equal(t, []string{"/nix/var", "/usr", "/usr/local", "/opt/homebrew"}, desc.SearchRoots)

	require.True(t, desc.HasUI())
	assert.Equal(t, "LemmyNet/lemmy-ui@0.19.0", desc.UI.Source.String())
	assert.Equal(t, "sha256:cccc", desc.UI.Source.ContentHash)
	assert.Equal(t, "nodejs@20.11.1", desc.UI.Toolchain.Spec())
	assert.Equal(t, "pnpm-lock.yaml", desc.UI.LockfilePath)
	assert.Equal(t, []string{"sass", "sharp"}, desc.UI.NativeModules)
	assert.Equal(t, []string{"pnpm", "install", "--frozen-lockfile"}, desc.UI.InstallCommand)
	assert.Equal(t, []string{"pnpm", "build:prod"}, desc.UI.BuildCommand)
	assert.Equal(t, "dist", desc.UI.ArtifactPath)

	assert.Equal(t, []string{"cargo-audit", "pnpm"}, desc.Shell.Tools)
	assert.Equal(t, "./config/config.hjson", desc.Shell.Env["LEMMY_CONFIG_LOCATION"])
}

func TestLoader_Load_FindsDescriptorUpward(t *testing.T) {
	rootDir := t.TempDir()
	writeDescriptor(t, rootDir, minimalDescriptor)

	nested := filepath.Join(rootDir, "crates", "api")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))

	desc, err := newLoader(t).Load(nested)
	require.NoError(t, err)
	assert.Equal(t, rootDir, desc.Backend.SourceDir)
}

func TestLoader_Load_NotFound(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := newLoader(t).Load(tmpDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "descriptor not found")

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, domain.DescriptorFileName, zErr.Metadata()["filename"])
}

func TestLoader_Load_MissingRequiredPin(t *testing.T) {
	tmpDir := t.TempDir()
	writeDescriptor(t, tmpDir, `
version: "1"
project: lemmy
backend:
  stamp:
    path: crates/utils/src/version.rs
  artifact: target/release/lemmy_server
`)

	_, err := newLoader(t).Load(tmpDir)
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrInvalidDescriptor))

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "backend.lockfileDigest", zErr.Metadata()["missing_field"])
}

func TestLoader_Load_UnsupportedVersion(t *testing.T) {
	tmpDir := t.TempDir()
	writeDescriptor(t, tmpDir, `
version: "2"
project: lemmy
backend:
  lockfileDigest: "sha256:aaaa"
  stamp:
    path: version.rs
  artifact: out
`)

	_, err := newLoader(t).Load(tmpDir)
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrInvalidDescriptor))

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "2", zErr.Metadata()["version"])
}

func TestLoader_Load_WarnsWhenVersionMissing(t *testing.T) {
	tmpDir := t.TempDir()
	writeDescriptor(t, tmpDir, `
project: lemmy
backend:
  lockfileDigest: "sha256:aaaa"
  stamp:
    path: version.rs
  artifact: out
`)

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	_, err := config.NewLoader(mockLogger).Load(tmpDir)
	require.NoError(t, err)
}

func TestLoader_Load_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	writeDescriptor(t, tmpDir, "backend: [not: a: mapping")

	_, err := newLoader(t).Load(tmpDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse descriptor")
}

func TestLoader_Load_MissingBackend(t *testing.T) {
	tmpDir := t.TempDir()
	writeDescriptor(t, tmpDir, `
version: "1"
project: lemmy
`)

	_, err := newLoader(t).Load(tmpDir)
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrInvalidDescriptor))

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "backend", zErr.Metadata()["missing_field"])
}
