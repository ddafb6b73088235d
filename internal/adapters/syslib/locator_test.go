package syslib_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Lemventory/forge/internal/adapters/overlay"
	"github.com/Lemventory/forge/internal/adapters/syslib"
	"github.com/Lemventory/forge/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), domain.DirPerm))
		require.NoError(t, os.WriteFile(full, []byte(content), domain.PrivateFilePerm))
	}
}

func newLocator(t *testing.T) *syslib.Locator {
	t.Helper()
	return syslib.NewLocator(overlay.NewMergerWithBase(t.TempDir()))
}

func TestLocator_Locate_SingleRoot(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"lib/libssl.so.3":          "so",
		"lib/libcrypto.so.3":       "so",
		"include/openssl/ssl.h":    "h",
		"lib/pkgconfig/openssl.pc": "Name: OpenSSL\nVersion: 3.0.13\n",
	})

	spec, err := newLocator(t).Locate(context.Background(), domain.DepOpenSSL, []string{root})
	require.NoError(t, err)

	assert.Equal(t, domain.DepOpenSSL, spec.Name)
	assert.Equal(t, "3.0.13", spec.Version)
	assert.Equal(t, root, spec.RootDir)
	assert.Equal(t, filepath.Join(root, "lib"), spec.LibraryDir)
	assert.Equal(t, filepath.Join(root, "include"), spec.IncludeDir)
	assert.Equal(t, filepath.Join(root, "lib", "pkgconfig"), spec.PkgConfigDir)
}

func TestLocator_Locate_SplitInstall(t *testing.T) {
	// Runtime objects under one root, headers and metadata under another.
	runtimeRoot := t.TempDir()
	develRoot := t.TempDir()
	writeTree(t, runtimeRoot, map[string]string{
		"lib/libpq.so.5": "so",
		"VERSION":        "16.2\n",
	})
	writeTree(t, develRoot, map[string]string{
		"include/libpq-fe.h":     "h",
		"lib/pkgconfig/libpq.pc": "Name: libpq\nVersion: 16.2\n",
	})

	spec, err := newLocator(t).Locate(context.Background(), domain.DepLibPQ, []string{runtimeRoot, develRoot})
	require.NoError(t, err)

	// Directories point into one joined view, never into the split roots.
	assert.NotEqual(t, runtimeRoot, spec.RootDir)
	assert.NotEqual(t, develRoot, spec.RootDir)
	assert.Equal(t, "16.2", spec.Version)
	assert.Equal(t, filepath.Join(spec.RootDir, "lib"), spec.LibraryDir)
	assert.Equal(t, filepath.Join(spec.RootDir, "include"), spec.IncludeDir)
	assert.FileExists(t, filepath.Join(spec.LibraryDir, "libpq.so.5"))
	assert.FileExists(t, filepath.Join(spec.IncludeDir, "libpq-fe.h"))
}

func TestLocator_Locate_VersionMismatch(t *testing.T) {
	runtimeRoot := t.TempDir()
	develRoot := t.TempDir()
	writeTree(t, runtimeRoot, map[string]string{
		"lib/libssl.so.1.1": "so",
		"VERSION":           "1.1.1\n",
	})
	writeTree(t, develRoot, map[string]string{
		"include/openssl/ssl.h":    "h",
		"lib/pkgconfig/openssl.pc": "Version: 3.0.13\n",
	})

	_, err := newLocator(t).Locate(context.Background(), domain.DepOpenSSL, []string{runtimeRoot, develRoot})
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrInconsistentNativeDependency))

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	meta := zErr.Metadata()
	assert.Equal(t, domain.DepOpenSSL, meta["dependency"])
	assert.Equal(t, "1.1.1", meta["version_a"])
	assert.Equal(t, "3.0.13", meta["version_b"])
}

func TestLocator_Locate_Missing(t *testing.T) {
	emptyA := t.TempDir()
	emptyB := t.TempDir()

	_, err := newLocator(t).Locate(context.Background(), domain.DepVips, []string{emptyA, emptyB})
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrMissingNativeDependency))

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, domain.DepVips, zErr.Metadata()["dependency"])
}

func TestLocator_Locate_ToolOnly(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"VERSION": "0.29.2\n",
	})
	binDir := filepath.Join(root, "bin")
	require.NoError(t, os.MkdirAll(binDir, domain.DirPerm))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "pkg-config"), []byte("#!/bin/sh\n"), 0o700))

	spec, err := newLocator(t).Locate(context.Background(), domain.DepPkgConfig, []string{root})
	require.NoError(t, err)

	assert.Equal(t, "0.29.2", spec.Version)
	assert.Equal(t, root, spec.RootDir)
	assert.Empty(t, spec.LibraryDir)
	assert.Empty(t, spec.IncludeDir)
	assert.Empty(t, spec.PkgConfigDir)
}

func TestLocator_Locate_ToolOnlyWithoutMarker(t *testing.T) {
	// System roots like /usr carry no VERSION sentinel; the tool still
	// locates, just without a version.
	root := t.TempDir()
	binDir := filepath.Join(root, "bin")
	require.NoError(t, os.MkdirAll(binDir, domain.DirPerm))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "pkg-config"), []byte("#!/bin/sh\n"), 0o700))

	spec, err := newLocator(t).Locate(context.Background(), domain.DepPkgConfig, []string{root})
	require.NoError(t, err)
	assert.Empty(t, spec.Version)
	assert.Equal(t, root, spec.RootDir)
}

func TestLocator_Locate_Protobuf(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"include/google/protobuf/descriptor.proto": "proto",
		"lib/pkgconfig/protobuf.pc":                "Version: 25.1\n",
		"lib/libprotobuf.so.25":                    "so",
	})
	binDir := filepath.Join(root, "bin")
	require.NoError(t, os.MkdirAll(binDir, domain.DirPerm))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "protoc"), []byte("#!/bin/sh\n"), 0o700))

	spec, err := newLocator(t).Locate(context.Background(), domain.DepProtobuf, []string{root})
	require.NoError(t, err)

	assert.Equal(t, "25.1", spec.Version)
	assert.Equal(t, filepath.Join(root, "include"), spec.IncludeDir)
	assert.Equal(t, filepath.Join(root, "lib"), spec.LibraryDir)
}

func TestLocator_Locate_Lib64(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"lib64/libiconv.so.2":        "so",
		"include/iconv.h":            "h",
		"lib64/pkgconfig/iconv.pc":   "Version: 1.17\n",
		"share/doc/libiconv/LICENSE": "GPL",
	})

	spec, err := newLocator(t).Locate(context.Background(), domain.DepLibiconv, []string{root})
	require.NoError(t, err)

	assert.Equal(t, "1.17", spec.Version)
	assert.Equal(t, filepath.Join(root, "lib64"), spec.LibraryDir)
	assert.Equal(t, filepath.Join(root, "lib64", "pkgconfig"), spec.PkgConfigDir)
}

func TestLocator_Locate_UnknownDependency(t *testing.T) {
	_, err := newLocator(t).Locate(context.Background(), "left-pad", []string{t.TempDir()})
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrMissingNativeDependency))
}

func TestLocator_Locate_FirstRootWins(t *testing.T) {
	// Two complete installs of the same version: the earlier root's files
	// take priority in the joined view.
	first := t.TempDir()
	second := t.TempDir()
	for _, root := range []string{first, second} {
		writeTree(t, root, map[string]string{
			"lib/libvips.so.42":     "so",
			"include/vips/vips.h":   "h",
			"lib/pkgconfig/vips.pc": "Version: 8.15.1\n",
		})
	}

	spec, err := newLocator(t).Locate(context.Background(), domain.DepVips, []string{first, second})
	require.NoError(t, err)
	assert.Equal(t, "8.15.1", spec.Version)

	resolved, err := filepath.EvalSymlinks(filepath.Join(spec.LibraryDir, "libvips.so.42"))
	require.NoError(t, err)
	expected, err := filepath.EvalSymlinks(filepath.Join(first, "lib", "libvips.so.42"))
	require.NoError(t, err)
	assert.Equal(t, expected, resolved)
}
