package overlay_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Lemventory/forge/internal/adapters/overlay"
	"github.com/Lemventory/forge/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), domain.DirPerm))
		require.NoError(t, os.WriteFile(full, []byte(content), domain.PrivateFilePerm))
	}
}

func TestMerger_SingleRootShortCircuits(t *testing.T) {
	base := t.TempDir()
	root := t.TempDir()
	writeTree(t, root, map[string]string{"lib/libssl.so": "runtime"})

	merger := overlay.NewMergerWithBase(base)

	view, err := merger.Merge("openssl", []string{root})
	require.NoError(t, err)
	assert.Equal(t, root, view)

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries, "single root must not materialize a view")
}

func TestMerger_NoRoots(t *testing.T) {
	merger := overlay.NewMergerWithBase(t.TempDir())

	_, err := merger.Merge("openssl", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no roots")
}

func TestMerger_JoinsSplitInstall(t *testing.T) {
	base := t.TempDir()
	runtime := t.TempDir()
	devel := t.TempDir()
	writeTree(t, runtime, map[string]string{
		"lib/libssl.so.3": "runtime object",
	})
	writeTree(t, devel, map[string]string{
		"include/openssl/ssl.h":    "header",
		"lib/pkgconfig/openssl.pc": "Version: 3.0.13",
	})

	merger := overlay.NewMergerWithBase(base)

	view, err := merger.Merge("openssl", []string{runtime, devel})
	require.NoError(t, err)
	require.NotEqual(t, runtime, view)
	require.NotEqual(t, devel, view)

	for rel, want := range map[string]string{
		"lib/libssl.so.3":          "runtime object",
		"include/openssl/ssl.h":    "header",
		"lib/pkgconfig/openssl.pc": "Version: 3.0.13",
	} {
		content, err := os.ReadFile(filepath.Join(view, rel))
		require.NoError(t, err, rel)
		assert.Equal(t, want, string(content), rel)
	}
}

func TestMerger_FirstRootWinsOnCollision(t *testing.T) {
	base := t.TempDir()
	first := t.TempDir()
	second := t.TempDir()
	writeTree(t, first, map[string]string{"lib/pkgconfig/openssl.pc": "Version: 3.0.13"})
	writeTree(t, second, map[string]string{"lib/pkgconfig/openssl.pc": "Version: 1.1.1"})

	merger := overlay.NewMergerWithBase(base)

	view, err := merger.Merge("openssl", []string{first, second})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(view, "lib/pkgconfig/openssl.pc"))
	require.NoError(t, err)
	assert.Equal(t, "Version: 3.0.13", string(content))
}

func TestMerger_ReusesExistingView(t *testing.T) {
	base := t.TempDir()
	runtime := t.TempDir()
	devel := t.TempDir()
	writeTree(t, runtime, map[string]string{"lib/libpq.so.5": "runtime"})
	writeTree(t, devel, map[string]string{"include/libpq-fe.h": "header"})

	merger := overlay.NewMergerWithBase(base)

	first, err := merger.Merge("postgresql", []string{runtime, devel})
	require.NoError(t, err)

	// Tag the view so a rebuild would be detectable.
	marker := filepath.Join(first, "marker")
	require.NoError(t, os.WriteFile(marker, []byte("x"), domain.FilePerm))

	second, err := merger.Merge("postgresql", []string{runtime, devel})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.FileExists(t, marker)
}

func TestMerger_DistinctRootsDistinctViews(t *testing.T) {
	base := t.TempDir()
	rootA := t.TempDir()
	rootB := t.TempDir()
	rootC := t.TempDir()
	writeTree(t, rootA, map[string]string{"a": "a"})
	writeTree(t, rootB, map[string]string{"b": "b"})
	writeTree(t, rootC, map[string]string{"c": "c"})

	merger := overlay.NewMergerWithBase(base)

	viewAB, err := merger.Merge("dep", []string{rootA, rootB})
	require.NoError(t, err)
	viewAC, err := merger.Merge("dep", []string{rootA, rootC})
	require.NoError(t, err)

	assert.NotEqual(t, viewAB, viewAC)
}
