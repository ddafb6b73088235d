package watcher_test

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/Lemventory/forge/internal/adapters/watcher"
	"github.com/Lemventory/forge/internal/core/domain"
	"github.com/Lemventory/forge/internal/core/ports"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertEvent(t *testing.T) {
	tests := []struct {
		name   string
		op     fsnotify.Op
		wantOp ports.WatchOp
		wantOK bool
	}{
		{name: "write", op: fsnotify.Write, wantOp: ports.OpWrite, wantOK: true},
		{name: "create", op: fsnotify.Create, wantOp: ports.OpCreate, wantOK: true},
		{name: "remove", op: fsnotify.Remove, wantOp: ports.OpRemove, wantOK: true},
		{name: "rename", op: fsnotify.Rename, wantOp: ports.OpRename, wantOK: true},
		{name: "chmod dropped", op: fsnotify.Chmod, wantOK: false},
		{name: "write wins over chmod", op: fsnotify.Write | fsnotify.Chmod, wantOp: ports.OpWrite, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := watcher.ConvertEvent(fsnotify.Event{Name: "/p/f", Op: tt.op})
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantOp, got.Operation)
				assert.Equal(t, "/p/f", got.Path)
			}
		})
	}
}

func TestDirectoriesUnder(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{
		"src/api",
		"crates/db",
		".git/objects",
		"node_modules/sass",
		"target/release",
		"dist/assets",
		".forge/store",
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), domain.DirPerm))
	}

	var got []string
	for dir := range watcher.DirectoriesUnder(root) {
		rel, err := filepath.Rel(root, dir)
		require.NoError(t, err)
		got = append(got, rel)
	}

	assert.Contains(t, got, ".")
	assert.Contains(t, got, "src")
	assert.Contains(t, got, filepath.Join("src", "api"))
	assert.Contains(t, got, filepath.Join("crates", "db"))

	for _, skipped := range []string{".git", "node_modules", "target", "dist", ".forge"} {
		assert.NotContains(t, got, skipped)
		assert.False(t, slices.ContainsFunc(got, func(d string) bool {
			return strings.HasPrefix(d, skipped+string(filepath.Separator))
		}), "descendants of %s must not be watched", skipped)
	}
}

func TestDirectoriesUnder_EarlyStop(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a/b/c"), domain.DirPerm))

	var count int
	for range watcher.DirectoriesUnder(root) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}
