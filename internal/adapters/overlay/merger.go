// Package overlay builds merged views of split directory trees.
//
// A native library installed through a distro package manager often splits
// into a runtime root (shared objects) and a development root (headers,
// pkg-config metadata). Consumers need one canonical root, so the merger
// joins the component roots into a single symlink forest before anything
// else sees them.
package overlay

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lemventory/forge/internal/core/domain"
	"github.com/Lemventory/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.TreeMerger = (*Merger)(nil)

// Merger implements ports.TreeMerger with a content-addressed symlink forest.
type Merger struct {
	baseDir string
}

// NewMerger creates a Merger using the default overlay directory.
func NewMerger() *Merger {
	return NewMergerWithBase(domain.DefaultOverlayPath())
}

// NewMergerWithBase creates a Merger that builds views under baseDir.
func NewMergerWithBase(baseDir string) *Merger {
	return &Merger{baseDir: baseDir}
}

// Merge joins roots into one view. The view is addressed by the root list, so
// merging the same roots again returns the existing view without rebuilding.
// On file collisions the earliest root wins.
func (m *Merger) Merge(name string, roots []string) (string, error) {
	if len(roots) == 0 {
		return "", zerr.With(zerr.New("no roots to merge"), "view", name)
	}
	if len(roots) == 1 {
		return roots[0], nil
	}

	viewDir := filepath.Join(m.baseDir, viewID(name, roots))
	if _, err := os.Stat(viewDir); err == nil {
		return viewDir, nil
	}

	if err := os.MkdirAll(m.baseDir, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create overlay directory"), "path", m.baseDir)
	}

	// Build into a temp dir, then rename: a half-built view is never visible.
	tmpDir, err := os.MkdirTemp(m.baseDir, ".tmp-"+sanitize(name)+"-*")
	if err != nil {
		return "", zerr.Wrap(err, "failed to create temp view")
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck // Best effort cleanup

	for _, root := range roots {
		if err := m.linkTree(root, tmpDir); err != nil {
			return "", err
		}
	}

	if err := os.Rename(tmpDir, viewDir); err != nil {
		// A concurrent merge may have produced the view first; use it.
		if _, statErr := os.Stat(viewDir); statErr == nil {
			return viewDir, nil
		}
		return "", zerr.With(zerr.Wrap(err, "failed to publish view"), "path", viewDir)
	}

	return viewDir, nil
}

// linkTree mirrors root into dst: directories become real directories, files
// become symlinks back to the source. Existing entries are kept, which gives
// earlier roots priority.
func (m *Merger) linkTree(root, dst string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		target := filepath.Join(dst, rel)
		if d.IsDir() {
			if err := os.MkdirAll(target, domain.DirPerm); err != nil {
				return err
			}
			return nil
		}

		if _, err := os.Lstat(target); err == nil {
			return nil
		}
		return os.Symlink(path, target)
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to link tree into view"), "root", root)
	}
	return nil
}

// viewID computes the deterministic identity of a merged view.
func viewID(name string, roots []string) string {
	var builder strings.Builder
	builder.WriteString(name)
	builder.WriteString("\x00")
	for _, root := range roots {
		builder.WriteString(root)
		builder.WriteString("\x00")
	}
	hash := sha256.Sum256([]byte(builder.String()))
	return hex.EncodeToString(hash[:])
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if r == filepath.Separator || r == ':' {
			return '-'
		}
		return r
	}, name)
}
