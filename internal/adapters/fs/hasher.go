package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Lemventory/forge/internal/core/ports"
	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

var _ ports.TreeHasher = (*Hasher)(nil)

// Directories that never contribute to a source digest: build products and
// fetched dependency trees would otherwise make the digest depend on prior
// builds.
var defaultIgnores = []string{"target", "node_modules", "dist", ".forge"}

// Hasher computes content digests of files and directory trees.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// HashFile computes the digest of a single file's contents.
func (h *Hasher) HashFile(path string) (string, error) {
	sum, err := h.sumFile(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", sum), nil
}

// HashTree computes a digest over every regular file under root. Each file
// contributes its root-relative path and content hash, so the digest is
// stable across machines and move-only changes are still visible.
func (h *Hasher) HashTree(root string) (string, error) {
	if _, err := os.Stat(root); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to stat tree root"), "path", root)
	}

	hasher := xxhash.New()
	for path := range h.walker.WalkFiles(root, defaultIgnores) {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", path)
		}

		_, _ = hasher.WriteString(filepath.ToSlash(rel))
		_, _ = hasher.Write([]byte{0})

		sum, err := h.sumFile(path)
		if err != nil {
			return "", err
		}
		if err := binary.Write(hasher, binary.LittleEndian, sum); err != nil {
			return "", zerr.Wrap(err, "failed to write hash to digest")
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func (h *Hasher) sumFile(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}
