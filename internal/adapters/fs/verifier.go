package fs

import (
	"os"
	"path/filepath"

	"github.com/Lemventory/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArtifactVerifier = (*Verifier)(nil)

// Verifier checks build products on disk.
type Verifier struct{}

// NewVerifier creates a new Verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Verify checks that every path, relative to root, exists.
func (v *Verifier) Verify(root string, paths []string) error {
	for _, p := range paths {
		full := filepath.Join(root, p)
		if _, err := os.Stat(full); err != nil {
			return zerr.With(zerr.Wrap(err, "artifact missing"), "path", full)
		}
	}
	return nil
}
