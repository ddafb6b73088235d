package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lemventory/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// writeStamp renders the version constant into the generated source file.
// The manifest version is written exactly as declared; nothing rewrites or
// normalizes it. An unchanged stamp is left alone, because rewriting it
// would bump its mtime and force the compiler to start over.
func writeStamp(sourceDir string, stamp domain.StampSpec, version string) error {
	if stamp.Path == "" {
		return nil
	}
	if strings.Count(stamp.Template, "%s") != 1 {
		err := zerr.With(domain.ErrInvalidDescriptor, "reason", "stamp template needs exactly one %s verb")
		return zerr.With(err, "template", stamp.Template)
	}

	content := fmt.Sprintf(stamp.Template, version) + "\n"
	path := filepath.Join(sourceDir, stamp.Path)

	if current, err := os.ReadFile(path); err == nil && string(current) == content {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create stamp directory")
	}
	if err := os.WriteFile(path, []byte(content), domain.FilePerm); err != nil {
		wrapped := zerr.Wrap(err, "failed to write version stamp")
		return zerr.With(wrapped, "path", path)
	}
	return nil
}
