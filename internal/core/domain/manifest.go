package domain

import "go.trai.ch/zerr"

// Manifest is the backend package manifest: the single authoritative source of
// the project name and version. The version read here is the version stamped
// into the generated source constant and reported by the built binary.
type Manifest struct {
	// Name is the package name as declared by the backend (e.g., "lemmy_server").
	Name string

	// Version is the exact declared version (e.g., "0.19.0"). Never a range.
	Version string
}

// Validate checks that the manifest carries both a name and an exact version.
func (m Manifest) Validate() error {
	if m.Name == "" {
		return zerr.With(ErrInvalidManifest, "missing_field", "name")
	}
	if m.Version == "" {
		err := zerr.With(ErrInvalidManifest, "missing_field", "version")
		return zerr.With(err, "package", m.Name)
	}
	return nil
}
