package domain

import "go.trai.ch/zerr"

// UILockedPackage is a single pinned entry in the front-end lockfile.
type UILockedPackage struct {
	// Version is the exact pinned version.
	Version string

	// Integrity is the subresource integrity hash of the packed tarball.
	Integrity string
}

// UILockfile is the front-end dependency snapshot. It is fully independent of
// the backend lockfile: the two are verified separately and a failure in one
// never invalidates the other.
type UILockfile struct {
	// FormatVersion is the lockfile format version string (e.g., "9.0").
	FormatVersion string

	// Packages maps "name@version" keys to their pinned entries.
	Packages map[string]UILockedPackage
}

// Validate checks that every front-end entry is pinned to an exact version
// with an integrity hash.
func (l *UILockfile) Validate() error {
	if l.FormatVersion == "" {
		return zerr.With(ErrLockfileDrift, "reason", "ui lockfile missing format version")
	}
	for key, pkg := range l.Packages {
		if pkg.Version == "" {
			err := zerr.With(ErrLockfileDrift, "reason", "ui entry missing exact version")
			return zerr.With(err, "package", key)
		}
		if pkg.Integrity == "" {
			err := zerr.With(ErrLockfileDrift, "reason", "ui entry missing integrity hash")
			return zerr.With(err, "package", key)
		}
	}
	return nil
}

// HasPackage reports whether any locked entry resolves the given package name,
// regardless of version. Used to confirm native-module packages are pinned
// before their rebuild step runs.
func (l *UILockfile) HasPackage(name string) bool {
	prefix := name + "@"
	for key := range l.Packages {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}
