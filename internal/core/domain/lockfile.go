package domain

import "go.trai.ch/zerr"

// LockedPackage is a single pinned entry in the backend lockfile.
type LockedPackage struct {
	// Name is the canonical package name (e.g., "openssl-sys").
	Name string

	// Version is the exact pinned version (e.g., "0.9.102"). Never a range.
	Version string

	// Checksum is the content checksum of the packaged source. Required for
	// registry packages; workspace members carry no checksum.
	Checksum string

	// Source identifies where the package came from (registry URL, git URL).
	// Empty for workspace members.
	Source string
}

// Key returns the unique identity of a locked entry, "name@version".
func (p LockedPackage) Key() string {
	return p.Name + "@" + p.Version
}

// Lockfile is the immutable dependency snapshot of the backend. Resolution
// never consults version ranges: the locked graph is authoritative and any
// divergence from the pinned digest aborts the build.
type Lockfile struct {
	// Digest is the content digest of the raw lockfile bytes as read from disk
	// (e.g., "sha256:ab12..."). Compared against the descriptor pin.
	Digest string

	// Packages holds the locked entries in file order.
	Packages []LockedPackage
}

// Validate checks the structural invariants of the locked graph: every entry
// carries an exact version, registry entries carry a checksum, and no
// (name, version) pair appears twice.
func (l *Lockfile) Validate() error {
	seen := make(map[string]struct{}, len(l.Packages))
	for _, pkg := range l.Packages {
		if pkg.Name == "" {
			return zerr.With(ErrLockfileDrift, "reason", "entry missing name")
		}
		if pkg.Version == "" {
			err := zerr.With(ErrLockfileDrift, "reason", "entry missing exact version")
			return zerr.With(err, "package", pkg.Name)
		}
		if pkg.Source != "" && pkg.Checksum == "" {
			err := zerr.With(ErrLockfileDrift, "reason", "registry entry missing checksum")
			return zerr.With(err, "package", pkg.Key())
		}
		if _, dup := seen[pkg.Key()]; dup {
			err := zerr.With(ErrLockfileDrift, "reason", "duplicate locked entry")
			return zerr.With(err, "package", pkg.Key())
		}
		seen[pkg.Key()] = struct{}{}
	}
	return nil
}

// VerifyPin compares the lockfile's computed digest against the digest pinned
// in the project descriptor. A mismatch means the lockfile changed without the
// pin being updated, which is fatal.
func (l *Lockfile) VerifyPin(pinned string) error {
	if pinned == "" {
		return zerr.With(ErrLockfileDrift, "reason", "descriptor has no lockfile digest pin")
	}
	if l.Digest != pinned {
		err := zerr.With(ErrLockfileDrift, "reason", "lockfile digest does not match pin")
		err = zerr.With(err, "pinned", pinned)
		return zerr.With(err, "actual", l.Digest)
	}
	return nil
}

// Lookup returns the locked entry for a package name, if present.
func (l *Lockfile) Lookup(name string) (LockedPackage, bool) {
	for _, pkg := range l.Packages {
		if pkg.Name == name {
			return pkg, true
		}
	}
	return LockedPackage{}, false
}
