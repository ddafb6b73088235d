package domain

import "go.trai.ch/zerr"

// Canonical names of the native libraries the backend links against. The
// locator probes for these; the environment assembler special-cases the ones
// whose build-script conventions demand dedicated variables.
const (
	// DepOpenSSL provides TLS. Exported as OPENSSL_DIR / OPENSSL_LIB_DIR /
	// OPENSSL_INCLUDE_DIR.
	DepOpenSSL = "openssl"

	// DepLibPQ is the PostgreSQL client library.
	DepLibPQ = "libpq"

	// DepProtobuf provides the protocol-buffer compiler. Exported as PROTOC /
	// PROTOC_INCLUDE.
	DepProtobuf = "protobuf"

	// DepLibiconv provides character-set conversion.
	DepLibiconv = "libiconv"

	// DepPkgConfig is the build-time probing tool itself.
	DepPkgConfig = "pkg-config"

	// DepVips is the image-manipulation library required only by the front-end
	// native-module rebuild.
	DepVips = "vips"
)

// BackendNativeDeps returns the fixed set of native libraries every backend
// build requires, in the deterministic order their pkg-config directories are
// exported.
func BackendNativeDeps() []string {
	return []string{DepOpenSSL, DepLibPQ, DepProtobuf, DepLibiconv, DepPkgConfig}
}

// NativeDependencySpec is a fully located native library. All paths point
// into a single consistent installation; when the development and runtime
// components were installed under different roots the locator merges them
// into one view before constructing the spec.
type NativeDependencySpec struct {
	// Name is the canonical dependency name (one of the Dep constants).
	Name string

	// Version is the installed version, read from the library's pkg-config
	// metadata. Development and runtime components must agree on it exactly.
	// Empty only for the probing tool, which ships no metadata of its own.
	Version string

	// RootDir is the canonical installation root.
	RootDir string

	// LibraryDir holds the linkable objects (e.g., RootDir/lib).
	LibraryDir string

	// IncludeDir holds the headers (e.g., RootDir/include). Empty for
	// tool-only dependencies such as pkg-config.
	IncludeDir string

	// PkgConfigDir holds the .pc metadata files. Empty when the dependency
	// ships none.
	PkgConfigDir string
}

// Validate checks that the spec is internally complete: a name, a version and
// a root are always required; libraries additionally need their library
// directory.
func (s NativeDependencySpec) Validate() error {
	if s.Name == "" {
		return zerr.With(ErrMissingNativeDependency, "reason", "spec missing name")
	}
	if s.RootDir == "" {
		err := zerr.With(ErrMissingNativeDependency, "reason", "spec missing root directory")
		return zerr.With(err, "dependency", s.Name)
	}
	if s.Version == "" && s.Name != DepPkgConfig {
		err := zerr.With(ErrInconsistentNativeDependency, "reason", "spec missing version")
		return zerr.With(err, "dependency", s.Name)
	}
	if s.LibraryDir == "" && s.Name != DepPkgConfig && s.Name != DepProtobuf {
		err := zerr.With(ErrMissingNativeDependency, "reason", "spec missing library directory")
		return zerr.With(err, "dependency", s.Name)
	}
	return nil
}
