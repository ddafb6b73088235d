package domain

import "go.trai.ch/zerr"

var (
	// ErrUnresolvableToolchain is returned when a toolchain pin cannot be resolved
	// to a concrete compiler installation for the host or requested target triple.
	ErrUnresolvableToolchain = zerr.New("unresolvable toolchain")

	// ErrMissingNativeDependency is returned when a required native library cannot
	// be located in any of the configured search roots.
	ErrMissingNativeDependency = zerr.New("missing native dependency")

	// ErrInconsistentNativeDependency is returned when the development and runtime
	// components of a native library resolve to different versions.
	ErrInconsistentNativeDependency = zerr.New("inconsistent native dependency")

	// ErrLockfileDrift is returned when the lockfile on disk no longer matches the
	// pinned digest, or when a locked entry is missing its exact version or checksum.
	ErrLockfileDrift = zerr.New("lockfile drift")

	// ErrSourceFetchFailure is returned when a pinned source archive cannot be
	// downloaded or its content hash does not match the pin.
	ErrSourceFetchFailure = zerr.New("source fetch failure")

	// ErrInvalidDescriptor is returned when the project descriptor is missing,
	// malformed, or fails validation.
	ErrInvalidDescriptor = zerr.New("invalid project descriptor")

	// ErrInvalidManifest is returned when the backend manifest cannot be parsed or
	// lacks a name or version.
	ErrInvalidManifest = zerr.New("invalid manifest")

	// ErrUnknownTarget is returned when a build is requested for a target the
	// descriptor does not define.
	ErrUnknownTarget = zerr.New("unknown build target")

	// ErrBuildFailed is returned when the pinned build command exits non-zero.
	ErrBuildFailed = zerr.New("build command failed")

	// ErrCacheCorrupted is returned when an on-disk cache entry cannot be decoded.
	ErrCacheCorrupted = zerr.New("cache entry corrupted")

	// ErrIndexQueryFailed is returned when the toolchain release index cannot be
	// reached or answers with an unexpected status.
	ErrIndexQueryFailed = zerr.New("toolchain index query failed")

	// ErrIndexParseFailed is returned when the toolchain release index answer
	// cannot be decoded.
	ErrIndexParseFailed = zerr.New("toolchain index parse failed")
)
