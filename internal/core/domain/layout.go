package domain

import "path/filepath"

const (
	// ForgeDirName is the name of the internal workspace directory.
	ForgeDirName = ".forge"

	// StoreDirName is the name of the content addressable store directory.
	StoreDirName = "store"

	// CacheDirName is the name of the cache directory.
	CacheDirName = "cache"

	// ToolchainDirName is the name of the toolchain index cache directory.
	ToolchainDirName = "toolchains"

	// OverlayDirName is the name of the merged-view directory.
	OverlayDirName = "overlay"

	// ResolutionDirName is the name of the resolution cache directory.
	ResolutionDirName = "resolutions"

	// DescriptorFileName is the name of the project descriptor file.
	DescriptorFileName = "forge.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultStorePath returns the default path for the content addressable store.
func DefaultStorePath() string {
	return filepath.Join(ForgeDirName, StoreDirName)
}

// DefaultToolchainCachePath returns the default path for the toolchain index cache.
func DefaultToolchainCachePath() string {
	return filepath.Join(ForgeDirName, CacheDirName, ToolchainDirName)
}

// DefaultResolutionCachePath returns the default path for the resolution cache.
func DefaultResolutionCachePath() string {
	return filepath.Join(ForgeDirName, CacheDirName, ResolutionDirName)
}

// DefaultOverlayPath returns the default path for merged dependency views.
func DefaultOverlayPath() string {
	return filepath.Join(ForgeDirName, OverlayDirName)
}
