package domain

import "go.trai.ch/zerr"

// ToolchainPin is the declarative toolchain request read from the pin file
// (e.g., rust-toolchain.toml). It names a channel and an exact version; the
// resolver turns it into a concrete ToolchainSpec or fails.
type ToolchainPin struct {
	// Channel is the release channel (e.g., "stable", "nodejs").
	Channel string

	// Version is the exact compiler version (e.g., "1.81.0"). Never a range.
	Version string

	// Targets optionally requests cross-compilation target triples. When empty
	// the build targets the host triple.
	Targets []string
}

// Validate checks that the pin names both a channel and an exact version.
func (p ToolchainPin) Validate() error {
	if p.Channel == "" {
		return zerr.With(ErrUnresolvableToolchain, "reason", "pin missing channel")
	}
	if p.Version == "" {
		err := zerr.With(ErrUnresolvableToolchain, "reason", "pin missing exact version")
		return zerr.With(err, "channel", p.Channel)
	}
	return nil
}

// Spec returns the pin's identity string, "channel@version". Used as the
// resolver cache key.
func (p ToolchainPin) Spec() string {
	return p.Channel + "@" + p.Version
}

// ToolchainSpec is a fully resolved compiler toolchain. Exactly one is active
// per derivation; intermixing components from different toolchains is not
// representable.
type ToolchainSpec struct {
	// Channel is the release channel the spec was resolved from.
	Channel string

	// CompilerVersion is the exact resolved compiler version.
	CompilerVersion string

	// HostTriple is the triple of the machine running the build
	// (e.g., "x86_64-unknown-linux-gnu").
	HostTriple string

	// TargetTriple is the triple the build produces artifacts for. Equal to
	// HostTriple unless the pin requested a cross target.
	TargetTriple string

	// RootDir is the root of the unpacked toolchain installation.
	RootDir string

	// BinDir holds the compiler executables. Prepended to PATH.
	BinDir string

	// SourcePath is the standard-library source tree shipped with the
	// toolchain, exported for code-intelligence tools. May be empty for
	// toolchains that ship no source component.
	SourcePath string
}

// Validate checks that the spec is concrete enough to drive a build.
func (s ToolchainSpec) Validate() error {
	switch {
	case s.CompilerVersion == "":
		return zerr.With(ErrUnresolvableToolchain, "reason", "spec missing compiler version")
	case s.HostTriple == "":
		return zerr.With(ErrUnresolvableToolchain, "reason", "spec missing host triple")
	case s.TargetTriple == "":
		return zerr.With(ErrUnresolvableToolchain, "reason", "spec missing target triple")
	case s.BinDir == "":
		err := zerr.With(ErrUnresolvableToolchain, "reason", "spec missing bin directory")
		return zerr.With(err, "version", s.CompilerVersion)
	}
	return nil
}
