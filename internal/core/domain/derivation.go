package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
)

// DerivationInput collects everything that determines a derivation's output.
// Two inputs with equal fields always hash to the same DerivationID; any
// field change produces a different one.
type DerivationInput struct {
	// Target is the derivation being built.
	Target BuildTarget

	// SourceDigest is the content digest of the source tree.
	SourceDigest string

	// LockfileDigest is the content digest of the dependency snapshot.
	LockfileDigest string

	// StampedVersion is the version constant injected into the source.
	StampedVersion string

	// Toolchain is the resolved compiler toolchain.
	Toolchain ToolchainSpec

	// NativeDeps are the located native libraries. Order does not affect the
	// ID; entries are canonicalized before hashing.
	NativeDeps []NativeDependencySpec

	// Command is the pinned command sequence the derivation runs.
	Command []string
}

// GenerateDerivationID creates the deterministic content address of a
// derivation from its inputs.
func GenerateDerivationID(in DerivationInput) string {
	deps := slices.Clone(in.NativeDeps)
	slices.SortFunc(deps, func(a, b NativeDependencySpec) int {
		return strings.Compare(a.Name, b.Name)
	})

	// Field separators keep adjacent values from colliding
	var builder strings.Builder
	writeField := func(parts ...string) {
		for _, p := range parts {
			builder.WriteString(p)
			builder.WriteString("\x00")
		}
		builder.WriteString(";")
	}

	writeField(string(in.Target), in.SourceDigest, in.LockfileDigest, in.StampedVersion)
	writeField(in.Toolchain.Channel, in.Toolchain.CompilerVersion, in.Toolchain.HostTriple, in.Toolchain.TargetTriple)
	for _, dep := range deps {
		writeField(dep.Name, dep.Version, dep.RootDir, dep.LibraryDir, dep.IncludeDir, dep.PkgConfigDir)
	}
	writeField(in.Command...)

	hash := sha256.Sum256([]byte(builder.String()))
	return hex.EncodeToString(hash[:])
}
