// Package syslib implements the DependencyLocator port by probing
// installation roots on the host file system.
//
// A dependency rarely lives in one neat directory: distro packaging splits
// runtime objects and development headers across roots, and version managers
// add their own prefixes. The locator probes every candidate root, joins the
// contributing roots into one view and only then derives the directories a
// build can consume.
package syslib

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lemventory/forge/internal/core/domain"
	"github.com/Lemventory/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DependencyLocator = (*Locator)(nil)

// Locator implements ports.DependencyLocator.
type Locator struct {
	merger ports.TreeMerger
}

// NewLocator creates a Locator that joins split installations with merger.
func NewLocator(merger ports.TreeMerger) *Locator {
	return &Locator{merger: merger}
}

// probe describes what marks a root as providing a dependency.
type probe struct {
	// pcName is the pkg-config metadata name, empty when the dependency
	// ships none.
	pcName string

	// libs are the linkable object base names ("ssl" matches libssl.so*,
	// libssl.dylib* and libssl.a).
	libs []string

	// headers are sentinel paths relative to the include directory.
	headers []string

	// binaries are executable sentinels relative to the bin directory.
	binaries []string
}

var probes = map[string]probe{
	domain.DepOpenSSL:   {pcName: "openssl", libs: []string{"ssl", "crypto"}, headers: []string{"openssl/ssl.h"}},
	domain.DepLibPQ:     {pcName: "libpq", libs: []string{"pq"}, headers: []string{"libpq-fe.h"}},
	domain.DepProtobuf:  {pcName: "protobuf", libs: []string{"protobuf"}, headers: []string{"google/protobuf/descriptor.proto"}, binaries: []string{"protoc"}},
	domain.DepLibiconv:  {pcName: "iconv", libs: []string{"iconv"}, headers: []string{"iconv.h"}},
	domain.DepPkgConfig: {binaries: []string{"pkg-config"}},
	domain.DepVips:      {pcName: "vips", libs: []string{"vips"}, headers: []string{"vips/vips.h"}},
}

// libSubdirs are the directories probed for linkable objects, in order.
var libSubdirs = []string{"lib", "lib64"}

// Locate probes roots for the named dependency. Roots that each provide only
// part of the installation (runtime objects here, headers there) are merged
// into one view; their version markers must agree exactly.
func (l *Locator) Locate(ctx context.Context, name string, roots []string) (domain.NativeDependencySpec, error) {
	p, ok := probes[name]
	if !ok {
		err := zerr.With(domain.ErrMissingNativeDependency, "dependency", name)
		return domain.NativeDependencySpec{}, zerr.With(err, "reason", "no probe for dependency")
	}

	var contributing []string
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return domain.NativeDependencySpec{}, err
		}
		if providesAny(root, p) {
			contributing = append(contributing, root)
		}
	}

	if len(contributing) == 0 {
		err := zerr.With(domain.ErrMissingNativeDependency, "dependency", name)
		return domain.NativeDependencySpec{}, zerr.With(err, "searched_roots", strings.Join(roots, ", "))
	}

	version, err := agreedVersion(name, contributing, p)
	if err != nil {
		return domain.NativeDependencySpec{}, err
	}

	view, err := l.merger.Merge(name, contributing)
	if err != nil {
		return domain.NativeDependencySpec{}, zerr.With(err, "dependency", name)
	}

	spec := domain.NativeDependencySpec{
		Name:         name,
		Version:      version,
		RootDir:      view,
		LibraryDir:   libraryDir(view, p),
		IncludeDir:   includeDir(view, p),
		PkgConfigDir: pkgConfigDir(view, p),
	}
	if err := spec.Validate(); err != nil {
		return domain.NativeDependencySpec{}, err
	}

	return spec, nil
}

// providesAny reports whether root carries at least one component of the
// dependency: runtime objects, headers, pkg-config metadata or binaries.
func providesAny(root string, p probe) bool {
	for _, dir := range libSubdirs {
		if hasLib(filepath.Join(root, dir), p.libs) {
			return true
		}
	}
	for _, header := range p.headers {
		if fileExists(filepath.Join(root, "include", filepath.FromSlash(header))) {
			return true
		}
	}
	if pcPath(root, p.pcName) != "" {
		return true
	}
	for _, binary := range p.binaries {
		if isExecutable(filepath.Join(root, "bin", binary)) {
			return true
		}
	}
	return false
}

// agreedVersion reads the version marker of every contributing root and
// requires them to agree. A .pc Version field wins over a VERSION sentinel
// file within one root.
func agreedVersion(name string, contributing []string, p probe) (string, error) {
	version := ""
	for _, root := range contributing {
		v := rootVersion(root, p)
		if v == "" {
			continue
		}
		if version == "" {
			version = v
			continue
		}
		if v != version {
			err := zerr.With(domain.ErrInconsistentNativeDependency, "dependency", name)
			err = zerr.With(err, "version_a", version)
			return "", zerr.With(err, "version_b", v)
		}
	}
	return version, nil
}

func rootVersion(root string, p probe) string {
	if path := pcPath(root, p.pcName); path != "" {
		if v := pcVersion(path); v != "" {
			return v
		}
	}

	//nolint:gosec // Root comes from the validated descriptor
	data, err := os.ReadFile(filepath.Join(root, "VERSION"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// pcVersion extracts the Version field from pkg-config metadata.
func pcVersion(path string) string {
	//nolint:gosec // Path was discovered under a descriptor search root
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if v, ok := strings.CutPrefix(line, "Version:"); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// pcPath returns the dependency's .pc file under root, or empty.
func pcPath(root, pcName string) string {
	if pcName == "" {
		return ""
	}
	candidates := []string{
		filepath.Join(root, "lib", "pkgconfig", pcName+".pc"),
		filepath.Join(root, "lib64", "pkgconfig", pcName+".pc"),
		filepath.Join(root, "share", "pkgconfig", pcName+".pc"),
	}
	for _, candidate := range candidates {
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

func libraryDir(view string, p probe) string {
	for _, dir := range libSubdirs {
		full := filepath.Join(view, dir)
		if hasLib(full, p.libs) {
			return full
		}
	}
	return ""
}

func includeDir(view string, p probe) string {
	full := filepath.Join(view, "include")
	for _, header := range p.headers {
		if fileExists(filepath.Join(full, filepath.FromSlash(header))) {
			return full
		}
	}
	return ""
}

func pkgConfigDir(view string, p probe) string {
	if path := pcPath(view, p.pcName); path != "" {
		return filepath.Dir(path)
	}
	return ""
}

// hasLib reports whether dir holds a linkable object for any of the base
// names. Runtime-only installs often ship versioned objects (libssl.so.3)
// without the development symlink, so matching is by prefix.
func hasLib(dir string, libs []string) bool {
	for _, lib := range libs {
		for _, pattern := range []string{"lib" + lib + ".so*", "lib" + lib + ".dylib*", "lib" + lib + ".a"} {
			matches, err := filepath.Glob(filepath.Join(dir, pattern))
			if err == nil && len(matches) > 0 {
				return true
			}
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Mode()&0o111 != 0
}
