// Package manifest parses the pinned input files named by the descriptor:
// the backend manifest and lockfile, the toolchain pin (all TOML) and the
// front-end lockfile (YAML).
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/Lemventory/forge/internal/core/domain"
	"github.com/Lemventory/forge/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.InputReader = (*Reader)(nil)

// Reader implements ports.InputReader against the local file system.
type Reader struct{}

// NewReader creates a new input Reader.
func NewReader() *Reader {
	return &Reader{}
}

type manifestFile struct {
	Package packageSection `toml:"package"`
}

type packageSection struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// ReadManifest parses the backend package manifest.
func (r *Reader) ReadManifest(path string) (domain.Manifest, error) {
	//nolint:gosec // Path comes from the validated descriptor
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Manifest{}, zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", path)
	}

	var file manifestFile
	if err := toml.Unmarshal(data, &file); err != nil {
		wrapped := zerr.Wrap(err, domain.ErrInvalidManifest.Error())
		return domain.Manifest{}, zerr.With(wrapped, "path", path)
	}

	return domain.Manifest{
		Name:    file.Package.Name,
		Version: file.Package.Version,
	}, nil
}

type lockfileFile struct {
	Packages []lockedPackageEntry `toml:"package"`
}

type lockedPackageEntry struct {
	Name     string `toml:"name"`
	Version  string `toml:"version"`
	Source   string `toml:"source"`
	Checksum string `toml:"checksum"`
}

// ReadLockfile parses the backend lockfile and records the content digest of
// the raw bytes, which is what the descriptor pin is compared against.
func (r *Reader) ReadLockfile(path string) (domain.Lockfile, error) {
	//nolint:gosec // Path comes from the validated descriptor
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Lockfile{}, zerr.With(zerr.Wrap(err, "failed to read lockfile"), "path", path)
	}

	var file lockfileFile
	if err := toml.Unmarshal(data, &file); err != nil {
		wrapped := zerr.Wrap(err, domain.ErrLockfileDrift.Error())
		return domain.Lockfile{}, zerr.With(wrapped, "path", path)
	}

	lockfile := domain.Lockfile{
		Digest:   ContentDigest(data),
		Packages: make([]domain.LockedPackage, len(file.Packages)),
	}
	for i, entry := range file.Packages {
		lockfile.Packages[i] = domain.LockedPackage{
			Name:     entry.Name,
			Version:  entry.Version,
			Checksum: entry.Checksum,
			Source:   entry.Source,
		}
	}

	return lockfile, nil
}

type toolchainPinFile struct {
	Toolchain toolchainSection `toml:"toolchain"`
}

type toolchainSection struct {
	Channel string   `toml:"channel"`
	Version string   `toml:"version"`
	Targets []string `toml:"targets"`
}

// ReadToolchainPin parses a toolchain pin file. The conventional pin format
// allows an exact version directly in the channel field; that form normalizes
// to the stable channel with the version split out.
func (r *Reader) ReadToolchainPin(path string) (domain.ToolchainPin, error) {
	//nolint:gosec // Path comes from the validated descriptor
	data, err := os.ReadFile(path)
	if err != nil {
		wrapped := zerr.Wrap(err, "failed to read toolchain pin")
		return domain.ToolchainPin{}, zerr.With(wrapped, "path", path)
	}

	var file toolchainPinFile
	if err := toml.Unmarshal(data, &file); err != nil {
		wrapped := zerr.Wrap(err, domain.ErrUnresolvableToolchain.Error())
		return domain.ToolchainPin{}, zerr.With(wrapped, "path", path)
	}

	pin := domain.ToolchainPin{
		Channel: file.Toolchain.Channel,
		Version: file.Toolchain.Version,
		Targets: file.Toolchain.Targets,
	}
	if pin.Version == "" && looksLikeVersion(pin.Channel) {
		pin.Version = pin.Channel
		pin.Channel = "stable"
	}

	return pin, nil
}

type uiLockfileFile struct {
	LockfileVersion string                   `yaml:"lockfileVersion"`
	Packages        map[string]uiLockedEntry `yaml:"packages"`
}

type uiLockedEntry struct {
	Version    string       `yaml:"version"`
	Resolution uiResolution `yaml:"resolution"`
}

type uiResolution struct {
	Integrity string `yaml:"integrity"`
}

// ReadUILockfile parses the front-end lockfile. Package keys normalize to
// "name@version" regardless of the lockfile format's key style.
func (r *Reader) ReadUILockfile(path string) (domain.UILockfile, error) {
	//nolint:gosec // Path comes from the validated descriptor
	data, err := os.ReadFile(path)
	if err != nil {
		wrapped := zerr.Wrap(err, "failed to read ui lockfile")
		return domain.UILockfile{}, zerr.With(wrapped, "path", path)
	}

	var file uiLockfileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		wrapped := zerr.Wrap(err, domain.ErrLockfileDrift.Error())
		return domain.UILockfile{}, zerr.With(wrapped, "path", path)
	}

	lockfile := domain.UILockfile{
		FormatVersion: file.LockfileVersion,
		Packages:      make(map[string]domain.UILockedPackage, len(file.Packages)),
	}
	for key, entry := range file.Packages {
		name, version := splitPackageKey(key)
		if entry.Version != "" {
			version = entry.Version
		}
		lockfile.Packages[name+"@"+version] = domain.UILockedPackage{
			Version:   version,
			Integrity: entry.Resolution.Integrity,
		}
	}

	return lockfile, nil
}

// ContentDigest returns the pinned-digest form of raw input bytes.
func ContentDigest(data []byte) string {
	sum := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// looksLikeVersion reports whether s is an exact version rather than a
// channel name.
func looksLikeVersion(s string) bool {
	return s != "" && unicode.IsDigit(rune(s[0]))
}

// splitPackageKey splits a lockfile package key into name and version. Keys
// look like "sass@1.69.5" or "/@scope/pkg@1.0.0"; the version follows the
// last "@".
func splitPackageKey(key string) (string, string) {
	key = strings.TrimPrefix(key, "/")
	idx := strings.LastIndex(key, "@")
	if idx <= 0 {
		return key, ""
	}
	return key[:idx], key[idx+1:]
}
