// Package config provides the descriptor loader for forge.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/Lemventory/forge/internal/core/domain"
	"github.com/Lemventory/forge/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML descriptor file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Descriptor defaults. A minimal forge.yaml only pins what cannot be
// guessed: digests, the stamp path and the artifact paths.
var (
	defaultSearchRoots   = []string{"/usr", "/usr/local", "/opt/homebrew"}
	defaultBackendCmd    = []string{"cargo", "build", "--release", "--locked"}
	defaultUIInstall     = []string{"pnpm", "install", "--frozen-lockfile"}
	defaultUIBuild       = []string{"pnpm", "build"}
	defaultNativeModules = []string{"sass", "sharp"}
	defaultShellTools    = []string{"cargo-audit", "cargo-edit", "cargo-watch", "rust-analyzer", "pnpm"}
)

const (
	supportedVersion     = "1"
	defaultManifest      = "Cargo.toml"
	defaultLockfile      = "Cargo.lock"
	defaultToolchainPin  = "rust-toolchain.toml"
	defaultStampTemplate = `pub const VERSION: &str = "%s";`
	defaultUILockfile    = "pnpm-lock.yaml"
	defaultUIArtifact    = "dist"
)

// Load locates the descriptor starting at cwd and walking toward the
// filesystem root, then parses, defaults and validates it.
func (l *Loader) Load(cwd string) (*domain.Descriptor, error) {
	path, err := l.findDescriptor(cwd)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // Path is discovered under the user's working directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read descriptor")
	}

	var forgefile Forgefile
	if err := yaml.Unmarshal(data, &forgefile); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse descriptor"), "path", path)
	}

	if forgefile.Version != "" && forgefile.Version != supportedVersion {
		err := zerr.With(domain.ErrInvalidDescriptor, "version", forgefile.Version)
		return nil, zerr.With(err, "supported", supportedVersion)
	}
	if forgefile.Version == "" {
		l.Logger.Warn(fmt.Sprintf("no version in %s, assuming %q", domain.DescriptorFileName, supportedVersion))
	}

	desc, err := l.toDomain(filepath.Dir(path), &forgefile)
	if err != nil {
		return nil, err
	}

	if err := desc.Validate(); err != nil {
		return nil, zerr.With(err, "path", path)
	}

	return desc, nil
}

func (l *Loader) findDescriptor(cwd string) (string, error) {
	currentDir := cwd
	for {
		path := filepath.Join(currentDir, domain.DescriptorFileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	err := zerr.With(zerr.New("descriptor not found"), "cwd", cwd)
	return "", zerr.With(err, "filename", domain.DescriptorFileName)
}

// toDomain converts the parsed file into a complete Descriptor. Paths inside
// source trees stay relative; the source trees themselves and the cache dir
// are anchored at the descriptor's directory.
func (l *Loader) toDomain(baseDir string, file *Forgefile) (*domain.Descriptor, error) {
	if file.Backend == nil {
		return nil, zerr.With(domain.ErrInvalidDescriptor, "missing_field", "backend")
	}

	desc := &domain.Descriptor{
		Project:     file.Project,
		SearchRoots: withDefaultRoots(file.SearchRoots),
		Backend: domain.BackendSpec{
			SourceDir:        resolvePath(baseDir, file.Backend.Source, "."),
			ManifestPath:     orDefault(file.Backend.Manifest, defaultManifest),
			LockfilePath:     orDefault(file.Backend.Lockfile, defaultLockfile),
			LockfileDigest:   file.Backend.LockfileDigest,
			ToolchainPinPath: orDefault(file.Backend.ToolchainPin, defaultToolchainPin),
			Command:          orDefaultSlice(file.Backend.Cmd, defaultBackendCmd),
			ArtifactPath:     file.Backend.Artifact,
		},
		Shell: domain.ShellSpec{
			Tools: slices.Clone(defaultShellTools),
		},
	}

	if file.Backend.Stamp != nil {
		desc.Backend.Stamp = domain.StampSpec{
			Path:     file.Backend.Stamp.Path,
			Template: orDefault(file.Backend.Stamp.Template, defaultStampTemplate),
		}
	}

	if file.Shell != nil {
		desc.Shell.Tools = orDefaultSlice(file.Shell.Tools, defaultShellTools)
		desc.Shell.Env = file.Shell.Env
	}

	if file.UI != nil {
		ui, err := l.uiToDomain(file.UI)
		if err != nil {
			return nil, err
		}
		desc.UI = ui
	}

	return desc, nil
}

func (l *Loader) uiToDomain(dto *UIDTO) (*domain.UISpec, error) {
	if dto.Source == nil {
		return nil, zerr.With(domain.ErrInvalidDescriptor, "missing_field", "ui.source")
	}
	if dto.Toolchain == nil {
		return nil, zerr.With(domain.ErrInvalidDescriptor, "missing_field", "ui.toolchain")
	}

	return &domain.UISpec{
		Source: domain.SourceRef{
			Owner:       dto.Source.Owner,
			Repo:        dto.Source.Repo,
			Rev:         dto.Source.Rev,
			ContentHash: dto.Source.Hash,
		},
		LockfilePath: orDefault(dto.Lockfile, defaultUILockfile),
		Toolchain: domain.ToolchainPin{
			Channel: dto.Toolchain.Channel,
			Version: dto.Toolchain.Version,
			Targets: dto.Toolchain.Targets,
		},
		NativeModules:  orDefaultSlice(dto.NativeModules, defaultNativeModules),
		InstallCommand: orDefaultSlice(dto.Install, defaultUIInstall),
		BuildCommand:   orDefaultSlice(dto.Build, defaultUIBuild),
		ArtifactPath:   orDefault(dto.Artifact, defaultUIArtifact),
	}, nil
}

// withDefaultRoots appends the platform default roots after the descriptor's
// own, so user roots take probing priority. Duplicates collapse.
func withDefaultRoots(roots []string) []string {
	merged := make([]string, 0, len(roots)+len(defaultSearchRoots))
	for _, root := range roots {
		if !slices.Contains(merged, root) {
			merged = append(merged, root)
		}
	}
	for _, root := range defaultSearchRoots {
		if !slices.Contains(merged, root) {
			merged = append(merged, root)
		}
	}
	return merged
}

func resolvePath(baseDir, value, fallback string) string {
	if value == "" {
		value = fallback
	}
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(baseDir, value)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func orDefaultSlice(value, fallback []string) []string {
	if len(value) == 0 {
		return slices.Clone(fallback)
	}
	return value
}
