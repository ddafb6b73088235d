package domain

import "go.trai.ch/zerr"

// Descriptor is the validated project descriptor: the single declarative
// input that names every pinned file, the build targets and the shell
// profile. The loader applies defaults before validation, so a Descriptor in
// circulation is always complete.
type Descriptor struct {
	// Project is the project name used in logs and store records.
	Project string

	// SearchRoots are the directories probed for native dependencies, in
	// priority order.
	SearchRoots []string

	// Backend describes the default build target.
	Backend BackendSpec

	// UI describes the optional front-end target. Nil when the project
	// defines none.
	UI *UISpec

	// Shell describes the development shell profile.
	Shell ShellSpec
}

// BackendSpec pins the backend build.
type BackendSpec struct {
	// SourceDir is the backend source tree, the working directory of the
	// build command.
	SourceDir string

	// ManifestPath locates the package manifest, relative to SourceDir.
	ManifestPath string

	// LockfilePath locates the dependency snapshot, relative to SourceDir.
	LockfilePath string

	// LockfileDigest is the pinned content digest the lockfile must match.
	LockfileDigest string

	// ToolchainPinPath locates the toolchain pin file, relative to SourceDir.
	ToolchainPinPath string

	// Stamp describes the version constant injected before compilation.
	Stamp StampSpec

	// Command is the pinned compile command.
	Command []string

	// ArtifactPath is the build product, relative to SourceDir.
	ArtifactPath string
}

// StampSpec names the generated source file that carries the manifest
// version and the template it is rendered with.
type StampSpec struct {
	// Path of the generated file, relative to the backend source dir.
	Path string

	// Template is a format string with a single %s verb for the version.
	Template string
}

// UISpec pins the front-end build. The UI is fetched, never present locally,
// and builds with its own toolchain and its own lockfile.
type UISpec struct {
	// Source pins the front-end tree.
	Source SourceRef

	// LockfilePath locates the front-end lockfile inside the fetched tree.
	LockfilePath string

	// Toolchain pins the front-end runtime (e.g., nodejs@20.11.1).
	Toolchain ToolchainPin

	// NativeModules names the locked packages with native components that
	// must be rebuilt against the located image library after fetching.
	NativeModules []string

	// InstallCommand installs the locked dependency set.
	InstallCommand []string

	// BuildCommand produces the bundle.
	BuildCommand []string

	// ArtifactPath is the bundle output, relative to the fetched tree.
	ArtifactPath string
}

// ShellSpec describes the development shell profile.
type ShellSpec struct {
	// Tools are auxiliary developer tools surfaced on PATH when present.
	// A missing tool degrades to a warning.
	Tools []string

	// Env holds extra variables layered over the composed defaults.
	Env map[string]string
}

// Validate checks that every required pin is present. Defaults are the
// loader's job; validation runs after them.
func (d *Descriptor) Validate() error {
	if d.Project == "" {
		return zerr.With(ErrInvalidDescriptor, "missing_field", "project")
	}
	required := []struct {
		field string
		value string
	}{
		{"backend.manifest", d.Backend.ManifestPath},
		{"backend.lockfile", d.Backend.LockfilePath},
		{"backend.lockfileDigest", d.Backend.LockfileDigest},
		{"backend.toolchainPin", d.Backend.ToolchainPinPath},
		{"backend.stamp.path", d.Backend.Stamp.Path},
		{"backend.artifact", d.Backend.ArtifactPath},
	}
	for _, req := range required {
		if req.value == "" {
			err := zerr.With(ErrInvalidDescriptor, "missing_field", req.field)
			return zerr.With(err, "project", d.Project)
		}
	}
	if len(d.Backend.Command) == 0 {
		err := zerr.With(ErrInvalidDescriptor, "missing_field", "backend.command")
		return zerr.With(err, "project", d.Project)
	}
	if d.UI != nil {
		if err := d.UI.Source.Validate(); err != nil {
			return zerr.Wrap(err, "descriptor ui source")
		}
		if err := d.UI.Toolchain.Validate(); err != nil {
			return zerr.Wrap(err, "descriptor ui toolchain")
		}
		if d.UI.LockfilePath == "" {
			err := zerr.With(ErrInvalidDescriptor, "missing_field", "ui.lockfile")
			return zerr.With(err, "project", d.Project)
		}
	}
	return nil
}

// HasUI reports whether the descriptor defines the optional front-end target.
func (d *Descriptor) HasUI() bool {
	return d.UI != nil
}
