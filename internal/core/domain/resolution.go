package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// ResolutionRequest names everything a resolution pass depends on: the
// toolchain pins, the dependency set and the search roots. Equal requests
// resolve identically on an unchanged host, so the request's hash keys the
// on-disk resolution cache.
type ResolutionRequest struct {
	// Pin is the backend toolchain pin.
	Pin ToolchainPin

	// UIPin is the front-end toolchain pin. Nil when the project has no
	// front-end target.
	UIPin *ToolchainPin

	// Deps are the canonical names of the native libraries to locate.
	Deps []string

	// SearchRoots are the probed directories. Order is priority order and
	// affects the result, so it affects the ID.
	SearchRoots []string
}

// GenerateResolutionID creates the deterministic cache key of a resolution
// request.
func GenerateResolutionID(req ResolutionRequest) string {
	deps := slices.Sorted(slices.Values(req.Deps))

	// Field separators keep adjacent values from colliding
	var builder strings.Builder
	writeField := func(parts ...string) {
		for _, p := range parts {
			builder.WriteString(p)
			builder.WriteString("\x00")
		}
		builder.WriteString(";")
	}

	writeField(req.Pin.Channel, req.Pin.Version)
	writeField(req.Pin.Targets...)
	if req.UIPin != nil {
		writeField(req.UIPin.Channel, req.UIPin.Version)
	}
	writeField(deps...)
	writeField(req.SearchRoots...)

	hash := sha256.Sum256([]byte(builder.String()))
	return hex.EncodeToString(hash[:])
}

// Resolution is the joined output of the resolution barrier: the backend
// toolchain, the optional front-end toolchain and every located native
// library, all resolved from the same descriptor snapshot. Downstream stages
// only ever see a complete Resolution; partial results never leave the
// resolver.
type Resolution struct {
	// Pin is the backend toolchain pin the resolution answered.
	Pin ToolchainPin `json:"pin,omitzero"`

	// Toolchain is the resolved backend compiler toolchain.
	Toolchain ToolchainSpec `json:"toolchain,omitzero"`

	// UIToolchain is the resolved front-end runtime. Nil when the descriptor
	// defines no front-end target.
	UIToolchain *ToolchainSpec `json:"ui_toolchain,omitzero"`

	// NativeDeps holds the located native libraries in request order.
	NativeDeps []NativeDependencySpec `json:"native_deps,omitzero"`
}

// Dep returns the located spec for a canonical dependency name.
func (r *Resolution) Dep(name string) (NativeDependencySpec, bool) {
	for _, dep := range r.NativeDeps {
		if dep.Name == name {
			return dep, true
		}
	}
	return NativeDependencySpec{}, false
}

// BackendDeps returns the located specs for the fixed backend dependency
// set, in the deterministic order their variables are exported.
func (r *Resolution) BackendDeps() ([]NativeDependencySpec, error) {
	deps := make([]NativeDependencySpec, 0, len(BackendNativeDeps()))
	for _, name := range BackendNativeDeps() {
		dep, ok := r.Dep(name)
		if !ok {
			return nil, zerr.With(ErrMissingNativeDependency, "dependency", name)
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

// BackendEnv constructs the hermetic backend environment: the resolved
// toolchain and every located backend library, nothing else. The builder and
// the shell composer both start from this, so the shell always carries the
// build's exact variables.
func (r *Resolution) BackendEnv() (*BuildEnv, error) {
	deps, err := r.BackendDeps()
	if err != nil {
		return nil, err
	}

	env := NewBuildEnv()
	env.ApplyToolchain(r.Toolchain)
	for _, dep := range deps {
		env.ApplyNativeDependency(dep)
	}
	return env, nil
}

// UIDeps returns the located specs the front-end build compiles its native
// modules against: the image library, plus the probing tool when located.
func (r *Resolution) UIDeps() ([]NativeDependencySpec, error) {
	vips, ok := r.Dep(DepVips)
	if !ok {
		return nil, zerr.With(ErrMissingNativeDependency, "dependency", DepVips)
	}

	deps := []NativeDependencySpec{vips}
	if pkgConfig, ok := r.Dep(DepPkgConfig); ok {
		deps = append(deps, pkgConfig)
	}
	return deps, nil
}

// UIEnv constructs the front-end build environment: the front-end runtime on
// PATH and the native-module libraries. The front-end toolchain carries no
// triples or source path, so only its executables are exported.
func (r *Resolution) UIEnv() (*BuildEnv, error) {
	if r.UIToolchain == nil {
		return nil, zerr.With(ErrUnresolvableToolchain, "reason", "resolution has no ui toolchain")
	}
	deps, err := r.UIDeps()
	if err != nil {
		return nil, err
	}

	env := NewBuildEnv()
	env.PrependPath(r.UIToolchain.BinDir)
	for _, dep := range deps {
		env.ApplyNativeDependency(dep)
	}
	return env, nil
}

// Validate re-checks every component of the resolution. Cached entries run
// through this before they are trusted; a failure means the entry never
// reaches a build.
func (r *Resolution) Validate() error {
	if err := r.Pin.Validate(); err != nil {
		return zerr.Wrap(err, "resolution pin")
	}
	if err := r.Toolchain.Validate(); err != nil {
		return zerr.Wrap(err, "resolution toolchain")
	}
	if r.UIToolchain != nil {
		if err := r.UIToolchain.Validate(); err != nil {
			return zerr.Wrap(err, "resolution ui toolchain")
		}
	}
	for _, dep := range r.NativeDeps {
		if err := dep.Validate(); err != nil {
			return zerr.Wrap(err, "resolution native dependency")
		}
	}
	return nil
}
