// Package resolve joins every input lookup a build needs behind one barrier.
// The toolchain resolution and the native-library probes have no data
// dependencies on each other, so they run concurrently; nothing downstream
// starts until all of them have landed.
package resolve

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Lemventory/forge/internal/core/domain"
	"github.com/Lemventory/forge/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Engine runs the resolution barrier and caches joined results on disk.
type Engine struct {
	toolchains ports.ToolchainResolver
	locator    ports.DependencyLocator
	inputs     ports.InputReader
	telemetry  ports.Telemetry
	cacheDir   string
}

// New creates a resolution engine caching results under the default
// resolution cache path.
func New(
	toolchains ports.ToolchainResolver,
	locator ports.DependencyLocator,
	inputs ports.InputReader,
	telemetry ports.Telemetry,
) *Engine {
	return NewWithCacheDir(toolchains, locator, inputs, telemetry, domain.DefaultResolutionCachePath())
}

// NewWithCacheDir creates a resolution engine with an explicit cache directory.
func NewWithCacheDir(
	toolchains ports.ToolchainResolver,
	locator ports.DependencyLocator,
	inputs ports.InputReader,
	telemetry ports.Telemetry,
	cacheDir string,
) *Engine {
	return &Engine{
		toolchains: toolchains,
		locator:    locator,
		inputs:     inputs,
		telemetry:  telemetry,
		cacheDir:   cacheDir,
	}
}

// Resolve materializes every input the descriptor pins: the backend
// toolchain, the front-end toolchain when a UI is defined, and the native
// libraries the backend links against. A cached resolution whose paths are
// still present short-circuits the whole pass.
func (e *Engine) Resolve(ctx context.Context, desc *domain.Descriptor) (*domain.Resolution, error) {
	pin, err := e.inputs.ReadToolchainPin(filepath.Join(desc.Backend.SourceDir, desc.Backend.ToolchainPinPath))
	if err != nil {
		return nil, err
	}
	if err := pin.Validate(); err != nil {
		return nil, err
	}

	req := domain.ResolutionRequest{
		Pin:         pin,
		Deps:        domain.BackendNativeDeps(),
		SearchRoots: desc.SearchRoots,
	}
	if desc.HasUI() {
		uiPin := desc.UI.Toolchain
		req.UIPin = &uiPin
		req.Deps = append(req.Deps, domain.DepVips)
	}

	// The umbrella vertex stays quiet in plain output; the individual probe
	// vertices tell the story. Cache hits still surface through it.
	ctx, vertex := e.telemetry.Record(ctx, "resolve inputs", ports.WithInternal())

	cachePath := filepath.Join(e.cacheDir, domain.GenerateResolutionID(req)+".json")
	switch cached, err := loadCached(cachePath); {
	case err == nil && stillPresent(cached):
		vertex.Cached()
		return cached, nil
	case errors.Is(err, domain.ErrCacheCorrupted):
		vertex.Log(domain.LogLevelWarn, "resolution cache entry corrupted, re-resolving")
	}

	res, err := e.resolveAll(ctx, req)
	if err != nil {
		vertex.Complete(err)
		return nil, err
	}

	// A failed cache write costs a re-resolution later, nothing more.
	_ = saveCached(cachePath, res)

	vertex.Complete(nil)
	return res, nil
}

// resolveAll fans the probes out under one errgroup and joins them. The
// first failure cancels the group context; the rest abandon their work.
func (e *Engine) resolveAll(ctx context.Context, req domain.ResolutionRequest) (*domain.Resolution, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	var toolchain domain.ToolchainSpec
	g.Go(func() error {
		_, v := e.telemetry.Record(gctx, "toolchain "+req.Pin.Spec())
		spec, err := e.toolchains.Resolve(gctx, req.Pin)
		v.Complete(err)
		if err != nil {
			return err
		}
		toolchain = spec
		return nil
	})

	var uiToolchain *domain.ToolchainSpec
	if req.UIPin != nil {
		g.Go(func() error {
			_, v := e.telemetry.Record(gctx, "toolchain "+req.UIPin.Spec())
			spec, err := e.toolchains.Resolve(gctx, *req.UIPin)
			v.Complete(err)
			if err != nil {
				return err
			}
			uiToolchain = &spec
			return nil
		})
	}

	// Each goroutine writes its own slot, so the join needs no lock.
	located := make([]domain.NativeDependencySpec, len(req.Deps))
	for i, name := range req.Deps {
		g.Go(func() error {
			_, v := e.telemetry.Record(gctx, "locate "+name)
			spec, err := e.locator.Locate(gctx, name, req.SearchRoots)
			v.Complete(err)
			if err != nil {
				return err
			}
			located[i] = spec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.Resolution{
		Pin:         req.Pin,
		Toolchain:   toolchain,
		UIToolchain: uiToolchain,
		NativeDeps:  located,
	}, nil
}

// stillPresent reports whether every path a cached resolution points at still
// exists. Installations disappear between runs; a dangling entry is a miss,
// not an error.
func stillPresent(res *domain.Resolution) bool {
	paths := []string{res.Toolchain.BinDir}
	if res.UIToolchain != nil {
		paths = append(paths, res.UIToolchain.BinDir)
	}
	for _, dep := range res.NativeDeps {
		paths = append(paths, dep.RootDir)
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return false
		}
	}
	return true
}

func loadCached(path string) (*domain.Resolution, error) {
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, zerr.Wrap(err, "failed to read resolution cache")
	}

	var res domain.Resolution
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, zerr.Wrap(err, domain.ErrCacheCorrupted.Error())
	}
	if err := res.Validate(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrCacheCorrupted.Error())
	}

	return &res, nil
}

func saveCached(path string, res *domain.Resolution) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create resolution cache directory")
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal resolution")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".resolution-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create resolution temp file")
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, "failed to write resolution cache")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, "failed to close resolution temp file")
	}

	return os.Rename(tmp.Name(), path)
}
