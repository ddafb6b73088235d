// Package shellenv composes the development shell environment. The shell
// carries the exact variables a build would use, layered with the developer
// conveniences the descriptor's shell profile names; it is the same
// resolution viewed interactively instead of hermetically.
package shellenv

import (
	"context"
	"errors"
	"io/fs"
	"maps"
	"path/filepath"
	"slices"

	"github.com/Lemventory/forge/internal/core/domain"
	"github.com/Lemventory/forge/internal/core/ports"
	"github.com/joho/godotenv"
	"go.trai.ch/zerr"
)

// DotenvFileName is the developer-local override file, read from the backend
// source directory. It is never committed and never persisted anywhere.
const DotenvFileName = ".env"

// Engine composes shell environments from joined resolutions.
type Engine struct {
	runner    ports.CommandRunner
	telemetry ports.Telemetry
}

// New creates a shell composer.
func New(runner ports.CommandRunner, telemetry ports.Telemetry) *Engine {
	return &Engine{runner: runner, telemetry: telemetry}
}

// Compose builds the shell environment in layers, later layers winning:
// the backend build environment, the development defaults, the descriptor's
// shell variables, and the developer's own dotenv overrides. Auxiliary tools
// are looked up on the ambient PATH; a missing tool degrades to a warning.
func (e *Engine) Compose(
	ctx context.Context,
	desc *domain.Descriptor,
	res *domain.Resolution,
	ambient []string,
) (*domain.BuildEnv, error) {
	_, vertex := e.telemetry.Record(ctx, "compose shell")

	env, err := e.compose(vertex, desc, res, ambient)
	vertex.Complete(err)
	return env, err
}

func (e *Engine) compose(
	vertex ports.Vertex,
	desc *domain.Descriptor,
	res *domain.Resolution,
	ambient []string,
) (*domain.BuildEnv, error) {
	env, err := res.BackendEnv()
	if err != nil {
		return nil, err
	}

	// Development defaults. Anything below may override them.
	env.Set(domain.EnvRustBacktrace, "1")
	env.Set(domain.EnvDatabaseURL, domain.DefaultDatabaseURL)

	if res.UIToolchain != nil {
		env.AppendPath(res.UIToolchain.BinDir)
	}

	for _, tool := range desc.Shell.Tools {
		path, err := e.runner.LookPath(tool, ambient)
		if err != nil {
			vertex.Log(domain.LogLevelWarn, "shell tool not installed: "+tool)
			continue
		}
		env.AppendPath(filepath.Dir(path))
	}

	for _, key := range slices.Sorted(maps.Keys(desc.Shell.Env)) {
		env.Set(key, desc.Shell.Env[key])
	}

	if err := applyDotenv(env, filepath.Join(desc.Backend.SourceDir, DotenvFileName)); err != nil {
		return nil, err
	}

	return env, nil
}

// applyDotenv layers the developer's local overrides on top of everything
// else. No file means no overrides; a malformed file is an error, silently
// ignoring it would leave the developer running against values they thought
// they had replaced.
func applyDotenv(env *domain.BuildEnv, path string) error {
	overrides, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		wrapped := zerr.Wrap(err, "failed to read dotenv overrides")
		return zerr.With(wrapped, "path", path)
	}

	for _, key := range slices.Sorted(maps.Keys(overrides)) {
		env.Set(key, overrides[key])
	}
	return nil
}
