// Package app implements the application layer for forge.
package app

import (
	"context"
	"io"
	"strings"

	"github.com/Lemventory/forge/internal/core/domain"
	"github.com/Lemventory/forge/internal/core/ports"
	"github.com/Lemventory/forge/internal/engine/builder"
	"github.com/Lemventory/forge/internal/engine/resolve"
	"github.com/Lemventory/forge/internal/engine/shellenv"
	"go.trai.ch/zerr"
)

// App represents the main application logic. It loads the project
// descriptor, drives the resolution barrier and hands the joined resolution
// to the builder or the shell composer.
type App struct {
	loader   ports.ConfigLoader
	resolver *resolve.Engine
	builder  *builder.Engine
	composer *shellenv.Engine
	runner   ports.CommandRunner
	watcher  ports.Watcher
	logger   ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	resolver *resolve.Engine,
	bld *builder.Engine,
	composer *shellenv.Engine,
	runner ports.CommandRunner,
	watcher ports.Watcher,
	logger ports.Logger,
) *App {
	return &App{
		loader:   loader,
		resolver: resolver,
		builder:  bld,
		composer: composer,
		runner:   runner,
		watcher:  watcher,
		logger:   logger,
	}
}

// Build resolves the project's inputs once and builds the named targets in
// order. An empty target list builds the backend. Outputs of targets that
// completed are returned alongside the first failure: a broken target never
// invalidates another target's finished output.
func (a *App) Build(ctx context.Context, targetNames []string) ([]*domain.BuildOutput, error) {
	targets, err := parseTargets(targetNames)
	if err != nil {
		return nil, err
	}

	desc, err := a.loader.Load(".")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load descriptor")
	}

	res, err := a.resolver.Resolve(ctx, desc)
	if err != nil {
		return nil, err
	}

	outputs := make([]*domain.BuildOutput, 0, len(targets))
	for _, target := range targets {
		out, err := a.builder.Build(ctx, desc, res, target)
		if err != nil {
			return outputs, err
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

func parseTargets(names []string) ([]domain.BuildTarget, error) {
	if len(names) == 0 {
		return []domain.BuildTarget{domain.TargetBackend}, nil
	}

	targets := make([]domain.BuildTarget, 0, len(names))
	for _, name := range names {
		target, ok := domain.ParseBuildTarget(name)
		if !ok {
			return nil, zerr.With(domain.ErrUnknownTarget, "target", name)
		}
		targets = append(targets, target)
	}
	return targets, nil
}

// ShellSession carries the process-boundary resources an interactive shell
// needs. The app never reads the real process environment or streams itself;
// the caller owns them.
type ShellSession struct {
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Ambient []string
}

// Shell composes the development environment and runs an interactive shell
// inside it. The resolved environment is printed first for verification,
// then merged over the ambient one; resolved values win.
func (a *App) Shell(ctx context.Context, session ShellSession) error {
	desc, env, err := a.composeEnv(ctx, session.Ambient)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(session.Stdout, env.String()+"\n"); err != nil {
		return zerr.Wrap(err, "failed to print shell environment")
	}

	merged := env.Clone()
	merged.MergeAmbient(session.Ambient)

	return a.runner.Run(ctx, ports.RunSpec{
		Name:   "dev shell",
		Dir:    desc.Backend.SourceDir,
		Args:   []string{shellProgram(session.Ambient)},
		Env:    merged.Environ(),
		Stdin:  session.Stdin,
		Stdout: session.Stdout,
		Stderr: session.Stderr,
	})
}

// Env composes the development environment without entering it. The caller
// serializes it at the process boundary.
func (a *App) Env(ctx context.Context, ambient []string) (*domain.BuildEnv, error) {
	_, env, err := a.composeEnv(ctx, ambient)
	return env, err
}

func (a *App) composeEnv(ctx context.Context, ambient []string) (*domain.Descriptor, *domain.BuildEnv, error) {
	desc, err := a.loader.Load(".")
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to load descriptor")
	}

	res, err := a.resolver.Resolve(ctx, desc)
	if err != nil {
		return nil, nil, err
	}

	env, err := a.composer.Compose(ctx, desc, res, ambient)
	if err != nil {
		return nil, nil, err
	}
	return desc, env, nil
}

// shellProgram picks the developer's own shell, falling back to /bin/sh.
func shellProgram(ambient []string) string {
	for _, kv := range ambient {
		if value, ok := strings.CutPrefix(kv, "SHELL="); ok && value != "" {
			return value
		}
	}
	return "/bin/sh"
}
