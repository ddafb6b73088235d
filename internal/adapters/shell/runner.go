// Package shell runs external commands in fully constructed environments.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Lemventory/forge/internal/core/domain"
	"github.com/Lemventory/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CommandRunner = (*Runner)(nil)

// Runner implements ports.CommandRunner using os/exec. The spec's environment
// is passed to the child verbatim; the runner never merges in the ambient
// process environment, so whatever hermiticity the caller constructed is
// preserved.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a Runner that logs command starts through logger.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes spec.Args with exactly spec.Env and blocks until completion.
func (r *Runner) Run(ctx context.Context, spec ports.RunSpec) error {
	if len(spec.Args) == 0 {
		return zerr.With(domain.ErrBuildFailed, "reason", "empty command")
	}

	name := spec.Args[0]
	executable := name
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, os.PathSeparator) {
		lp, err := r.LookPath(name, spec.Env)
		if err != nil {
			wrapped := zerr.Wrap(err, domain.ErrBuildFailed.Error())
			return zerr.With(wrapped, "command", name)
		}
		executable = lp
	}

	cmd := exec.CommandContext(ctx, executable, spec.Args[1:]...) //nolint:gosec // command comes from the validated descriptor
	// CommandContext stores the resolved path in Args[0]; restore the name as
	// invoked so the child sees what the descriptor wrote.
	cmd.Args[0] = name
	cmd.Dir = spec.Dir
	cmd.Env = spec.Env
	cmd.Stdin = spec.Stdin
	cmd.Stdout = spec.Stdout
	cmd.Stderr = spec.Stderr

	r.logger.Info("running " + spec.Name + ": " + strings.Join(spec.Args, " "))

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		wrapped := zerr.With(zerr.Wrap(err, domain.ErrBuildFailed.Error()), "step", spec.Name)
		return zerr.With(wrapped, "exit_code", exitCode)
	}

	return nil
}

// LookPath searches for name in the PATH entries carried by env. The ambient
// PATH is never consulted.
func (r *Runner) LookPath(name string, env []string) (string, error) {
	if filepath.IsAbs(name) {
		if err := findExecutable(name); err != nil {
			return "", err
		}
		return name, nil
	}

	var path string
	for _, entry := range env {
		if v, ok := strings.CutPrefix(entry, "PATH="); ok {
			path = v
			break
		}
	}
	if path == "" {
		return "", zerr.With(zerr.Wrap(exec.ErrNotFound, "constructed environment has no PATH"), "executable", name)
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: an empty PATH element means ".".
			dir = "."
		}
		candidate := filepath.Join(dir, name)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", zerr.With(zerr.Wrap(exec.ErrNotFound, "executable not in constructed PATH"), "executable", name)
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}

// LineWriter adapts a Logger into an io.Writer, emitting one entry per
// complete line. Build tools write in arbitrary chunks; partial lines are
// buffered until their newline arrives or Flush is called.
type LineWriter struct {
	logger ports.Logger
	level  domain.LogLevel

	mu      sync.Mutex
	pending []byte
}

// NewLineWriter creates a LineWriter logging each line at level.
func NewLineWriter(logger ports.Logger, level domain.LogLevel) *LineWriter {
	return &LineWriter{logger: logger, level: level}
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = append(w.pending, p...)
	for {
		i := bytes.IndexByte(w.pending, '\n')
		if i < 0 {
			break
		}
		w.emit(string(w.pending[:i]))
		w.pending = w.pending[i+1:]
	}
	return len(p), nil
}

// Flush logs any buffered partial line. Callers should flush once the command
// has exited, since a final line without a trailing newline never completes.
func (w *LineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.pending) == 0 {
		return
	}
	w.emit(string(w.pending))
	w.pending = w.pending[:0]
}

func (w *LineWriter) emit(line string) {
	switch {
	case w.level >= domain.LogLevelError:
		w.logger.Error(zerr.New(line))
	case w.level >= domain.LogLevelWarn:
		w.logger.Warn(line)
	default:
		w.logger.Info(line)
	}
}
