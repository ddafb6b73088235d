package ports

import (
	"context"
	"io"
)

// RunSpec describes one command invocation. Env is the complete environment
// in "KEY=VALUE" form: the runner passes it through verbatim, so hermetic
// callers get exactly what they constructed and nothing from the ambient
// process.
type RunSpec struct {
	// Name labels the invocation in logs and telemetry.
	Name string

	// Dir is the working directory.
	Dir string

	// Args is the command line; Args[0] is resolved against the PATH inside
	// Env, not the ambient PATH.
	Args []string

	// Env is the full serialized environment.
	Env []string

	// Stdin feeds the command's standard input. Nil means no input; the
	// interactive shell passes the process's own stdin through.
	Stdin io.Reader

	// Stdout and Stderr receive the command's output streams. Either may be
	// nil to discard.
	Stdout io.Writer
	Stderr io.Writer
}

// CommandRunner executes external commands.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type CommandRunner interface {
	// Run executes the spec and blocks until completion. A non-zero exit
	// returns domain.ErrBuildFailed with the exit code attached.
	Run(ctx context.Context, spec RunSpec) error

	// LookPath searches for an executable in the PATH carried by env.
	// Returns the absolute path, or an error if not found.
	LookPath(name string, env []string) (string, error)
}
