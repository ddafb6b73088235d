// Package telemetry implements the progress-recording port. The default
// bridge streams step output through the structured logger; a richer
// recorder lives in the progrock subpackage.
package telemetry

import (
	"context"
	"io"

	"github.com/Lemventory/forge/internal/adapters/shell"
	"github.com/Lemventory/forge/internal/core/domain"
	"github.com/Lemventory/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// LogBridge records steps as plain log lines. It is the default telemetry
// sink: every vertex logs its lifecycle and streams command output through
// the logger, so progress stays visible without a richer renderer.
type LogBridge struct {
	logger ports.Logger
}

var _ ports.Telemetry = (*LogBridge)(nil)

// NewLogBridge creates a LogBridge writing through logger.
func NewLogBridge(logger ports.Logger) *LogBridge {
	return &LogBridge{logger: logger}
}

// Record logs the step start and returns a vertex bound to the logger.
// Internal vertices stay silent unless they fail.
func (b *LogBridge) Record(ctx context.Context, name string, opts ...ports.VertexOption) (context.Context, ports.Vertex) {
	cfg := &ports.VertexConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if !cfg.Internal {
		b.logger.Info(name)
	}

	v := &logVertex{
		name:     name,
		internal: cfg.Internal,
		logger:   b.logger,
		stdout:   shell.NewLineWriter(b.logger, domain.LogLevelInfo),
		stderr:   shell.NewLineWriter(b.logger, domain.LogLevelWarn),
	}
	return ports.ContextWithVertex(ctx, v), v
}

// Close does nothing; the bridge holds no session state.
func (b *LogBridge) Close() error {
	return nil
}

type logVertex struct {
	name     string
	internal bool
	logger   ports.Logger
	stdout   *shell.LineWriter
	stderr   *shell.LineWriter
}

var _ ports.Vertex = (*logVertex)(nil)

func (v *logVertex) Stdout() io.Writer { return v.stdout }
func (v *logVertex) Stderr() io.Writer { return v.stderr }

func (v *logVertex) Log(level domain.LogLevel, msg string) {
	switch {
	case level >= domain.LogLevelError:
		v.logger.Error(zerr.New(msg))
	case level >= domain.LogLevelWarn:
		v.logger.Warn(msg)
	default:
		v.logger.Info(msg)
	}
}

// Complete flushes buffered output. Failures are not logged here: the error
// travels up the call chain and is reported once at the top level.
func (v *logVertex) Complete(err error) {
	v.stdout.Flush()
	v.stderr.Flush()
	if err == nil && !v.internal {
		v.logger.Info(v.name + " done")
	}
}

func (v *logVertex) Cached() {
	v.stdout.Flush()
	v.stderr.Flush()
	v.logger.Info(v.name + " (cached)")
}
