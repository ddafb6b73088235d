// Package logger implements the logging port on log/slog.
package logger

import (
	"errors"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/Lemventory/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Logger implements ports.Logger with a slog text handler on stderr. The
// handler drops timestamps so identical runs produce identical output.
type Logger struct {
	mu     sync.RWMutex
	logger *slog.Logger
}

var _ ports.Logger = (*Logger)(nil)

// New creates a Logger writing human-readable lines to stderr.
func New() ports.Logger {
	return &Logger{logger: slog.New(newHandler(os.Stderr))}
}

func newHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	})
}

// SetOutput redirects subsequent log lines to w.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = slog.New(newHandler(w))
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs err. Metadata attached along the error chain becomes structured
// attributes, sorted by key for stable output.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	var zErr *zerr.Error
	if errors.As(err, &zErr) {
		meta := zErr.Metadata()
		args := make([]any, 0, 2*len(meta))
		for _, k := range slices.Sorted(maps.Keys(meta)) {
			args = append(args, k, meta[k])
		}
		l.logger.Error(err.Error(), args...)
		return
	}

	l.logger.Error("operation failed", "error", err)
}
