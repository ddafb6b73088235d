package app

import (
	"context"
	"fmt"
	"time"

	fswatch "github.com/Lemventory/forge/internal/adapters/watcher"
	"github.com/Lemventory/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// Watch rebuilds the backend whenever the source tree changes. Change bursts
// are debounced into one rebuild per quiet window. Watch blocks until the
// context is cancelled; a failing build is reported and absorbed so the next
// change gets a fresh attempt.
func (a *App) Watch(ctx context.Context, window time.Duration) error {
	desc, err := a.loader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load descriptor")
	}

	if err := a.watcher.Start(ctx, desc.Backend.SourceDir); err != nil {
		return zerr.Wrap(err, "failed to start file watcher")
	}
	defer func() { _ = a.watcher.Stop() }()

	// batches stays open for the whole watch: a debounce timer can fire
	// after the event stream ends, and a late send must fall out through
	// the context, not hit a closed channel.
	batches := make(chan []string, 1)
	debouncer := fswatch.NewDebouncer(window, func(paths []string) {
		select {
		case batches <- paths:
		case <-ctx.Done():
		}
	})

	// The first build runs before any change arrives. A broken tree keeps
	// the watch alive.
	a.rebuild(ctx, desc)

	eventsDone := make(chan struct{})
	go func() {
		defer close(eventsDone)
		for event := range a.watcher.Events() {
			debouncer.Add(event.Path)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-eventsDone:
			return nil
		case paths := <-batches:
			a.logger.Info(fmt.Sprintf("%d path(s) changed, rebuilding", len(paths)))
			a.rebuild(ctx, desc)
		}
	}
}

func (a *App) rebuild(ctx context.Context, desc *domain.Descriptor) {
	res, err := a.resolver.Resolve(ctx, desc)
	if err != nil {
		a.logger.Error(err)
		return
	}

	if _, err := a.builder.Build(ctx, desc, res, domain.TargetBackend); err != nil {
		a.logger.Error(err)
	}
}
