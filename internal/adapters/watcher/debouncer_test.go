package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/Lemventory/forge/internal/adapters/watcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_SinglePath(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls int
		var received []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			calls++
			received = paths
		})

		d.Add("/project/src/main.rs")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, calls)
		require.Len(t, received, 1)
		assert.Equal(t, "/project/src/main.rs", received[0])
	})
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls int
		var received []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			calls++
			received = paths
		})

		d.Add("/project/src/lib.rs")
		d.Add("/project/src/api.rs")
		d.Add("/project/Cargo.toml")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, calls)
		assert.ElementsMatch(t, []string{"/project/src/lib.rs", "/project/src/api.rs", "/project/Cargo.toml"}, received)
	})
}

func TestDebouncer_DeduplicatesPaths(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var received []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			received = paths
		})

		for range 5 {
			d.Add("/project/src/main.rs")
		}

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Len(t, received, 1)
	})
}

func TestDebouncer_AddResetsWindow(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls int

		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
			calls++
		})

		// Keep adding inside the window; the callback must wait for quiet.
		d.Add("/a")
		time.Sleep(60 * time.Millisecond)
		d.Add("/b")
		time.Sleep(60 * time.Millisecond)
		d.Add("/c")

		synctest.Wait()
		require.Zero(t, calls)

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		require.Equal(t, 1, calls)
	})
}

func TestDebouncer_FlushImmediate(t *testing.T) {
	var mu sync.Mutex
	var received []string

	d := watcher.NewDebouncer(time.Hour, func(paths []string) {
		mu.Lock()
		defer mu.Unlock()
		received = paths
	})

	d.Add("/project/migrations/up.sql")
	d.Flush()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, "/project/migrations/up.sql", received[0])
}

func TestDebouncer_FlushEmptyIsQuiet(t *testing.T) {
	var calls int
	d := watcher.NewDebouncer(time.Hour, func([]string) { calls++ })

	d.Flush()
	require.Zero(t, calls)
}

func TestDebouncer_FlushClearsPending(t *testing.T) {
	var calls int
	d := watcher.NewDebouncer(time.Hour, func([]string) { calls++ })

	d.Add("/x")
	d.Flush()
	d.Flush()
	require.Equal(t, 1, calls)
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := watcher.NewDebouncer(10*time.Millisecond, nil)
		d.Add("/ignored")

		time.Sleep(50 * time.Millisecond)
		synctest.Wait()
		d.Flush()
	})
}

func TestDebouncer_ZeroWindowUsesDefault(t *testing.T) {
	d := watcher.NewDebouncer(0, func([]string) {})
	require.NotNil(t, d)
}
