package progrock

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"time"
)

const (
	// defaultBatchSize is the buffered byte count that forces a flush.
	defaultBatchSize = 4096

	// defaultBatchInterval is the longest a partial batch may sit unflushed.
	defaultBatchInterval = 50 * time.Millisecond
)

// Batcher coalesces small writes before handing them to sink. Build tools
// emit output in bursts of tiny chunks; batching keeps a vertex's update
// stream from flooding the tape. Safe for concurrent use.
type Batcher struct {
	size     int
	interval time.Duration
	sink     func([]byte)

	mu     sync.Mutex
	buf    bytes.Buffer
	ticker *time.Ticker
	stop   chan struct{}
	closed bool
}

var _ io.WriteCloser = (*Batcher)(nil)

// NewBatcher starts a Batcher flushing to sink when size bytes accumulate or
// interval elapses, whichever comes first. Non-positive limits select the
// defaults. Close stops the background flusher.
func NewBatcher(size int, interval time.Duration, sink func([]byte)) *Batcher {
	if size <= 0 {
		size = defaultBatchSize
	}
	if interval <= 0 {
		interval = defaultBatchInterval
	}

	b := &Batcher{
		size:     size,
		interval: interval,
		sink:     sink,
		ticker:   time.NewTicker(interval),
		stop:     make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Batcher) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, errors.New("batcher is closed")
	}

	n, err := b.buf.Write(p)
	if err != nil {
		return n, err
	}
	if b.buf.Len() >= b.size {
		b.flushLocked()
		// A size-triggered flush restarts the interval.
		b.ticker.Reset(b.interval)
	}
	return n, nil
}

// Flush hands any buffered bytes to the sink immediately.
func (b *Batcher) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.flushLocked()
}

// Close stops the background flusher after a final flush. Subsequent writes
// fail; Close is idempotent.
func (b *Batcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	close(b.stop)
	b.flushLocked()
	return nil
}

func (b *Batcher) run() {
	for {
		select {
		case <-b.ticker.C:
			b.Flush()
		case <-b.stop:
			b.ticker.Stop()
			return
		}
	}
}

// flushLocked requires mu to be held. The sink runs under the lock so
// batches arrive in order; sinks are expected to be fast.
func (b *Batcher) flushLocked() {
	if b.buf.Len() == 0 {
		return
	}
	data := make([]byte, b.buf.Len())
	copy(data, b.buf.Bytes())
	b.buf.Reset()
	if b.sink != nil {
		b.sink(data)
	}
}
