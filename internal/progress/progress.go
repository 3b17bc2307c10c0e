// Package progress aggregates fine-grained completion signals from many
// parallel workers into a single monotonic counter observed by one
// callback.
//
// Workers never talk to a UI directly: they emit deltas on a channel and a
// single aggregator goroutine drains them, coalesces for the configured
// interval, and republishes through the callback. There is no shared
// counter and no lock to contend on.
package progress

import (
	"log/slog"
	"sync"
	"time"
)

// Callback receives the counter value after a change along with the value
// at the previous publication. Implementations may ignore the old value.
type Callback func(current, previous int)

// Counter is a monotonic progress counter fed by worker deltas.
//
// Add may be called from any number of goroutines. Close stops intake,
// drains every delta still buffered, publishes the final value, and only
// then returns: an increment recorded before Close is never dropped.
type Counter struct {
	ch       chan int
	quit     chan struct{}
	done     chan struct{}
	interval time.Duration
	callback Callback
	logger   *slog.Logger

	closeOnce sync.Once
}

// Option configures a Counter.
type Option func(*Counter)

// WithInterval coalesces callback publications to at most one per d. The
// default of zero publishes on every received delta.
func WithInterval(d time.Duration) Option {
	return func(c *Counter) { c.interval = d }
}

// WithLogger routes callback panic logs. Nil uses slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Counter) { c.logger = l }
}

// Watch starts a Counter whose observer invokes callback on every observed
// change. The caller must Close the counter when the batch is done.
func Watch(callback Callback, opts ...Option) *Counter {
	c := &Counter{
		ch:       make(chan int, 256),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		callback: callback,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.watch()
	return c
}

// Add records n units of completed work. Adds racing with Close may be
// dropped; delivery is only guaranteed for work recorded before Close
// begins.
func (c *Counter) Add(n int) {
	if n == 0 {
		return
	}
	select {
	case c.ch <- n:
	case <-c.quit:
	}
}

// Close stops intake, flushes buffered deltas through a final callback,
// and waits for the observer goroutine to exit. Safe to call more than
// once.
func (c *Counter) Close() {
	c.closeOnce.Do(func() { close(c.quit) })
	<-c.done
}

// watch drains deltas, coalescing publications to the configured interval.
// Shutdown drains everything still buffered before the final publication,
// so the delta channel itself is never closed and Add can never panic.
func (c *Counter) watch() {
	defer close(c.done)

	current := 0
	published := 0

	var tick <-chan time.Time
	if c.interval > 0 {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case n := <-c.ch:
			current += n
			if c.interval == 0 && current != published {
				c.publish(current, published)
				published = current
			}
		case <-tick:
			if current != published {
				c.publish(current, published)
				published = current
			}
		case <-c.quit:
			for {
				select {
				case n := <-c.ch:
					current += n
				default:
					if current != published {
						c.publish(current, published)
					}
					return
				}
			}
		}
	}
}

// publish invokes the callback, absorbing panics so a broken observer
// cannot take down the aggregator.
func (c *Counter) publish(current, previous int) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("progress callback panicked", slog.Any("panic", r))
		}
	}()
	if c.callback != nil {
		c.callback(current, previous)
	}
}
