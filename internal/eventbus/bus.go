// Package eventbus provides a bounded, back-pressuring channel that
// carries lifecycle notifications out of the job manager. Producers
// (the manager, monitor tasks) block when the channel is full rather
// than dropping events. Once the bus has been closed, or the caller's
// context is done, Publish returns a System error instead of blocking.
// A consumer that simply stops reading is not detected: until Close is
// called, Publish on a full bus keeps blocking.
package eventbus

import (
	"context"

	"github.com/kodflow/daemon/internal/errs"
)

// Bus is a bounded multi-producer, single-consumer channel of T.
type Bus[T any] struct {
	ch     chan T
	closed chan struct{}
}

// New creates a Bus with the given capacity.
func New[T any](capacity int) *Bus[T] {
	return &Bus[T]{
		ch:     make(chan T, capacity),
		closed: make(chan struct{}),
	}
}

// Publish sends value on the bus, blocking while it is full. It
// returns a System error if the bus has been closed or ctx is done
// before the send completes; no event is ever dropped silently.
func (b *Bus[T]) Publish(ctx context.Context, value T) error {
	select {
	case b.ch <- value:
		return nil
	case <-b.closed:
		return errs.New(errs.System, "event bus closed")
	case <-ctx.Done():
		return errs.Wrap(errs.System, "publish canceled", ctx.Err())
	}
}

// Events returns the receive side of the bus, for the single consumer.
func (b *Bus[T]) Events() <-chan T {
	return b.ch
}

// Close marks the bus closed, unblocking any pending Publish calls with
// a System error. It does not close the underlying channel, so a
// consumer already ranging over Events can keep draining what remains.
func (b *Bus[T]) Close() {
	select {
	case <-b.closed:
	default:
		close(b.closed)
	}
}
