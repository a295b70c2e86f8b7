// Package dashboard loads the data behind each role's dashboard through
// explicit Load calls. Nothing here fetches on its own.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrDiscarded is returned when a load finished after its view was closed or
// superseded by a newer Refresh. It wraps context.Canceled.
var ErrDiscarded = fmt.Errorf("load result discarded: %w", context.Canceled)

// ErrClosed is returned by Refresh on a closed view
var ErrClosed = errors.New("view closed")

// Loader fetches one snapshot of a view's data
type Loader[T any] func(ctx context.Context) (T, error)

// View owns at most one in-flight load. Close plays the role of unmounting:
// it cancels the outstanding load and any late result is dropped rather than stored.
type View[T any] struct {
	mu     sync.Mutex
	load   Loader[T]
	gen    uint64
	cancel context.CancelFunc
	closed bool

	value  T
	loaded bool
	err    error
}

// NewView wraps a loader
func NewView[T any](load Loader[T]) *View[T] {
	return &View[T]{load: load}
}

// Refresh runs the loader, cancelling any load still in flight, and stores
// the result unless the view was closed or refreshed again meanwhile.
func (v *View[T]) Refresh(ctx context.Context) (T, error) {
	var zero T

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return zero, ErrClosed
	}
	if v.cancel != nil {
		v.cancel()
	}
	v.gen++
	gen := v.gen
	loadCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.mu.Unlock()

	val, err := v.load(loadCtx)

	v.mu.Lock()
	defer v.mu.Unlock()
	cancel()
	if v.closed || gen != v.gen {
		return zero, ErrDiscarded
	}
	v.cancel = nil
	if err != nil {
		v.err = err
		return zero, err
	}
	v.value, v.loaded, v.err = val, true, nil
	return val, nil
}

// Current returns the last stored value
func (v *View[T]) Current() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value, v.loaded
}

// Err returns the error of the last completed load, if it failed
func (v *View[T]) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Close cancels any in-flight load. It is safe to call more than once.
func (v *View[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}
