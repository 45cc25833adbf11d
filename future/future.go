// Package future provides a cancellable handle to an asynchronous result.
//
// A Future starts pending and settles exactly once: fulfilled with a value,
// rejected with an error, or cancelled. Continuations registered with Finally
// run once on settlement; handlers registered with OnCancel run only when the
// future is cancelled while still pending. All continuations run on the
// goroutine that settles the future, outside the future's lock.
package future

import (
	"context"
	"errors"
	"sync"
)

// ErrCancelled is the error of a future that was cancelled before settling.
var ErrCancelled = errors.New("future cancelled")

// Status is the settlement state of a Future.
type Status int32

const (
	// StatusPending means the future has not settled yet.
	StatusPending Status = iota
	// StatusFulfilled means the future settled with a value.
	StatusFulfilled
	// StatusRejected means the future settled with an error.
	StatusRejected
	// StatusCancelled means the future was cancelled while pending.
	StatusCancelled
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFulfilled:
		return "fulfilled"
	case StatusRejected:
		return "rejected"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Future is a handle to a value of type T that becomes available later.
// The zero value is not usable; create futures with New, Go, Resolved or
// Rejected.
type Future[T any] struct {
	mu       sync.Mutex
	status   Status
	value    T
	err      error
	done     chan struct{}
	finally  []func()
	onCancel []func()
}

// New creates a pending future that is settled by calling Resolve, Reject or
// Cancel.
func New[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Go runs fn on a new goroutine and returns a future for its result.
// The context passed to fn is cancelled when the future is cancelled.
func Go[T any](fn func(ctx context.Context) (T, error)) *Future[T] {
	f := New[T]()
	ctx, cancel := context.WithCancel(context.Background())
	f.OnCancel(cancel)

	go func() {
		defer cancel()
		v, err := fn(ctx)
		if err != nil {
			f.Reject(err)
			return
		}
		f.Resolve(v)
	}()

	return f
}

// Resolved returns a future already fulfilled with v.
func Resolved[T any](v T) *Future[T] {
	f := New[T]()
	f.Resolve(v)
	return f
}

// Rejected returns a future already rejected with err.
func Rejected[T any](err error) *Future[T] {
	f := New[T]()
	f.Reject(err)
	return f
}

// Resolve fulfills the future with v.
// Returns false if the future had already settled.
func (f *Future[T]) Resolve(v T) bool {
	return f.settle(StatusFulfilled, v, nil)
}

// Reject settles the future with err.
// Returns false if the future had already settled.
func (f *Future[T]) Reject(err error) bool {
	var zero T
	return f.settle(StatusRejected, zero, err)
}

// Cancel cancels a pending future: cancel handlers run first, then the
// Finally continuations. Cancelling a settled future does nothing.
// Returns true if this call cancelled the future.
func (f *Future[T]) Cancel() bool {
	var zero T
	return f.settle(StatusCancelled, zero, ErrCancelled)
}

// OnCancel registers fn to run if the future is cancelled while pending.
// If the future has already been cancelled fn runs immediately; if it
// settled any other way fn is discarded.
func (f *Future[T]) OnCancel(fn func()) {
	f.mu.Lock()
	switch f.status {
	case StatusPending:
		f.onCancel = append(f.onCancel, fn)
		f.mu.Unlock()
	case StatusCancelled:
		f.mu.Unlock()
		fn()
	default:
		f.mu.Unlock()
	}
}

// Finally registers fn to run once the future settles, whatever the outcome.
// If the future has already settled fn runs immediately on the caller's
// goroutine.
func (f *Future[T]) Finally(fn func()) {
	f.mu.Lock()
	if f.status == StatusPending {
		f.finally = append(f.finally, fn)
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()
	fn()
}

// Status returns the current settlement state.
func (f *Future[T]) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Settled reports whether the future is no longer pending.
func (f *Future[T]) Settled() bool {
	return f.Status() != StatusPending
}

// Done returns a channel that is closed when the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (f *Future[T]) settle(status Status, v T, err error) bool {
	f.mu.Lock()
	if f.status != StatusPending {
		f.mu.Unlock()
		return false
	}

	f.status = status
	f.value = v
	f.err = err

	onCancel := f.onCancel
	finally := f.finally
	f.onCancel = nil
	f.finally = nil
	close(f.done)
	f.mu.Unlock()

	if status == StatusCancelled {
		for _, fn := range onCancel {
			fn()
		}
	}
	for _, fn := range finally {
		fn()
	}
	return true
}
