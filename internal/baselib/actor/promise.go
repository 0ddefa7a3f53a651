package actor

import (
	"context"
	"sync"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// promiseImpl is a channel-based Promise/Future pair. The interface.go
// contract (Future/Promise) has no implementation in the upstream package
// this runtime is grounded on, so this is authored fresh, following the
// same completion-once/close-to-broadcast pattern used throughout the
// mailbox and lifecycle code in this package.
type promiseImpl[T any] struct {
	once   sync.Once
	done   chan struct{}
	result fn.Result[T]
}

// NewPromise creates a new, uncompleted Promise.
func NewPromise[T any]() Promise[T] {
	return &promiseImpl[T]{done: make(chan struct{})}
}

func (p *promiseImpl[T]) Future() Future[T] {
	return p
}

func (p *promiseImpl[T]) Complete(result fn.Result[T]) bool {
	completed := false
	p.once.Do(func() {
		completed = true
		p.result = result
		close(p.done)
	})
	return completed
}

func (p *promiseImpl[T]) Await(ctx context.Context) fn.Result[T] {
	select {
	case <-p.done:
		return p.result
	case <-ctx.Done():
		return fn.Err[T](ctx.Err())
	}
}

func (p *promiseImpl[T]) ThenApply(ctx context.Context, f func(T) T) Future[T] {
	next := NewPromise[T]()

	go func() {
		val, err := p.Await(ctx).Unpack()
		if err != nil {
			next.Complete(fn.Err[T](err))
			return
		}
		next.Complete(fn.Ok(f(val)))
	}()

	return next.Future()
}

func (p *promiseImpl[T]) OnComplete(ctx context.Context, f func(fn.Result[T])) {
	go func() {
		select {
		case <-p.done:
			f(p.result)
		case <-ctx.Done():
			f(fn.Err[T](ctx.Err()))
		}
	}()
}
