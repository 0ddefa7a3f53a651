package actor

import (
	"context"
	"iter"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// BaseMessage is a helper struct that can be embedded in message types
// defined outside the actor package to satisfy the Message interface's
// unexported messageMarker method.
type BaseMessage struct{}

// messageMarker implements the unexported method for the Message interface,
// allowing types that embed BaseMessage to satisfy the Message interface.
func (BaseMessage) messageMarker() {}

// Message is a sealed interface for actor messages. The interface is
// "sealed" by the unexported messageMarker method, meaning only types that
// can satisfy it (e.g. by embedding BaseMessage or being in the same
// package) can be Messages.
type Message interface {
	// messageMarker is a private method that makes this a sealed
	// interface (see BaseMessage for embedding).
	messageMarker()

	// MessageType returns the type name of the message for
	// routing/logging.
	MessageType() string
}

// Future represents the result of an asynchronous computation. It allows
// consumers to wait for the result (Await), apply transformations upon
// completion (ThenApply), or register a callback to be executed when the
// result is available (OnComplete).
type Future[T any] interface {
	// Await blocks until the result is available or the context is
	// cancelled, then returns it.
	Await(ctx context.Context) fn.Result[T]

	// ThenApply registers a function to transform the result of a
	// future. The original future is not modified; a new instance is
	// returned. If the passed context is cancelled while waiting for
	// the original future to complete, the new future completes with
	// the context's error.
	ThenApply(ctx context.Context, fn func(T) T) Future[T]

	// OnComplete registers a function to be called when the result of
	// the future is ready. If the passed context is cancelled before
	// the future completes, the callback is invoked with the context's
	// error instead.
	OnComplete(ctx context.Context, fn func(fn.Result[T]))
}

// Promise allows the producer of an asynchronous result to complete its
// associated Future exactly once.
type Promise[T any] interface {
	// Future returns the Future associated with this Promise.
	Future() Future[T]

	// Complete attempts to set the result of the future. It returns true
	// if this call was the first to complete it, false otherwise.
	Complete(result fn.Result[T]) bool
}

// BaseActorRef is a non-generic base interface implemented by every
// ActorRef. It enables data structures that store heterogeneous actor
// references, such as the Registry, to treat them uniformly.
type BaseActorRef interface {
	// ID returns the unique identifier for this actor.
	ID() ActorId
}

// DynRef is the type-erased capability every ActorRef exposes to the
// Registry: identity, the ability to request shutdown, and the ability to
// observe the actor's running state. AnyRef is an alias for DynRef; the
// concrete ActorRef[M, R] is recovered from it via a type assertion.
type DynRef interface {
	BaseActorRef

	// Shutdown requests termination of the actor by enqueuing a
	// Terminate control message, preserving FIFO ordering with
	// previously-sent business messages.
	Shutdown()

	// State reports the actor's current running state.
	State() RunningState
}

// AnyRef is a type-erased handle to a running actor, as stored by the
// Registry. A concrete ActorRef[M, R] is recovered from it via a type
// assertion; a mismatched assertion surfaces ErrDownCastFromAny.
type AnyRef = DynRef

// TellOnlyRef is a reference to an actor that only supports "tell"
// operations. This is useful when only fire-and-forget-shaped message
// passing is needed, or to restrict a caller's capabilities.
type TellOnlyRef[M Message] interface {
	BaseActorRef

	// Tell sends a message and awaits the handler's completion, but
	// discards its success value, returning only the transport/handler
	// error, if any. The acknowledgement preserves FIFO ordering with a
	// subsequent Ask/Tell from the same caller; it does not mean
	// "fire-and-forget".
	Tell(ctx context.Context, msg M) error
}

// ActorRef is a reference to an actor that supports both "tell" and "ask"
// operations. It embeds TellOnlyRef and DynRef (so it also exposes Shutdown
// and State) and adds Ask for request/response interactions.
type ActorRef[M Message, R any] interface {
	TellOnlyRef[M]
	DynRef

	// Ask sends a message and returns a Future for the response. The
	// Future completes with the actor's reply, or an error if the
	// operation fails (e.g. the actor was already terminated).
	Ask(ctx context.Context, msg M) Future[R]
}

// ActorBehavior defines the logic for how an actor processes incoming
// messages. It is a strategy interface encapsulating the actor's reaction
// to messages; M may be a sealed sum-type interface covering several
// concrete message structs, dispatched internally via a type switch.
type ActorBehavior[M Message, R any] interface {
	// Receive processes a message and returns a Result. ctx carries the
	// actor's identity, its owning System, and its running state;
	// embedding context.Context lets the handler pass ctx directly to
	// blocking sub-operations. Per the runtime's cancellation policy, a
	// caller abandoning an Ask does not cancel ctx: the handler always
	// runs to completion.
	Receive(ctx *Context, msg M) fn.Result[R]
}

// Activatable is an optional interface an ActorBehavior can implement to
// run setup logic synchronously with Spawn, before the actor is registered
// or its mailbox is consumed. A non-nil error aborts registration.
type Activatable interface {
	Activate(ctx *Context) error
}

// Stoppable is an optional interface ActorBehavior implementations can
// implement to perform cleanup when the actor is stopping. Useful for
// releasing external resources such as database connections or file
// handles that the behavior manages.
type Stoppable interface {
	// OnStop is called after the message loop exits but before the
	// actor's goroutine terminates. The provided context carries a
	// deadline for cleanup; implementations should respect it to avoid
	// blocking system shutdown.
	OnStop(ctx context.Context) error
}

// Mailbox defines the interface for an actor's message queue. The runtime's
// only implementation is an unbounded, mutex-guarded queue; this
// abstraction exists so alternative strategies (priority, durable) could be
// substituted without changing the lifecycle code.
//
// Thread safety:
//   - Send and TrySend may be called concurrently from multiple
//     goroutines.
//   - Receive should only be called from a single goroutine (the actor's
//     lifecycle task), exactly once per actor lifetime.
//   - Close may be called concurrently with Send/TrySend and is
//     idempotent.
//   - IsClosed may be called concurrently from any goroutine.
//   - Drain should only be called after Close, from a single goroutine.
//   - Send and TrySend return false after Close has been called.
type Mailbox[M Message, R any] interface {
	// Send enqueues an envelope. Because the mailbox is unbounded this
	// never blocks on capacity; it only fails fast if ctx is already
	// cancelled or the mailbox is closed.
	Send(ctx context.Context, env envelope[M, R]) bool

	// TrySend enqueues an envelope without blocking. It returns false
	// only if the mailbox is closed.
	TrySend(env envelope[M, R]) bool

	// Receive returns an iterator over envelopes in the mailbox. It
	// blocks when the mailbox is empty and yields envelopes as they
	// arrive, stopping when ctx is cancelled or the mailbox is closed
	// and empty.
	Receive(ctx context.Context) iter.Seq[envelope[M, R]]

	// Close closes the mailbox, preventing further sends.
	Close()

	// IsClosed returns true if the mailbox has been closed.
	IsClosed() bool

	// Drain returns an iterator over any envelopes remaining after
	// Close.
	Drain() iter.Seq[envelope[M, R]]
}
