package actor

import (
	"context"
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// ActorConfig holds the configuration parameters for creating a new Actor.
type ActorConfig[M Message, R any] struct {
	// ID is the unique identifier for the actor.
	ID ActorId

	// Behavior defines how the actor responds to messages.
	Behavior ActorBehavior[M, R]

	// System is the owning ActorSystem, made available to handlers via
	// Context.System(). May be nil for actors spawned outside of a
	// System (e.g. in unit tests).
	System *System

	// Wg is an optional WaitGroup for tracking actor lifecycle. If
	// non-nil, the actor calls Add(1) when starting and Done() when its
	// process loop exits, enabling deterministic shutdown.
	Wg *sync.WaitGroup

	// CleanupTimeout bounds OnStop. Defaults to 5 seconds.
	CleanupTimeout fn.Option[time.Duration]
}

// Actor is the concrete lifecycle engine: a single cooperative task that
// owns a behavior and its mailbox, and processes messages sequentially in
// its own goroutine. Actor state is therefore single-writer; no internal
// synchronization is required inside a behavior's Receive.
type Actor[M Message, R any] struct {
	id             ActorId
	behavior       ActorBehavior[M, R]
	mailbox        *queueMailbox[M, R]
	state          *runningStateBox
	rootCtx        context.Context
	sys            *System
	wg             *sync.WaitGroup
	cleanupTimeout time.Duration
	startOnce      sync.Once

	ref *actorRefImpl[M, R]
}

// NewActor creates a new actor instance with the given configuration. It
// initializes internal structures only: it runs no activation hook (Spawn
// does that) and does not start the processing goroutine; Start must be
// called explicitly.
func NewActor[M Message, R any](cfg ActorConfig[M, R]) *Actor[M, R] {
	a := &Actor[M, R]{
		id:             cfg.ID,
		behavior:       cfg.Behavior,
		mailbox:        newQueueMailbox[M, R](),
		state:          newRunningStateBox(),
		rootCtx:        context.Background(),
		sys:            cfg.System,
		wg:             cfg.Wg,
		cleanupTimeout: cfg.CleanupTimeout.UnwrapOr(5 * time.Second),
	}
	a.ref = &actorRefImpl[M, R]{actor: a}
	return a
}

// Start begins the actor's message-processing loop in a new goroutine.
// Idempotent: only the first call has any effect.
func (a *Actor[M, R]) Start() {
	a.startOnce.Do(func() {
		log.DebugS(a.rootCtx, "Starting actor", "actor_id", a.id)

		if a.wg != nil {
			a.wg.Add(1)
		}
		go a.process()
	})
}

// process is the steady-state loop: receive, apply, check for shutdown,
// repeat. Matches the pseudo-contract of dequeuing one envelope at a time
// and breaking only when the mailbox yields nothing more or a Terminate
// control message flips the running state to Shutdown.
func (a *Actor[M, R]) process() {
	if a.wg != nil {
		defer a.wg.Done()
	}

	for env := range a.mailbox.Receive(a.rootCtx) {
		if env.kind == controlTerminate {
			a.state.shutdown()
			if env.promise != nil {
				var zero R
				env.promise.Complete(fn.Ok(zero))
			}
			break
		}

		callerCtx := env.callerCtx
		if callerCtx == nil {
			callerCtx = a.rootCtx
		}

		dispatchCtx := &Context{
			Context: callerCtx,
			id:      a.id,
			sys:     a.sys,
			state:   a.state,
		}

		log.TraceS(callerCtx, "Actor processing message",
			"actor_id", a.id,
			"msg_type", env.message.MessageType())

		result := a.behavior.Receive(dispatchCtx, env.message)

		if env.promise != nil {
			env.promise.Complete(result)
		}

		if a.state.Load() == StateShutdown {
			break
		}
	}

	// Close the mailbox so that further Tell/Ask calls fail fast, then
	// remove this actor's own id from the registry. Doing this before
	// drain guarantees a Registry.Find after observed termination cannot
	// return a dangling entry.
	a.mailbox.Close()

	if a.sys != nil {
		a.sys.registry.remove(a.id)
	}

	drained := 0
	for env := range a.mailbox.Drain() {
		drained++

		log.TraceS(a.rootCtx, "Dropping message enqueued after termination",
			"actor_id", a.id,
			"msg_type", env.message.MessageType())

		if env.promise != nil {
			env.promise.Complete(fn.Err[R](ErrActorTerminated))
		}
	}

	if stoppable, ok := a.behavior.(Stoppable); ok {
		cleanupCtx, cancel := context.WithTimeout(
			context.Background(), a.cleanupTimeout,
		)

		if err := stoppable.OnStop(cleanupCtx); err != nil {
			log.WarnS(a.rootCtx, "Actor cleanup error during shutdown",
				err, "actor_id", a.id)
		}
		cancel()
	}

	log.DebugS(a.rootCtx, "Actor terminated",
		"actor_id", a.id,
		"dropped_messages", drained)
}

// shutdown enqueues a Terminate control envelope, the distinguished in-band
// message every actor handles. Delivering it through the ordinary mailbox
// (rather than, say, cancelling a context out of band) preserves FIFO
// ordering with messages already enqueued ahead of it.
func (a *Actor[M, R]) shutdown() {
	a.mailbox.TrySend(envelope[M, R]{kind: controlTerminate})
}

// actorRefImpl is the concrete implementation of ActorRef, DynRef, and
// BaseActorRef for a single Actor.
type actorRefImpl[M Message, R any] struct {
	actor *Actor[M, R]
}

// ID returns the unique identifier for this actor.
func (ref *actorRefImpl[M, R]) ID() ActorId {
	return ref.actor.id
}

// State reports the actor's current running state.
func (ref *actorRefImpl[M, R]) State() RunningState {
	return ref.actor.state.Load()
}

// Shutdown requests termination of the actor.
func (ref *actorRefImpl[M, R]) Shutdown() {
	ref.actor.shutdown()
}

// Tell sends a message and awaits the handler's completion, discarding its
// success value and returning only the transport/handler error, if any.
func (ref *actorRefImpl[M, R]) Tell(ctx context.Context, msg M) error {
	promise := NewPromise[R]()

	log.TraceS(ctx, "Sending Tell message",
		"actor_id", ref.actor.id,
		"msg_type", msg.MessageType())

	env := envelope[M, R]{
		kind:      controlNone,
		message:   msg,
		promise:   promise,
		callerCtx: ctx,
	}
	if !ref.actor.mailbox.Send(ctx, env) {
		return ErrActorTerminated
	}

	_, err := promise.Future().Await(ctx).Unpack()
	return err
}

// Ask sends a message and returns a Future for the response.
func (ref *actorRefImpl[M, R]) Ask(ctx context.Context, msg M) Future[R] {
	promise := NewPromise[R]()

	log.TraceS(ctx, "Sending Ask message",
		"actor_id", ref.actor.id,
		"msg_type", msg.MessageType())

	env := envelope[M, R]{
		kind:      controlNone,
		message:   msg,
		promise:   promise,
		callerCtx: ctx,
	}
	if !ref.actor.mailbox.Send(ctx, env) {
		promise.Complete(fn.Err[R](ErrActorTerminated))
	}

	return promise.Future()
}

// Ref returns the cached ActorRef for this actor.
func (a *Actor[M, R]) Ref() ActorRef[M, R] {
	return a.ref
}

// TellRef returns the cached TellOnlyRef for this actor.
func (a *Actor[M, R]) TellRef() TellOnlyRef[M] {
	return a.ref
}
