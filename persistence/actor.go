package persistence

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/roasbeef/lutetium/internal/baselib/actor"
	"github.com/roasbeef/lutetium/internal/db"
)

// persistOptions configures the retry behavior of Persist/Snapshot,
// grounded on internal/db/tx_executor.go's txExecutorOptions.
type persistOptions struct {
	maxRetries        int
	initialRetryDelay time.Duration
	maxRetryDelay     time.Duration
}

func defaultPersistOptions() *persistOptions {
	return &persistOptions{
		maxRetries:        5,
		initialRetryDelay: 50 * time.Millisecond,
		maxRetryDelay:     2 * time.Second,
	}
}

// randRetryDelay returns a jittered, exponentially growing delay for retry
// attempt, reusing internal/db's transaction-executor backoff shape instead
// of re-deriving the same 50%-150%-of-initial-then-doubling math here.
func (o *persistOptions) randRetryDelay(attempt int) time.Duration {
	return db.RandRetryDelay(o.initialRetryDelay, o.maxRetryDelay, attempt)
}

// PersistOption configures the retry behavior of a PersistentBehavior's
// write path.
type PersistOption func(*persistOptions)

// WithMaxRetries overrides the total number of attempts persist/snapshot
// make against the provider before giving up. Default is 5.
func WithMaxRetries(n int) PersistOption {
	return func(o *persistOptions) {
		o.maxRetries = n
	}
}

// WithRetryBackoff overrides the initial and maximum retry delay.
func WithRetryBackoff(initial, max time.Duration) PersistOption {
	return func(o *persistOptions) {
		o.initialRetryDelay = initial
		o.maxRetryDelay = max
	}
}

// RecoveryHooks lets a persistent actor run logic immediately before
// fixture resolution and immediately after fixture application.
type RecoveryHooks interface {
	// PreRecovery runs before the snapshot/journal fixture is even
	// built; returning an error short-circuits recovery and fails
	// activation.
	PreRecovery(ctx *actor.Context) error

	// PostRecovery runs once recovery has applied, with the last
	// applied sequence (the context resumes one past it), or None if
	// the fixture was empty.
	PostRecovery(ctx *actor.Context, seq fn.Option[SequenceId]) error
}

// NoRecoveryHooks is a no-op RecoveryHooks implementation. Persistent
// actors that don't need pre/post recovery logic embed this.
type NoRecoveryHooks struct{}

func (NoRecoveryHooks) PreRecovery(ctx *actor.Context) error { return nil }

func (NoRecoveryHooks) PostRecovery(*actor.Context, fn.Option[SequenceId]) error {
	return nil
}

// PersistentContext is the Context handed to a persistent actor's Receive:
// it carries everything actor.Context does, plus the stream's current
// SequenceId and the Persist/Snapshot write path.
type PersistentContext struct {
	*actor.Context

	id      PersistenceId
	version Version
	seq     *atomic.Int64

	journals  JournalProvider
	snapshots SnapShotProvider
	opts      *persistOptions
}

// Sequence returns the current SequenceId of the stream.
func (pc *PersistentContext) Sequence() SequenceId {
	return SequenceId(pc.seq.Load())
}

// PersistenceId returns the stream identity this actor is recovering
// against.
func (pc *PersistentContext) PersistenceId() PersistenceId {
	return pc.id
}

// Persist writes an event payload at the context's current sequence,
// retrying against the JournalProvider up to the configured max retries.
// On success the context's sequence advances by one. If every retry is
// exhausted, the call still returns nil so a transient storage failure
// cannot wedge a running message loop, but the exhaustion is logged at
// error level; callers that need a hard failure signal should check logs
// or wrap a stricter JournalProvider.
func (pc *PersistentContext) Persist(ctx context.Context, registryKey string,
	bytes []byte) error {

	seq := pc.Sequence()
	payload := JournalPayload{Seq: seq, RegistryKey: registryKey, Bytes: bytes}

	err := pc.retry(ctx, "persist", func() error {
		return pc.journals.Insert(ctx, pc.id, pc.version, seq, payload)
	})
	if err != nil {
		return nil
	}

	pc.seq.Store(int64(seq.Next()))
	return nil
}

// Snapshot writes a snapshot payload at the context's current sequence,
// using the same retry scheme as Persist. Unlike Persist, it does not
// advance the context's sequence.
func (pc *PersistentContext) Snapshot(ctx context.Context, registryKey string,
	bytes []byte) error {

	seq := pc.Sequence()
	payload := SnapShotPayload{
		PersistenceId: pc.id,
		RegistryKey:   registryKey,
		Seq:           seq,
		Bytes:         bytes,
	}

	return pc.retry(ctx, "snapshot", func() error {
		return pc.snapshots.Insert(ctx, pc.id, pc.version, seq, payload)
	})
}

func (pc *PersistentContext) retry(ctx context.Context, op string,
	write func() error) error {

	var lastErr error
	for attempt := 0; attempt < pc.opts.maxRetries; attempt++ {
		lastErr = write()
		if lastErr == nil {
			return nil
		}

		if attempt == pc.opts.maxRetries-1 {
			break
		}

		delay := pc.opts.randRetryDelay(attempt)
		log.DebugS(ctx, "Retrying persistence write",
			"op", op, "attempt", attempt, "delay", delay,
			"persistence_id", pc.id)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	log.ErrorS(ctx, "Persistence write retries exhausted",
		lastErr, "op", op, "persistence_id", pc.id,
		"max_retries", pc.opts.maxRetries)

	return fmt.Errorf("%w: %s: %v", ErrPersistExhausted, op, lastErr)
}

// PersistentBehavior is the strategy interface for a persistent actor: like
// actor.ActorBehavior, but dispatched with a *PersistentContext so handlers
// can read the stream's sequence and call Persist/Snapshot.
type PersistentBehavior[M actor.Message, R any] interface {
	RecoveryHooks

	Receive(ctx *PersistentContext, msg M) fn.Result[R]
}

// adapter wraps a PersistentBehavior as an actor.ActorBehavior, running
// recovery from its Activate hook (called synchronously during Spawn,
// before the mailbox is consumed) and threading a PersistentContext
// through every dispatched message.
type adapter[A any, M actor.Message, R any] struct {
	inner     PersistentBehavior[M, R]
	target    A
	id        PersistenceId
	version   Version
	mapping   *RecoveryMapping[A]
	journals  JournalProvider
	snapshots SnapShotProvider
	opts      *persistOptions
	seq       atomic.Int64
}

// Activate runs the recovery algorithm against target before the actor is
// registered, synchronously with the Spawn that triggered it.
func (a *adapter[A, M, R]) Activate(ctx *actor.Context) error {
	if err := a.inner.PreRecovery(ctx); err != nil {
		return err
	}

	seq, err := Recover(ctx, a.id, a.version, a.mapping, a.journals,
		a.snapshots, a.target)
	if err != nil {
		return err
	}

	// seq is the last applied sequence, or None if nothing was recovered.
	// The context tracks the next sequence to write, so a recovered
	// stream resumes one past what it last replayed; a fresh stream
	// starts at MinSequenceId.
	next := MinSequenceId
	if seq.IsSome() {
		next = seq.UnwrapOr(MinSequenceId).Next()
	}
	a.seq.Store(int64(next))

	return a.inner.PostRecovery(ctx, seq)
}

// Receive builds a PersistentContext around ctx and the adapter's tracked
// sequence, then delegates to the wrapped PersistentBehavior.
func (a *adapter[A, M, R]) Receive(ctx *actor.Context, msg M) fn.Result[R] {
	pctx := &PersistentContext{
		Context:   ctx,
		id:        a.id,
		version:   a.version,
		seq:       &a.seq,
		journals:  a.journals,
		snapshots: a.snapshots,
		opts:      a.opts,
	}

	return a.inner.Receive(pctx, msg)
}

// OnStop passes through to the wrapped behavior's Stoppable implementation,
// if any, preserving the cleanup hook a persistent actor's non-persistent
// counterpart would get for free from actor.Actor.
func (a *adapter[A, M, R]) OnStop(ctx context.Context) error {
	if stoppable, ok := a.inner.(actor.Stoppable); ok {
		return stoppable.OnStop(ctx)
	}
	return nil
}

// Wrap adapts a PersistentBehavior into an actor.ActorBehavior ready for
// actor.Spawn. target is the concrete, mutable actor state instance the
// recovery mapping's resolvers apply snapshot/journal entries to; it is
// typically the same value inner closes over.
func Wrap[A any, M actor.Message, R any](id PersistenceId, version Version,
	target A, mapping *RecoveryMapping[A], journals JournalProvider,
	snapshots SnapShotProvider, inner PersistentBehavior[M, R],
	opts ...PersistOption,
) actor.ActorBehavior[M, R] {

	cfg := defaultPersistOptions()
	for _, opt := range opts {
		opt(cfg)
	}

	return &adapter[A, M, R]{
		inner:     inner,
		target:    target,
		id:        id,
		version:   version,
		mapping:   mapping,
		journals:  journals,
		snapshots: snapshots,
		opts:      cfg,
	}
}

// SpawnWithRecovery constructs a persistent actor, runs recovery
// synchronously (via Wrap's Activate hook, triggered inside actor.Spawn),
// and registers it with sys under id.ActorId(). If recovery produced no
// state (an empty fixture) and seed is None, activation fails with
// ErrNoStateRecovered rather than silently spawning an actor with
// zero-value state.
func SpawnWithRecovery[A any, M actor.Message, R any](sys *actor.System,
	id PersistenceId, version Version, seed fn.Option[A],
	mapping *RecoveryMapping[A], journals JournalProvider,
	snapshots SnapShotProvider, target A, inner PersistentBehavior[M, R],
	opts ...PersistOption,
) (actor.ActorRef[M, R], error) {

	guarded := &seedCheckingBehavior[A, M, R]{
		inner: inner,
		seed:  seed,
	}

	behavior := Wrap(id, version, target, mapping, journals, snapshots,
		guarded, opts...)

	return actor.Spawn[M, R](sys, id.ActorId(), behavior)
}

// seedCheckingBehavior enforces spawn_with_recovery's "fail activation if
// nothing was recovered and no seed was given" rule via PostRecovery,
// which runs after the fixture has been applied (or found empty).
type seedCheckingBehavior[A any, M actor.Message, R any] struct {
	inner PersistentBehavior[M, R]
	seed  fn.Option[A]
}

func (s *seedCheckingBehavior[A, M, R]) PreRecovery(ctx *actor.Context) error {
	return s.inner.PreRecovery(ctx)
}

func (s *seedCheckingBehavior[A, M, R]) PostRecovery(ctx *actor.Context,
	seq fn.Option[SequenceId]) error {

	if seq.IsNone() && s.seed.IsNone() {
		return ErrNoStateRecovered
	}

	return s.inner.PostRecovery(ctx, seq)
}

func (s *seedCheckingBehavior[A, M, R]) Receive(ctx *PersistentContext,
	msg M) fn.Result[R] {

	return s.inner.Receive(ctx, msg)
}
