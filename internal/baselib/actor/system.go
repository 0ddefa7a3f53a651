package actor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// registerConfig holds optional configuration for actor registration via
// Spawn.
type registerConfig struct {
	cleanupTimeout fn.Option[time.Duration]
}

// SpawnOption is a functional option for configuring actor registration.
type SpawnOption func(*registerConfig)

// WithCleanupTimeout sets the OnStop cleanup timeout for the actor. If not
// specified, the default of 5 seconds is used.
func WithCleanupTimeout(d time.Duration) SpawnOption {
	return func(cfg *registerConfig) {
		cfg.cleanupTimeout = fn.Some(d)
	}
}

// SystemOption configures a System at construction time, mirroring the
// builder().extension(f).build() pattern.
type SystemOption func(*System)

// WithExtension installs v as an extension, retrievable later by its
// dynamic type via Extension[T].
func WithExtension(v any) SystemOption {
	return func(s *System) {
		s.extensions.install(v)
	}
}

// System is the façade over the Registry and Extensions: the entry point
// applications use to spawn, look up, and shut down actors. It is cheaply
// clonable in spirit (its Registry and Extensions are already
// reference-backed), so a single *System is typically shared and threaded
// through Context.System().
type System struct {
	registry   *Registry
	extensions *Extensions

	actorWg sync.WaitGroup
	closing atomic.Bool
}

// NewSystem builds a System, applying any SystemOptions (typically
// WithExtension calls) before returning it ready for use.
func NewSystem(opts ...SystemOption) *System {
	s := &System{
		registry:   newRegistry(),
		extensions: newExtensions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extensions returns the system's extension container.
func (s *System) Extensions() *Extensions {
	return s.extensions
}

// Registry returns the system's actor registry.
func (s *System) Registry() *Registry {
	return s.registry
}

// Spawn creates and registers an actor under id, running its Activatable
// hook (if any) synchronously before registration. Fails with
// ErrAlreadySpawned if id already names an Active actor, or with
// ErrFailedActivation if the activation hook returns an error.
func Spawn[M Message, R any](sys *System, id ActorId,
	behavior ActorBehavior[M, R], opts ...SpawnOption,
) (ActorRef[M, R], error) {

	if sys.closing.Load() {
		return nil, fmt.Errorf("%w: %s: system is shutting down",
			ErrFailedActivation, id)
	}

	var cfg registerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	// Check for a collision before running the activation hook, so a
	// duplicate spawn fails fast instead of doing activation work (for
	// persistent actors, a full recovery) it then throws away. The
	// check under tryInsert's write lock below remains authoritative.
	if existing, ok := sys.registry.find(id); ok {
		if existing.State() == StateActive {
			return nil, fmt.Errorf("%w: %s", ErrAlreadySpawned, id)
		}
	}

	actorCfg := ActorConfig[M, R]{
		ID:             id,
		Behavior:       behavior,
		System:         sys,
		Wg:             &sys.actorWg,
		CleanupTimeout: cfg.cleanupTimeout,
	}
	a := NewActor(actorCfg)

	if activatable, ok := behavior.(Activatable); ok {
		actCtx := &Context{
			Context: context.Background(),
			id:      id,
			sys:     sys,
			state:   a.state,
		}
		if err := activatable.Activate(actCtx); err != nil {
			return nil, fmt.Errorf("%w: %s: %w",
				ErrFailedActivation, id, err)
		}
	}

	if err := sys.registry.tryInsert(id, a.ref); err != nil {
		return nil, err
	}

	a.Start()

	log.DebugS(context.Background(), "Actor spawned", "actor_id", id)

	return a.ref, nil
}

// SpawnFrom constructs an actor from a seed value using ctor, then spawns
// it, mirroring the spawn_from(msg) capability: the actor's id and behavior
// are derived from the seed rather than supplied directly.
func SpawnFrom[M Message, R any, S any](sys *System, seed S,
	ctor func(S) (ActorId, ActorBehavior[M, R], error), opts ...SpawnOption,
) (ActorRef[M, R], error) {

	id, behavior, err := ctor(seed)
	if err != nil {
		return nil, err
	}

	return Spawn[M, R](sys, id, behavior, opts...)
}

// TrySpawn constructs an actor from into using the fallible convert
// function, then spawns it under id, mirroring the try_spawn(id, into)
// capability.
func TrySpawn[M Message, R any, T any](sys *System, id ActorId, into T,
	convert func(T) (ActorBehavior[M, R], error), opts ...SpawnOption,
) (ActorRef[M, R], error) {

	behavior, err := convert(into)
	if err != nil {
		return nil, err
	}

	return Spawn[M, R](sys, id, behavior, opts...)
}

// Shutdown requests termination of the actor registered under id, without
// waiting for it to drain. Returns ErrNotFoundActor if id is not
// registered.
func (s *System) Shutdown(id ActorId) error {
	return s.registry.deregister(id)
}

// ShutdownAll requests termination of every registered actor and blocks
// until they have all drained or ctx expires, whichever comes first. Once
// called, new Spawn calls fail fast instead of racing the drain.
func (s *System) ShutdownAll(ctx context.Context) error {
	s.closing.Store(true)
	s.registry.shutdownAll()

	log.InfoS(ctx, "Actor system shutting down")

	done := make(chan struct{})
	go func() {
		s.actorWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.InfoS(ctx, "Actor system shutdown completed")
		return nil

	case <-ctx.Done():
		log.ErrorS(ctx, "Actor system shutdown incomplete, "+
			"some actors may have leaked", ctx.Err())
		return ctx.Err()
	}
}
