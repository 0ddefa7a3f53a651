package actor

import "sync/atomic"

// RunningState describes the two-state lifecycle of an actor. Only the
// Active -> Shutdown transition is permitted; it is readable concurrently
// from any goroutine and writable only by the actor's own lifecycle task.
type RunningState int32

const (
	// StateActive is the running state of an actor from activation until
	// it processes a Terminate message.
	StateActive RunningState = iota

	// StateShutdown is the running state of an actor that has processed
	// a Terminate message and is draining or has drained its mailbox.
	StateShutdown
)

// String implements fmt.Stringer.
func (s RunningState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// runningStateBox is the mutable cell behind RunningState. It is mutated
// exactly once, by the owning lifecycle goroutine, and read concurrently by
// anyone holding an ActorRef or AnyRef.
type runningStateBox struct {
	v atomic.Int32
}

func newRunningStateBox() *runningStateBox {
	return &runningStateBox{}
}

func (b *runningStateBox) Load() RunningState {
	return RunningState(b.v.Load())
}

func (b *runningStateBox) shutdown() {
	b.v.Store(int32(StateShutdown))
}
