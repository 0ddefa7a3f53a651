package actor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"
)

type echoMsg struct {
	BaseMessage
	value int
}

func (echoMsg) MessageType() string { return "echo" }

// Compile-time interface conformance for the package's concrete types.
var (
	_ Mailbox[echoMsg, int]  = (*queueMailbox[echoMsg, int])(nil)
	_ ActorRef[echoMsg, int] = (*actorRefImpl[echoMsg, int])(nil)
	_ DynRef                 = (*actorRefImpl[echoMsg, int])(nil)
)

type echoBehavior struct {
	received chan int
	fail     error
}

func (b *echoBehavior) Receive(ctx *Context, msg echoMsg) fn.Result[int] {
	if b.received != nil {
		b.received <- msg.value
	}
	if b.fail != nil {
		return fn.Err[int](b.fail)
	}
	return fn.Ok(msg.value * 2)
}

func newEchoActor(t *testing.T, id string, behavior *echoBehavior) *Actor[echoMsg, int] {
	t.Helper()

	a := NewActor(ActorConfig[echoMsg, int]{
		ID:       ActorId(id),
		Behavior: behavior,
	})
	a.Start()
	t.Cleanup(a.ref.Shutdown)

	return a
}

func TestActorAskReturnsHandlerResult(t *testing.T) {
	t.Parallel()

	a := newEchoActor(t, "ask-actor", &echoBehavior{})

	result := a.Ref().Ask(context.Background(), echoMsg{value: 21}).
		Await(context.Background())

	val, err := result.Unpack()
	require.NoError(t, err)
	require.Equal(t, 42, val)
}

func TestActorTellAwaitsHandlerCompletion(t *testing.T) {
	t.Parallel()

	received := make(chan int, 1)
	a := newEchoActor(t, "tell-actor", &echoBehavior{received: received})

	err := a.Ref().Tell(context.Background(), echoMsg{value: 7})
	require.NoError(t, err)

	// Tell only returns once the handler has already run, so the value
	// must already be on the channel with no need to wait.
	select {
	case v := <-received:
		require.Equal(t, 7, v)
	default:
		t.Fatal("handler had not run by the time Tell returned")
	}
}

func TestActorTellPropagatesHandlerError(t *testing.T) {
	t.Parallel()

	failErr := errors.New("handler rejected")
	a := newEchoActor(t, "tell-error-actor", &echoBehavior{fail: failErr})

	err := a.Ref().Tell(context.Background(), echoMsg{value: 1})
	require.ErrorIs(t, err, failErr)
}

func TestActorShutdownIsFIFOWithPrecedingMessages(t *testing.T) {
	t.Parallel()

	received := make(chan int, 4)
	a := newEchoActor(t, "shutdown-fifo", &echoBehavior{received: received})

	for i := 0; i < 3; i++ {
		require.NoError(t, a.Ref().Tell(context.Background(), echoMsg{value: i}))
	}
	a.Ref().Shutdown()

	for i := 0; i < 3; i++ {
		require.Equal(t, i, <-received)
	}

	require.Eventually(t, func() bool {
		return a.Ref().State() == StateShutdown
	}, time.Second, time.Millisecond)
}

func TestActorRejectsMessagesAfterTermination(t *testing.T) {
	t.Parallel()

	a := newEchoActor(t, "post-term", &echoBehavior{})
	a.Ref().Shutdown()

	require.Eventually(t, func() bool {
		return a.Ref().State() == StateShutdown
	}, time.Second, time.Millisecond)

	// Give the lifecycle goroutine a moment to close the mailbox after
	// observing the Terminate control message.
	require.Eventually(t, func() bool {
		_, err := a.Ref().Ask(context.Background(), echoMsg{value: 1}).
			Await(context.Background()).Unpack()
		return errors.Is(err, ErrActorTerminated)
	}, time.Second, time.Millisecond)
}

type cleanupBehavior struct {
	echoBehavior
	stopped chan struct{}
}

func (b *cleanupBehavior) OnStop(ctx context.Context) error {
	close(b.stopped)
	return nil
}

func TestActorOnStopRunsAfterLoopExit(t *testing.T) {
	t.Parallel()

	behavior := &cleanupBehavior{stopped: make(chan struct{})}
	a := NewActor(ActorConfig[echoMsg, int]{
		ID:       "cleanup-actor",
		Behavior: behavior,
	})
	a.Start()

	a.Ref().Shutdown()

	select {
	case <-behavior.stopped:
	case <-time.After(time.Second):
		t.Fatal("OnStop was not called")
	}
}
