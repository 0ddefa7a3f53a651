package actor

import "github.com/google/uuid"

// ActorId is an opaque, cheaply-shareable identifier for a live actor. It
// must be unique among actors currently registered in a System, but not
// across time: once an actor terminates and deregisters, its id may be
// reused.
type ActorId string

// NewActorId returns a fresh, randomly generated ActorId. Callers that need
// a stable, application-meaningful id (e.g. one derived from a persistence
// stream) should construct an ActorId directly instead.
func NewActorId() ActorId {
	return ActorId(uuid.NewString())
}

// String implements fmt.Stringer.
func (id ActorId) String() string {
	return string(id)
}
