package persistence

// JournalPayload is one journal entry: an opaque, already-serialized event
// together with the sequence it was written at and the registry key
// identifying its concrete Go type to a resolver. The runtime never
// inspects Bytes; encoding/decoding is entirely the payload type's own
// responsibility.
type JournalPayload struct {
	Seq         SequenceId
	RegistryKey string
	Bytes       []byte
}

// SnapShotPayload is a point-in-time snapshot of an actor's state, opaque
// to the runtime in the same way as JournalPayload.
type SnapShotPayload struct {
	PersistenceId PersistenceId
	RegistryKey   string
	Seq           SequenceId
	Bytes         []byte
}
