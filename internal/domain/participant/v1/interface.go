package participantv1

// Session is one participant's pair of byte-stream channels, as seen by the
// reactor. The reactor never blocks on a session: command reads are
// non-blocking and return ok=false when nothing complete is buffered, which
// is how a stale or coalesced wake resolves.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=participantv1_mock
type Session interface {
	// TryRead returns the next complete inbound command, terminator
	// included, or ok=false when none is buffered.
	TryRead() (raw string, ok bool)
	// Write sends one outbound message to the participant.
	Write(msg string) error
	// Close tears the session down.
	Close() error
}
