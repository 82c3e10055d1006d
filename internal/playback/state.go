package playback

// SessionState is the lifecycle state of a playback session.
type SessionState int

const (
	// StateIdle is the state before Run is called.
	StateIdle SessionState = iota

	// StateSyncing means the display buffer is being bulk-updated to the
	// cursor's frame.
	StateSyncing

	// StateReady means the display buffer holds one consistent frame and is
	// safe to render.
	StateReady

	// StateAdvancing means the cursor is moving to the next frame.
	StateAdvancing

	// StateDone means the cursor reached the frame count and the session
	// ended normally.
	StateDone

	// StateFailed means the session terminated with a playback error.
	StateFailed
)

// String returns a human-readable representation of the state.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateSyncing:
		return "Syncing"
	case StateReady:
		return "Ready"
	case StateAdvancing:
		return "Advancing"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}
