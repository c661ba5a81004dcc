// internal/gameplay/state.go
package gameplay

// State represents where the player screen is in its lifecycle.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
	StateExited
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateExited:
		return "Exited"
	default:
		return "Unknown"
	}
}

// IsActive returns true while the player screen is showing (playing or paused).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}
