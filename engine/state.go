package engine

// State is the program lifecycle phase
type State int32

const (
	StateIdle     State = iota // Constructed, Run not called
	StateStarting              // Acquiring the terminal
	StateRunning               // Processing messages
	StateDraining              // Shutting down; Send is a no-op
	StateStopped               // Terminal restored, Run returned
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
