package app

// State is where the tracker is in a fetch cycle.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateExtracting
	StateReporting
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateExtracting:
		return "extracting"
	case StateReporting:
		return "reporting"
	case StateError:
		return "error"
	}
	return "unknown"
}
