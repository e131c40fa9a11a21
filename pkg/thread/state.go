package thread

// State is a step of the publisher's state machine.
type State int

const (
	StateIdle State = iota
	StatePosting
	StateWaiting
	StateDone
	StateFailed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StatePosting:
		return "Posting"
	case StateWaiting:
		return "Waiting"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Observer is notified about publisher progress. All methods are called
// from the goroutine running Publish.
type Observer interface {
	OnStateChange(previous, current State, reason string)
	OnPosted(post Post)
	OnFailed(index int, err error)
}

type noopObserver struct{}

func (noopObserver) OnStateChange(previous, current State, reason string) {}
func (noopObserver) OnPosted(post Post)                                   {}
func (noopObserver) OnFailed(index int, err error)                        {}
