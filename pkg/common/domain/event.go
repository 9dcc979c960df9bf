package domain

// Event is a fact about a completed state change, dispatched after the
// owning unit of work commits.
type Event interface {
	Type() string
}

type EventDispatcher interface {
	Dispatch(event Event) error
}
