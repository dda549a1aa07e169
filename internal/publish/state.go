package publish

// State is a step of the publish state machine.
type State string

const (
	StateIdle                 State = "idle"
	StateResolvingTemplate    State = "resolving_template"
	StateResolvingDestination State = "resolving_destination"
	StateRendering            State = "rendering"
	StateSaving               State = "saving"
	StateDone                 State = "done"
	StateFailed               State = "failed"
)

// Terminal reports whether no further transitions follow s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
