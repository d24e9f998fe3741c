package machine

import "fmt"

// EmptyStatesError occurs when a functional component's SetStates
// returns no states: framework init refuses to proceed.
type EmptyStatesError struct {
	Component string
}

func (e *EmptyStatesError) Error() string {
	return fmt.Sprintf("no states defined for component %q", e.Component)
}

// EmptyTransitionTableError occurs when SetTransitions registers no
// transitions at all.
type EmptyTransitionTableError struct {
	Component string
}

func (e *EmptyTransitionTableError) Error() string {
	return fmt.Sprintf("transition table is empty for component %q", e.Component)
}

// UnknownStateError occurs when AddTransition names a state (current
// or next) that isn't in the declared states list and isn't one of
// the reserved tokens "*" or "H".
type UnknownStateError struct {
	Component string
	State     string
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("component %q: state %q is not declared", e.Component, e.State)
}

// DuplicateTransitionError occurs when the same (state, interface,
// message) triple is registered twice.
type DuplicateTransitionError struct {
	Component string
	State     string
	Interface string
	Message   string
}

func (e *DuplicateTransitionError) Error() string {
	return fmt.Sprintf("component %q: transition %s:%s on state %q already exists",
		e.Component, e.Interface, e.Message, e.State)
}

// DuplicateChoicePointError occurs when a choice-point name is
// registered twice.
type DuplicateChoicePointError struct {
	Component   string
	ChoicePoint string
}

func (e *DuplicateChoicePointError) Error() string {
	return fmt.Sprintf("component %q: choice-point %q already exists", e.Component, e.ChoicePoint)
}

// DispatchMissError occurs when a received message matches no
// transition in the current state, not even via the wildcard state.
// The message is dropped and the state machine is left unchanged.
type DispatchMissError struct {
	Component string
	State     string
	Interface string
	Message   string
}

func (e *DispatchMissError) Error() string {
	return fmt.Sprintf("component %q: message %s:%s is not handled in state %q (and no wildcard transition matches)",
		e.Component, e.Interface, e.Message, e.State)
}
