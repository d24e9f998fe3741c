package device

import "fmt"

// UndeliverableMessageError occurs when the run loop dequeues a
// message whose Receiver is nil, or whose Receiver is set but isn't
// Dispatchable — either way it was sent on an interface nobody ever
// connected to a functional component. The message is dropped.
type UndeliverableMessageError struct {
	Sender    string
	Interface string
	Message   string
}

func (e *UndeliverableMessageError) Error() string {
	return fmt.Sprintf("sent the message %q to unconnected interface %q from %q", e.Message, e.Interface, e.Sender)
}

// DuplicateComponentError occurs when Register is called twice with
// the same component name.
type DuplicateComponentError struct {
	Name string
}

func (e *DuplicateComponentError) Error() string {
	return fmt.Sprintf("component %q is already registered", e.Name)
}

// UnknownComponentError occurs when ConnectInterface names a
// component that was never registered.
type UnknownComponentError struct {
	Name string
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("component %q is not registered", e.Name)
}
