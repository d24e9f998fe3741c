// Package message defines the typed messages that flow through an FCM
// device: every message is tagged with an interface name and a
// message name, carries sender/receiver/timestamp/interfaceIndex
// metadata, and optionally a payload.
//
// The two built-in interfaces, Logical (Yes/No) and Timer (Timeout),
// are reserved by the engine: Logical messages drive choice-point
// expansion and Timer messages are synthesized by the timer service.
package message

import "fmt"

// Receiver is the minimal capability a message needs from whatever it
// is addressed to: a name, for logging, and nothing else. component.Base
// satisfies this; the engine never needs more than that from a raw
// message.
type Receiver interface {
	ComponentName() string
}

// Message is a single unit of communication between components.
//
// Sender may be nil for synthetic internal messages (the Timer.Timeout
// messages pushed by the timer service). Receiver is resolved at send
// time by component.Base.Send (the timer service sets it directly) and
// is nil until then.
type Message struct {
	Interface      string
	Name           string
	Sender         Receiver
	Receiver       Receiver
	Timestamp      int64 // monotonic milliseconds, assigned by the queue on push
	InterfaceIndex int

	// Payload carries message-specific fields. Concrete message
	// kinds are free to define their own payload struct and stash
	// it here; the engine never inspects it.
	Payload interface{}
}

// Kind identifies a message by its (interface, name) tag, the key the
// dispatch table is indexed by.
func (m *Message) Kind() string {
	return m.Interface + ":" + m.Name
}

func (m *Message) String() string {
	return fmt.Sprintf("%s (from %s)", m.Kind(), senderName(m.Sender))
}

func senderName(r Receiver) string {
	if r == nil {
		return "<nil>"
	}
	return r.ComponentName()
}

// New builds a Message for the given interface/name pair, stamping
// Sender from the component constructing it. Timestamp is left zero;
// queue.Queue.Push assigns it.
func New(sender Receiver, interfaceName, name string, payload interface{}) *Message {
	return &Message{
		Interface: interfaceName,
		Name:      name,
		Sender:    sender,
		Payload:   payload,
	}
}

// InterfaceLogical is the reserved interface name for choice-point
// outcomes.
const InterfaceLogical = "Logical"

// InterfaceTimer is the reserved interface name for timer expiry
// notifications.
const InterfaceTimer = "Timer"

// MessageYes and MessageNo are the two Logical message names.
const (
	MessageYes = "Yes"
	MessageNo  = "No"
)

// MessageTimeout is the Timer interface's single message name.
const MessageTimeout = "Timeout"

// Timeout is the payload of a Timer.Timeout message.
type Timeout struct {
	TimerID int
}

// NewLogical builds a Logical.Yes or Logical.No message depending on
// result, as synthesized by choice-point evaluation.
func NewLogical(sender Receiver, result bool) *Message {
	name := MessageNo
	if result {
		name = MessageYes
	}
	return New(sender, InterfaceLogical, name, nil)
}

// NewTimeout builds a Timer.Timeout message for the given timer id.
func NewTimeout(sender Receiver, timerID int) *Message {
	return New(sender, InterfaceTimer, MessageTimeout, Timeout{TimerID: timerID})
}

// IsTimeout reports whether m is a Timer.Timeout message, and if so
// its timer id.
func IsTimeout(m *Message) (int, bool) {
	if m.Interface != InterfaceTimer || m.Name != MessageTimeout {
		return 0, false
	}
	t, is := m.Payload.(Timeout)
	if !is {
		return 0, false
	}
	return t.TimerID, true
}
