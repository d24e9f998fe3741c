// Package component provides the shared base every FCM component
// builds on: identity, a settings map, the interface-connection
// registry, message Send, and the optional-callback logging hooks.
//
// Grounded on original_source/FCM/src/FcmBaseComponent.cpp for
// behavior and core/errors.go (from the sheens tree this module is
// built from) for the named-error-type idiom.
package component

import (
	"fmt"

	"github.com/fcmkit/fcm/message"
	"github.com/fcmkit/fcm/queue"
	"github.com/fcmkit/fcm/schema"
)

// DuplicateConnectionError occurs when ConnectInterface is called
// twice with the same (interfaceName, peer) pair.
type DuplicateConnectionError struct {
	Interface string
	Component string
	Peer      string
}

func (e *DuplicateConnectionError) Error() string {
	return fmt.Sprintf("interface %q on component %q is already connected to %q", e.Interface, e.Component, e.Peer)
}

// UnconnectedInterfaceError occurs when Send targets an interface the
// component never connected.
type UnconnectedInterfaceError struct {
	Interface string
	Component string
	Message   string
}

func (e *UnconnectedInterfaceError) Error() string {
	return fmt.Sprintf("component %q: message %q sent on unconnected interface %q", e.Component, e.Message, e.Interface)
}

// IndexOutOfRangeError occurs when Send's index exceeds the number of
// peers connected on that interface.
type IndexOutOfRangeError struct {
	Interface string
	Component string
	Message   string
	Index     int
	NumPeers  int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("component %q: message %q sent on interface %q at index %d but only %d peer(s) connected",
		e.Component, e.Message, e.Interface, e.Index, e.NumPeers)
}

// Hooks are the optional logging callbacks a component can be given.
// Any of them may be left nil, in which case that log level is
// simply dropped.
type Hooks struct {
	Error      func(string)
	Warning    func(string)
	Info       func(string)
	Debug      func(string)
	Transition func(string)
	Fatal      func(string)
}

func (h Hooks) logError(s string) {
	if h.Error != nil {
		h.Error(s)
	}
}

func (h Hooks) logFatal(s string) {
	if h.Fatal != nil {
		h.Fatal(s)
	}
}

// Base is the identity, settings, and interface-connection registry
// shared by every component type in the engine.
type Base struct {
	name     string
	settings map[string]interface{}
	hooks    Hooks
	queue    *queue.Queue

	interfaces map[string][]message.Receiver
}

// NewBase constructs a Base component. If schemaSpec is non-nil, the
// settings map is validated immediately and a non-nil error is
// returned on violation (a startup error), in addition to the
// fatal-log hook being invoked, per SPEC_FULL.md §7.
func NewBase(name string, settings map[string]interface{}, q *queue.Queue, hooks Hooks, schemaSpec schema.Spec) (*Base, error) {
	if settings == nil {
		settings = map[string]interface{}{}
	}
	b := &Base{
		name:       name,
		settings:   settings,
		hooks:      hooks,
		queue:      q,
		interfaces: make(map[string][]message.Receiver),
	}
	if schemaSpec != nil {
		if err := schemaSpec.Validate(settings); err != nil {
			hooks.logFatal(fmt.Sprintf("component %q settings error: %v", name, err))
			return nil, err
		}
	}
	return b, nil
}

// ComponentName satisfies message.Receiver.
func (b *Base) ComponentName() string { return b.name }

// Settings returns the component's settings map. Callers must not
// mutate the returned map.
func (b *Base) Settings() map[string]interface{} { return b.settings }

// Hooks returns the component's logging hooks, so that subtypes
// (machine.Functional, async.Handler) can emit their own log events
// through the same callbacks.
func (b *Base) Hooks() Hooks { return b.hooks }

// Queue returns the component's message queue, so that subtypes can
// push directly (e.g. resend) without re-deriving it.
func (b *Base) Queue() *queue.Queue { return b.queue }

// SetSetting extracts settings[key] into *out via a type assertion to
// T; no conversion between types is attempted. On a missing key or
// type mismatch, it logs a fatal event and returns an error; it never
// panics.
func SetSetting[T any](b *Base, key string, out *T) error {
	v, have := b.settings[key]
	if !have {
		err := fmt.Errorf("component %q: missing setting %q", b.name, key)
		b.hooks.logFatal(err.Error())
		return err
	}
	t, is := v.(T)
	if !is {
		err := fmt.Errorf("component %q: setting %q has type %T, want %T", b.name, key, v, *out)
		b.hooks.logFatal(err.Error())
		return err
	}
	*out = t
	return nil
}

// ConnectInterface appends peer to interfaceName's peer list, unless
// that (interfaceName, peer) pair is already connected, in which case
// the connection request is refused and an error is logged and
// returned.
func (b *Base) ConnectInterface(interfaceName string, peer message.Receiver) error {
	peers := b.interfaces[interfaceName]
	for _, p := range peers {
		if p == peer {
			err := &DuplicateConnectionError{Interface: interfaceName, Component: b.name, Peer: peer.ComponentName()}
			b.hooks.logError(err.Error())
			return err
		}
	}
	b.interfaces[interfaceName] = append(peers, peer)
	return nil
}

// Send resolves m's receiver from the peer list connected to
// m.Interface at the given index, stamps m.Receiver and
// m.InterfaceIndex, and pushes m onto the queue. On an unconnected
// interface or an out-of-range index, it logs an error and drops m.
func (b *Base) Send(m *message.Message, index int) error {
	peers, have := b.interfaces[m.Interface]
	if !have {
		err := &UnconnectedInterfaceError{Interface: m.Interface, Component: b.name, Message: m.Name}
		b.hooks.logError(err.Error())
		return err
	}
	if index < 0 || index >= len(peers) {
		err := &IndexOutOfRangeError{Interface: m.Interface, Component: b.name, Message: m.Name, Index: index, NumPeers: len(peers)}
		b.hooks.logError(err.Error())
		return err
	}
	m.Receiver = peers[index]
	m.InterfaceIndex = index
	b.queue.Push(m)
	return nil
}
