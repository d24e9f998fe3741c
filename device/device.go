// Package device implements the outermost object of an FCM
// application: it owns the single message queue and timer service
// shared by every component, runs the single-goroutine dispatch loop,
// and wires components to each other's interfaces.
//
// Grounded on original_source/src/FcmDevice.cpp for run/
// initializeComponents/processMessages/_connectInterface, and on
// crew/crew.go (RWMutex-guarded map) for the component-registry idiom.
package device

import (
	"sync"

	"github.com/fcmkit/fcm/component"
	"github.com/fcmkit/fcm/message"
	"github.com/fcmkit/fcm/queue"
	"github.com/fcmkit/fcm/timer"
)

// Initializer is implemented by component kinds that need a
// framework-init pass before the device starts running —
// machine.Functional is the only one today.
type Initializer interface {
	InitFramework() error
}

// Dispatchable is implemented by component kinds the run loop can
// deliver a message to. machine.Functional implements it; async
// handlers and workers don't — they only ever produce messages, they
// never receive dispatch.
type Dispatchable interface {
	message.Receiver
	Process(m *message.Message)
}

// connectable is the minimum any registered component must support:
// a name, and the ability to accept a peer connection on one of its
// interfaces. component.Base (embedded by every component kind)
// satisfies this.
type connectable interface {
	message.Receiver
	ConnectInterface(interfaceName string, peer message.Receiver) error
}

// Device owns the shared queue and timer service, the component
// registry, and the dispatch loop.
type Device struct {
	hooks component.Hooks

	queue  *queue.Queue
	timers *timer.Service

	mu         sync.RWMutex
	components map[string]connectable
	order      []string
}

// New constructs a Device with a fresh queue and timer service.
func New(hooks component.Hooks) *Device {
	q := queue.New()
	return &Device{
		hooks:      hooks,
		queue:      q,
		timers:     timer.New(q),
		components: make(map[string]connectable),
	}
}

// Queue returns the device's shared message queue, so that component
// constructors (machine.New, async.NewHandler, async.NewWorker) can be
// built against it.
func (d *Device) Queue() *queue.Queue { return d.queue }

// Timers returns the device's timer service.
func (d *Device) Timers() *timer.Service { return d.timers }

// Hooks returns the device's logging hooks.
func (d *Device) Hooks() component.Hooks { return d.hooks }

// Register adds c to the component registry under its own
// ComponentName. It is an error to register two components with the
// same name.
func (d *Device) Register(c connectable) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	name := c.ComponentName()
	if _, have := d.components[name]; have {
		return &DuplicateComponentError{Name: name}
	}
	d.components[name] = c
	d.order = append(d.order, name)
	return nil
}

// Get looks up a registered component by name.
func (d *Device) Get(name string) (connectable, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, have := d.components[name]
	return c, have
}

// ConnectInterface wires interfaceName between two registered
// components. Exactly like the original's asymmetric
// _connectInterface: a side is only told about its peer if that peer
// can receive dispatched messages (implements Dispatchable) — an async
// handler or worker is a message source on an interface, never a
// destination the other side needs to remember.
func (d *Device) ConnectInterface(interfaceName, firstName, secondName string) error {
	first, have := d.Get(firstName)
	if !have {
		return &UnknownComponentError{Name: firstName}
	}
	second, have := d.Get(secondName)
	if !have {
		return &UnknownComponentError{Name: secondName}
	}

	if _, isDispatchable := second.(Dispatchable); isDispatchable {
		if err := first.ConnectInterface(interfaceName, second); err != nil {
			return err
		}
	}
	if _, isDispatchable := first.(Dispatchable); isDispatchable {
		if err := second.ConnectInterface(interfaceName, first); err != nil {
			return err
		}
	}
	return nil
}

// InitializeComponents runs framework init on every registered
// component that needs it (machine.Functional's SetStates /
// SetChoicePoints / SetTransitions / Initialize sequence), in
// registration order. It stops and returns the first error.
func (d *Device) InitializeComponents() error {
	d.mu.RLock()
	ordered := make([]connectable, 0, len(d.order))
	for _, name := range d.order {
		ordered = append(ordered, d.components[name])
	}
	d.mu.RUnlock()

	for _, c := range ordered {
		init, ok := c.(Initializer)
		if !ok {
			continue
		}
		if err := init.InitFramework(); err != nil {
			return err
		}
	}
	return nil
}

// Run dequeues and dispatches messages forever. It is the device's
// single cooperative consumer: the only thing it ever blocks on is
// queue.Await.
func (d *Device) Run() {
	for {
		d.dispatch(d.queue.Await())
	}
}

func (d *Device) dispatch(m *message.Message) {
	if m.Receiver == nil {
		d.dropUndeliverable(m)
		return
	}

	target, ok := m.Receiver.(Dispatchable)
	if !ok {
		// Addressed to a component that never dispatches (an async
		// handler or worker) — same as an unset Receiver for dispatch
		// purposes.
		d.dropUndeliverable(m)
		return
	}
	target.Process(m)
}

func (d *Device) dropUndeliverable(m *message.Message) {
	err := &UndeliverableMessageError{Sender: senderName(m.Sender), Interface: m.Interface, Message: m.Name}
	if el, ok := m.Sender.(errorLogger); ok {
		if h := el.Hooks().Error; h != nil {
			h(err.Error())
		}
	}
}

type errorLogger interface {
	Hooks() component.Hooks
}

func senderName(r message.Receiver) string {
	if r == nil {
		return "<nil>"
	}
	return r.ComponentName()
}
