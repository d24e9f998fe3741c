// Package machine implements the functional component: a component
// whose behavior is entirely described by a state-transition table,
// dispatched one message at a time by Process.
//
// Grounded on original_source/src/FcmFunctionalComponent.cpp
// (processMessage / performTransition / addTransition /
// addChoicePoint / resendLastReceivedMessage / setTimeout /
// cancelTimeout) for the dispatch algorithm, and on core/spec.go's
// Node/Branches shape (from the sheens tree this module is built
// from) for the idea of a table type with its own add/lookup methods
// rather than a bare map manipulated inline.
package machine

import (
	"fmt"
	"time"

	"github.com/fcmkit/fcm/component"
	"github.com/fcmkit/fcm/message"
	"github.com/fcmkit/fcm/queue"
	"github.com/fcmkit/fcm/schema"
	"github.com/fcmkit/fcm/timer"
)

// Behavior is what a concrete functional component supplies: the
// declared states, the choice-point predicates, the transition table,
// and a post-table initialization hook. Framework init calls these in
// order — SetStates, SetChoicePoints, SetTransitions, Initialize —
// matching the constructor sequencing of the original component base.
type Behavior interface {
	SetStates(m *Functional) []string
	SetChoicePoints(m *Functional)
	SetTransitions(m *Functional)
	Initialize(m *Functional)
}

// FuncBehavior adapts four plain functions to Behavior, for
// components simple enough not to need their own named type. Any
// field left nil is treated as a no-op (SetStates must not be nil).
type FuncBehavior struct {
	SetStatesFunc      func(m *Functional) []string
	SetChoicePointsFunc func(m *Functional)
	SetTransitionsFunc func(m *Functional)
	InitializeFunc     func(m *Functional)
}

func (f FuncBehavior) SetStates(m *Functional) []string {
	if f.SetStatesFunc == nil {
		return nil
	}
	return f.SetStatesFunc(m)
}

func (f FuncBehavior) SetChoicePoints(m *Functional) {
	if f.SetChoicePointsFunc != nil {
		f.SetChoicePointsFunc(m)
	}
}

func (f FuncBehavior) SetTransitions(m *Functional) {
	if f.SetTransitionsFunc != nil {
		f.SetTransitionsFunc(m)
	}
}

func (f FuncBehavior) Initialize(m *Functional) {
	if f.InitializeFunc != nil {
		f.InitializeFunc(m)
	}
}

// Functional is a component driven by a state-transition table: one
// message in, at most one state change and one action out, plus any
// number of synthetic Logical.Yes/Logical.No choice-point transitions
// chased through before control returns to the caller.
type Functional struct {
	*component.Base

	behavior Behavior
	timers   *timer.Service

	states       []string
	currentState string
	historyState string

	table        table
	choicePoints map[string]func() bool

	lastReceived *message.Message
}

// New constructs a Functional component and connects it to itself on
// the Timer interface, so that timeouts it schedules through SetTimeout
// are delivered back to it by the device's run loop. It does not yet
// run framework init — call InitFramework once the component has been
// wired to its peers.
func New(name string, settings map[string]interface{}, q *queue.Queue, timers *timer.Service, hooks component.Hooks, schemaSpec schema.Spec, behavior Behavior) (*Functional, error) {
	base, err := component.NewBase(name, settings, q, hooks, schemaSpec)
	if err != nil {
		return nil, err
	}
	m := &Functional{
		Base:         base,
		behavior:     behavior,
		timers:       timers,
		table:        newTable(),
		choicePoints: map[string]func() bool{},
	}
	if err := base.ConnectInterface(message.InterfaceTimer, m); err != nil {
		return nil, err
	}
	return m, nil
}

// InitFramework runs the four-stage behavior sequence and validates
// its results: SetStates must return at least one state, and
// SetTransitions (via AddTransition/AddChoicePoint calls on m) must
// leave the table non-empty. currentState is set to the first
// declared state.
func (m *Functional) InitFramework() error {
	states := m.behavior.SetStates(m)
	if len(states) == 0 {
		return &EmptyStatesError{Component: m.ComponentName()}
	}
	m.states = states
	m.currentState = states[0]
	m.historyState = states[0]

	m.behavior.SetChoicePoints(m)
	m.behavior.SetTransitions(m)

	if m.table.Len() == 0 {
		return &EmptyTransitionTableError{Component: m.ComponentName()}
	}

	m.behavior.Initialize(m)
	return nil
}

// CurrentState reports the state the machine is in right now.
func (m *Functional) CurrentState() string { return m.currentState }

// States reports the states declared by SetStates, in declaration
// order.
func (m *Functional) States() []string { return m.states }

func (m *Functional) hasState(state string) bool {
	for _, s := range m.states {
		if s == state {
			return true
		}
	}
	return false
}

// AddTransition registers a transition from state (or the wildcard
// state "*") on interfaceName:messageName to nextState (or the history
// token "H"), running action (which may be nil) on dispatch. It is
// meant to be called from Behavior.SetTransitions.
func (m *Functional) AddTransition(state, interfaceName, messageName, nextState string, action Action) error {
	if state != WildcardState && !m.hasState(state) {
		return &UnknownStateError{Component: m.ComponentName(), State: state}
	}
	if nextState != HistoryState && !m.hasState(nextState) {
		return &UnknownStateError{Component: m.ComponentName(), State: nextState}
	}
	if m.table.has(state, interfaceName, messageName) {
		return &DuplicateTransitionError{Component: m.ComponentName(), State: state, Interface: interfaceName, Message: messageName}
	}
	m.table.add(state, interfaceName, messageName, &transition{Action: action, NextState: nextState})
	return nil
}

// AddChoicePoint registers name as a choice state: whenever the
// machine's current state becomes name, Process evaluates eval and
// dispatches a synthetic Logical.Yes or Logical.No message to resolve
// it, without waiting for an externally-received message. name is
// appended to the declared states automatically. It is meant to be
// called from Behavior.SetChoicePoints, before SetTransitions runs
// (choice points need transitions registered on them like any other
// state).
func (m *Functional) AddChoicePoint(name string, eval func() bool) error {
	if _, have := m.choicePoints[name]; have {
		return &DuplicateChoicePointError{Component: m.ComponentName(), ChoicePoint: name}
	}
	if eval == nil {
		return fmt.Errorf("component %q: choice-point %q has a nil predicate", m.ComponentName(), name)
	}
	if !m.hasState(name) {
		m.states = append(m.states, name)
	}
	m.choicePoints[name] = eval
	return nil
}

// ResendLastReceivedMessage pushes the most recently processed
// message back to the front of the queue, ahead of anything pushed
// since. It is a no-op before the first message has been processed.
func (m *Functional) ResendLastReceivedMessage() {
	if m.lastReceived == nil {
		return
	}
	m.Queue().Resend(m.lastReceived)
}

// Process dispatches one externally-received message: it snapshots
// the current state into historyState, performs the triggered
// transition, and then — if the new state is a choice point — keeps
// resolving synthetic Logical.Yes/Logical.No transitions until the
// machine lands on a non-choice state or a dispatch miss stops it.
//
// historyState is only ever updated here, on an externally-received
// message, never while chasing choice points: a transition table that
// resolves to "H" inside a choice-point chain returns to the state the
// machine was in before the whole chain started.
func (m *Functional) Process(msg *message.Message) {
	m.historyState = m.currentState
	m.lastReceived = msg

	if !m.performTransition(msg) {
		return
	}
	for {
		eval, isChoicePoint := m.choicePoints[m.currentState]
		if !isChoicePoint {
			return
		}
		result := eval()
		synthetic := message.NewLogical(m, result)
		if !m.performTransition(synthetic) {
			return
		}
	}
}

// performTransition looks up msg against the current state, falling
// back to the wildcard state, runs its action, and advances
// currentState. It reports whether a transition was found; on a
// dispatch miss it logs an error, leaves the state unchanged, and
// reports false so Process stops chasing choice points.
func (m *Functional) performTransition(msg *message.Message) bool {
	tr, found := m.table.lookup(m.currentState, msg.Interface, msg.Name)
	if !found {
		tr, found = m.table.lookup(WildcardState, msg.Interface, msg.Name)
	}
	if !found {
		err := &DispatchMissError{Component: m.ComponentName(), State: m.currentState, Interface: msg.Interface, Message: msg.Name}
		if h := m.Hooks().Error; h != nil {
			h(err.Error())
		}
		return false
	}

	next := tr.NextState
	if next == HistoryState {
		next = m.historyState
	}

	if h := m.Hooks().Transition; h != nil {
		h(fmt.Sprintf("%s: %s -> %s on %s:%s", m.ComponentName(), m.currentState, next, msg.Interface, msg.Name))
	}

	if tr.Action != nil {
		if err := tr.Action.Exec(msg); err != nil {
			if h := m.Hooks().Error; h != nil {
				h(fmt.Sprintf("%s: action error on %s:%s: %v", m.ComponentName(), msg.Interface, msg.Name, err))
			}
		}
	}

	m.currentState = next
	return true
}

// SetTimeout schedules a Timer.Timeout message to be delivered back
// to m after d, returning the timer's id for a later CancelTimeout.
func (m *Functional) SetTimeout(d time.Duration) int {
	return m.timers.SetTimeout(d, m)
}

// CancelTimeout cancels a timer previously scheduled by SetTimeout.
// See timer.Service.CancelTimeout for the three possible outcomes.
func (m *Functional) CancelTimeout(id int) {
	m.timers.CancelTimeout(id)
}

// ComponentName, Settings, Hooks, and Queue are inherited from
// component.Base via embedding.
