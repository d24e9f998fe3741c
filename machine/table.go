package machine

import "github.com/fcmkit/fcm/message"

// WildcardState matches any current state when no exact-state
// transition is registered for the incoming message.
const WildcardState = "*"

// HistoryState as a transition's next state means "return to whatever
// state was current when the externally-received message now being
// processed arrived" — it is resolved at dispatch time, not
// registration time. Synthetic choice-point messages do not move that
// snapshot, so inside a choice-point chain "H" returns to the state
// the machine was in before the chain started.
const HistoryState = "H"

// Action is anything a transition can run on dispatch. A nil Action
// is legal: the transition still changes state, it just does nothing
// else.
type Action interface {
	// Exec runs the action against the message that triggered the
	// transition. An error is logged through the component's Error
	// hook; it does not prevent the state change, mirroring the
	// original component model where actions have no return value.
	Exec(m *message.Message) error
}

// ActionFunc adapts a plain function to Action.
type ActionFunc func(m *message.Message) error

// Exec calls f.
func (f ActionFunc) Exec(m *message.Message) error { return f(m) }

// transition is one entry of the transition table: on receiving
// Interface:Message while in some state, run Action (if any) and move
// to NextState.
type transition struct {
	Action    Action
	NextState string
}

// table is state -> interface -> message -> transition. It mirrors
// FcmStateTransitionTable's nested-map shape directly rather than
// flattening it into a single keyed lookup, since the dispatch path
// always walks it in that order: current state first, falling back to
// the wildcard state.
type table map[string]map[string]map[string]*transition

func newTable() table {
	return table{}
}

func (t table) lookup(state, interfaceName, messageName string) (*transition, bool) {
	byInterface, have := t[state]
	if !have {
		return nil, false
	}
	byMessage, have := byInterface[interfaceName]
	if !have {
		return nil, false
	}
	tr, have := byMessage[messageName]
	return tr, have
}

func (t table) has(state, interfaceName, messageName string) bool {
	_, have := t.lookup(state, interfaceName, messageName)
	return have
}

func (t table) add(state, interfaceName, messageName string, tr *transition) {
	byInterface, have := t[state]
	if !have {
		byInterface = map[string]map[string]*transition{}
		t[state] = byInterface
	}
	byMessage, have := byInterface[interfaceName]
	if !have {
		byMessage = map[string]*transition{}
		byInterface[interfaceName] = byMessage
	}
	byMessage[messageName] = tr
}

// Len reports the total number of registered transitions, summed
// across every state and interface.
func (t table) Len() int {
	n := 0
	for _, byInterface := range t {
		for _, byMessage := range byInterface {
			n += len(byMessage)
		}
	}
	return n
}

// Edge is a read-only view of one transition, for tooling that
// renders a machine's table (graphs, docs) without needing access to
// its unexported fields.
type Edge struct {
	State     string
	Interface string
	Message   string
	NextState string
	HasAction bool
	IsChoice  bool
}

// Edges returns a snapshot of every registered transition, plus
// whether its State is a choice point.
func (m *Functional) Edges() []Edge {
	edges := make([]Edge, 0, m.table.Len())
	for state, byInterface := range m.table {
		_, isChoice := m.choicePoints[state]
		for ifaceName, byMessage := range byInterface {
			for msgName, tr := range byMessage {
				edges = append(edges, Edge{
					State:     state,
					Interface: ifaceName,
					Message:   msgName,
					NextState: tr.NextState,
					HasAction: tr.Action != nil,
					IsChoice:  isChoice,
				})
			}
		}
	}
	return edges
}
