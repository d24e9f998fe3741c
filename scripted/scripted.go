// Package scripted lets a transition's action be written as source
// code in some embedded language instead of a Go closure, compiled
// once at setup time and executed against each triggering message.
//
// Grounded on core/actions.go's ActionSource/Interpreter contract
// (Compile once, Exec many times), generalized from bindings-oriented
// execution to FCM's message-in/error-out action shape.
package scripted

import (
	"context"
	"errors"

	"github.com/fcmkit/fcm/machine"
	"github.com/fcmkit/fcm/message"
)

// ErrInterpreterNotFound is returned by ActionSource.Compile when the
// named interpreter isn't present in the given map.
var ErrInterpreterNotFound = errors.New("scripted: interpreter not found")

// Interpreter compiles and executes action source in some embedded
// language. Compile may return nil for a language with nothing
// meaningful to precompile.
type Interpreter interface {
	Compile(ctx context.Context, source interface{}) (compiled interface{}, err error)
	Exec(ctx context.Context, m *message.Message, source, compiled interface{}) error
}

// ActionSource names an interpreter and the source it should run.
type ActionSource struct {
	Interpreter string
	Source      interface{}
}

// Compile resolves a.Interpreter against interpreters and compiles
// a.Source, returning a machine.Action that re-runs the compiled
// source against each message it is given.
func (a *ActionSource) Compile(ctx context.Context, interpreters map[string]Interpreter) (machine.Action, error) {
	interp, have := interpreters[a.Interpreter]
	if !have {
		return nil, ErrInterpreterNotFound
	}
	compiled, err := interp.Compile(ctx, a.Source)
	if err != nil {
		return nil, err
	}
	return &compiledAction{interp: interp, source: a.Source, compiled: compiled}, nil
}

// compiledAction adapts an Interpreter plus its compiled source to
// machine.Action.
type compiledAction struct {
	interp   Interpreter
	source   interface{}
	compiled interface{}
}

// Exec satisfies machine.Action. The engine's dispatch path never
// carries a context, so compiledAction runs against
// context.Background(). An interpreter that ties interruption to the
// context (goja's does, via Interrupt) therefore runs an action here
// without any deadline.
func (c *compiledAction) Exec(m *message.Message) error {
	return c.interp.Exec(context.Background(), m, c.source, c.compiled)
}
