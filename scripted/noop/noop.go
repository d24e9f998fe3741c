// Package noop implements scripted.Interpreter by doing nothing: it
// compiles anything to nil and executes without touching the message.
// Useful as a placeholder interpreter during development, or to
// disable an action source without deleting it.
//
// Grounded on interpreters/noop/noop.go.
package noop

import (
	"context"
	"log"

	"github.com/fcmkit/fcm/message"
)

// Interpreter is a scripted.Interpreter that never does anything.
type Interpreter struct {
	// Silent, if false, logs a warning every time it is used, so
	// that a noop left in place by accident is noticed.
	Silent bool
}

// NewInterpreter returns an Interpreter.
func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

// Compile always returns (nil, nil).
func (i *Interpreter) Compile(ctx context.Context, source interface{}) (interface{}, error) {
	if !i.Silent {
		log.Printf("scripted/noop: compiling %v as a no-op", source)
	}
	return nil, nil
}

// Exec does nothing and never errors.
func (i *Interpreter) Exec(ctx context.Context, m *message.Message, source, compiled interface{}) error {
	if !i.Silent {
		log.Printf("scripted/noop: executing %v as a no-op", source)
	}
	return nil
}
