// Package goja implements scripted.Interpreter using
// github.com/dop251/goja, a Go implementation of ECMAScript 5.1+.
//
// Grounded on interpreters/goja/goja.go and
// interpreters/ecmascript/ecmascript.go for the runtime-setup idiom
// (wrap source in an IIFE, compile once, expose a fixed set of
// builtins under "_", run with an interrupt watchdog tied to the
// caller's context) — generalized from bindings-in/bindings-out
// action execution to message-in/payload-out.
package goja

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/dop251/goja"

	"github.com/fcmkit/fcm/message"
	"github.com/fcmkit/fcm/scripted"
)

// InterruptedMessage is the error text used when execution is
// cancelled via the caller's context.
const InterruptedMessage = "scripted/goja: interrupted"

// Interrupted is returned by Exec when execution is cut short by
// ctx's cancellation.
var Interrupted = errors.New(InterruptedMessage)

// Interpreter implements scripted.Interpreter with Goja.
type Interpreter struct {
	// Testing enables the sleep() builtin, useful only in tests.
	Testing bool
}

// NewInterpreter returns an Interpreter.
func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

func wrapSrc(src string) string {
	return fmt.Sprintf("(function() {\n%s\n}());\n", src)
}

// Compile accepts a string of JavaScript and compiles it once; the
// result is reused by every subsequent Exec.
func (i *Interpreter) Compile(ctx context.Context, source interface{}) (interface{}, error) {
	src, is := source.(string)
	if !is {
		return nil, fmt.Errorf("scripted/goja: source must be a string, got %T", source)
	}
	p, err := goja.Compile("", wrapSrc(src), true)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Exec runs the compiled program against m. The runtime exposes m's
// fields and a handful of builtins under "_":
//
//	_.interfaceName, _.messageName, _.payload, _.sender, _.receiver
//	_.log(x)       write x to the process log
//	_.cronNext(s)  next fire time (RFC3339Nano) for crontab expression s
//	_.esc(s)       URL query-escape s
//
// If the script's completion value is neither undefined nor null, it
// replaces m.Payload.
func (i *Interpreter) Exec(ctx context.Context, m *message.Message, source, compiled interface{}) error {
	p, is := compiled.(*goja.Program)
	if !is {
		var err error
		compiled, err = i.Compile(ctx, source)
		if err != nil {
			return err
		}
		p = compiled.(*goja.Program)
	}

	o := goja.New()

	env := map[string]interface{}{
		"interfaceName": m.Interface,
		"messageName":   m.Name,
		"payload":       m.Payload,
		"sender":        receiverName(m.Sender),
		"receiver":      receiverName(m.Receiver),
	}
	o.Set("_", env)

	if i.Testing {
		env["sleep"] = func(ms int) { time.Sleep(time.Duration(ms) * time.Millisecond) }
	}

	env["log"] = func(x interface{}) interface{} {
		if v, is := x.(goja.Value); is {
			x = v.Export()
		}
		js, err := json.Marshal(&x)
		if err != nil {
			log.Printf("scripted/goja: log (can't marshal: %v)", err)
		} else {
			log.Println(string(js))
		}
		return x
	}

	env["cronNext"] = func(x interface{}) interface{} {
		if v, is := x.(goja.Value); is {
			x = v.Export()
		}
		expr, is := x.(string)
		if !is {
			panic(o.ToValue("cronNext: not a string"))
		}
		next, err := scripted.CronNext(expr, time.Now())
		if err != nil {
			panic(o.ToValue(err.Error()))
		}
		return next.UTC().Format(time.RFC3339Nano)
	}

	env["esc"] = func(x interface{}) interface{} {
		if v, is := x.(goja.Value); is {
			x = v.Export()
		}
		s, is := x.(string)
		if !is {
			panic(o.ToValue("esc: not a string"))
		}
		return url.QueryEscape(s)
	}

	ictx, cancel := context.WithCancel(ctx)
	go func() {
		<-ictx.Done()
		o.Interrupt(InterruptedMessage)
	}()

	v, err := o.RunProgram(p)
	cancel()

	if err != nil {
		if _, is := err.(*goja.InterruptedError); is {
			return Interrupted
		}
		return err
	}

	if result := v.Export(); result != nil {
		m.Payload = result
	}
	return nil
}

func receiverName(r message.Receiver) string {
	if r == nil {
		return ""
	}
	return r.ComponentName()
}
