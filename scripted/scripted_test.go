package scripted

import (
	"context"
	"testing"

	"github.com/fcmkit/fcm/message"
)

type recordingInterpreter struct {
	compiled  interface{}
	execCount int
	lastMsg   *message.Message
}

func (r *recordingInterpreter) Compile(ctx context.Context, source interface{}) (interface{}, error) {
	r.compiled = source
	return "compiled:" + source.(string), nil
}

func (r *recordingInterpreter) Exec(ctx context.Context, m *message.Message, source, compiled interface{}) error {
	r.execCount++
	r.lastMsg = m
	return nil
}

func TestActionSourceCompileAndExec(t *testing.T) {
	interp := &recordingInterpreter{}
	src := &ActionSource{Interpreter: "rec", Source: "do-a-thing"}

	action, err := src.Compile(context.Background(), map[string]Interpreter{"rec": interp})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if interp.compiled != "do-a-thing" {
		t.Fatalf("expected interpreter to have compiled the source once, got %v", interp.compiled)
	}

	m := message.New(nil, "IF", "Msg", nil)
	if err := action.Exec(m); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if interp.execCount != 1 || interp.lastMsg != m {
		t.Fatalf("expected Exec to run once against m, got count=%d lastMsg=%v", interp.execCount, interp.lastMsg)
	}

	if err := action.Exec(m); err != nil {
		t.Fatalf("second Exec: %v", err)
	}
	if interp.execCount != 2 {
		t.Fatalf("expected compile-once/exec-many, got exec count %d", interp.execCount)
	}
}

func TestActionSourceCompileUnknownInterpreter(t *testing.T) {
	src := &ActionSource{Interpreter: "missing", Source: "x"}
	_, err := src.Compile(context.Background(), map[string]Interpreter{})
	if err != ErrInterpreterNotFound {
		t.Fatalf("expected ErrInterpreterNotFound, got %v", err)
	}
}
