package goja

import (
	"context"
	"testing"

	"github.com/fcmkit/fcm/message"
)

func TestExecReplacesPayloadWithReturnValue(t *testing.T) {
	i := NewInterpreter()
	compiled, err := i.Compile(context.Background(), "return _.payload + 1;")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	m := message.New(nil, "IF", "Msg", int64(41))
	if err := i.Exec(context.Background(), m, "return _.payload + 1;", compiled); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	got, is := m.Payload.(int64)
	if !is || got != 42 {
		t.Fatalf("expected payload 42, got %v (%T)", m.Payload, m.Payload)
	}
}

func TestExecLeavesPayloadAloneWhenScriptReturnsNothing(t *testing.T) {
	i := NewInterpreter()
	m := message.New(nil, "IF", "Msg", "keep-me")
	if err := i.Exec(context.Background(), m, "_.log(_.messageName);", nil); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if m.Payload != "keep-me" {
		t.Fatalf("expected payload unchanged, got %v", m.Payload)
	}
}

func TestCompileRejectsNonStringSource(t *testing.T) {
	i := NewInterpreter()
	if _, err := i.Compile(context.Background(), 42); err == nil {
		t.Fatal("expected error for non-string source")
	}
}
