package component

import (
	"testing"

	"github.com/fcmkit/fcm/message"
	"github.com/fcmkit/fcm/queue"
	"github.com/fcmkit/fcm/schema"
)

func newTestBase(t *testing.T, name string, settings map[string]interface{}) (*Base, *queue.Queue, *[]string) {
	t.Helper()
	q := queue.New()
	errs := &[]string{}
	hooks := Hooks{Error: func(s string) { *errs = append(*errs, s) }}
	b, err := NewBase(name, settings, q, hooks, nil)
	if err != nil {
		t.Fatalf("NewBase: %v", err)
	}
	return b, q, errs
}

func TestSetSettingOK(t *testing.T) {
	b, _, _ := newTestBase(t, "c", map[string]interface{}{"retries": 3})
	var retries int
	if err := SetSetting(b, "retries", &retries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if retries != 3 {
		t.Fatalf("expected 3, got %d", retries)
	}
}

func TestSetSettingMissingKeyIsFatal(t *testing.T) {
	var fatal string
	q := queue.New()
	b, err := NewBase("c", nil, q, Hooks{Fatal: func(s string) { fatal = s }}, nil)
	if err != nil {
		t.Fatalf("NewBase: %v", err)
	}
	var port int
	if err := SetSetting(b, "port", &port); err == nil {
		t.Fatal("expected error for missing setting")
	}
	if fatal == "" {
		t.Fatal("expected fatal log event")
	}
}

func TestConnectInterfaceDuplicateRefused(t *testing.T) {
	b, _, errs := newTestBase(t, "c", nil)
	peer, _, _ := newTestBase(t, "peer", nil)

	if err := b.ConnectInterface("Foo", peer); err != nil {
		t.Fatalf("first connect should succeed: %v", err)
	}
	if err := b.ConnectInterface("Foo", peer); err == nil {
		t.Fatal("expected duplicate connection to be refused")
	}
	if len(*errs) != 1 {
		t.Fatalf("expected exactly one error log event, got %d", len(*errs))
	}
}

func TestSendToUnconnectedInterfaceLogsAndDrops(t *testing.T) {
	b, q, errs := newTestBase(t, "c", nil)
	m := message.New(b, "Foo", "Bar", nil)

	if err := b.Send(m, 0); err == nil {
		t.Fatal("expected error sending on unconnected interface")
	}
	if len(*errs) != 1 {
		t.Fatalf("expected one error log event, got %d", len(*errs))
	}
	if q.Len() != 0 {
		t.Fatalf("expected queue unchanged, got len %d", q.Len())
	}
}

func TestSendOutOfRangeIndex(t *testing.T) {
	b, _, errs := newTestBase(t, "c", nil)
	peer, _, _ := newTestBase(t, "peer", nil)
	if err := b.ConnectInterface("Foo", peer); err != nil {
		t.Fatalf("connect: %v", err)
	}
	m := message.New(b, "Foo", "Bar", nil)
	if err := b.Send(m, 5); err == nil {
		t.Fatal("expected out-of-range error")
	}
	if len(*errs) != 1 {
		t.Fatalf("expected one error log event, got %d", len(*errs))
	}
}

func TestSendSetsReceiverAndIndex(t *testing.T) {
	b, q, _ := newTestBase(t, "c", nil)
	peer, _, _ := newTestBase(t, "peer", nil)
	if err := b.ConnectInterface("Foo", peer); err != nil {
		t.Fatalf("connect: %v", err)
	}
	m := message.New(b, "Foo", "Bar", nil)
	if err := b.Send(m, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Receiver != peer {
		t.Fatal("expected receiver set to peer")
	}
	if q.Len() != 1 {
		t.Fatal("expected message enqueued")
	}
}

func TestNewBaseWithSchemaValidatesAtConstruction(t *testing.T) {
	q := queue.New()
	var fatal string
	s := schema.Spec{"port": schema.ParamSpec{PrimitiveType: "int"}}
	_, err := NewBase("c", map[string]interface{}{}, q, Hooks{Fatal: func(s2 string) { fatal = s2 }}, s)
	if err == nil {
		t.Fatal("expected schema validation error")
	}
	if fatal == "" {
		t.Fatal("expected fatal log event from schema failure")
	}
}
