package async

import (
	"testing"
	"time"

	"github.com/fcmkit/fcm/component"
	"github.com/fcmkit/fcm/message"
	"github.com/fcmkit/fcm/queue"
)

func TestWorkerStartReportsFinished(t *testing.T) {
	q := queue.New()
	w, err := NewWorker("w", nil, q, component.Hooks{}, nil, "Worker", "Finished",
		func(cancelled func() bool) { time.Sleep(5 * time.Millisecond) },
		func() *message.Message { return message.New(nil, "Worker", "Finished", "ok") },
	)
	if err != nil {
		t.Fatalf("NewWorker: %v", err)
	}
	peer, _ := NewHandler("peer", nil, q, component.Hooks{}, nil)
	if err := w.ConnectInterface("Worker", peer); err != nil {
		t.Fatalf("ConnectInterface: %v", err)
	}

	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	got := q.Await()
	if got.Payload != "ok" {
		t.Fatalf("expected finished payload 'ok', got %v", got.Payload)
	}
	if got.Receiver != peer {
		t.Fatal("expected finished message routed to connected peer")
	}
}

func TestWorkerStartTwiceFailsWhileRunning(t *testing.T) {
	q := queue.New()
	block := make(chan struct{})
	var errs []string
	w, _ := NewWorker("w", nil, q, component.Hooks{Error: func(s string) { errs = append(errs, s) }}, nil, "Worker", "Finished",
		func(cancelled func() bool) { <-block },
		func() *message.Message { return message.New(nil, "Worker", "Finished", nil) },
	)
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := w.Start(); err != AlreadyRunning {
		t.Fatalf("expected AlreadyRunning, got %v", err)
	}
	if len(errs) != 1 {
		t.Fatalf("expected the second Start to log one error, got %d: %v", len(errs), errs)
	}
	close(block)
	w.Cancel()
}

func TestWorkerCancelBeforeCompletionSuppressesFinished(t *testing.T) {
	q := queue.New()
	started := make(chan struct{})
	w, _ := NewWorker("w", nil, q, component.Hooks{}, nil, "Worker", "Finished",
		func(cancelled func() bool) {
			close(started)
			for !cancelled() {
				time.Sleep(time.Millisecond)
			}
		},
		func() *message.Message { return message.New(nil, "Worker", "Finished", nil) },
	)
	peer, _ := NewHandler("peer", nil, q, component.Hooks{}, nil)
	if err := w.ConnectInterface("Worker", peer); err != nil {
		t.Fatalf("ConnectInterface: %v", err)
	}

	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-started
	w.Cancel()

	if q.Len() != 0 {
		t.Fatalf("expected no finished message after cancel, queue len %d", q.Len())
	}
	if w.Running() {
		t.Fatal("expected worker to report not running after Cancel")
	}
}

func TestCancelOnNeverStartedWorkerIsNoop(t *testing.T) {
	q := queue.New()
	w, _ := NewWorker("w", nil, q, component.Hooks{}, nil, "Worker", "Finished",
		func(cancelled func() bool) {},
		func() *message.Message { return message.New(nil, "Worker", "Finished", nil) },
	)
	w.Cancel()
}
