package async

import (
	"errors"
	"sync"

	"github.com/fcmkit/fcm/component"
	"github.com/fcmkit/fcm/message"
	"github.com/fcmkit/fcm/queue"
	"github.com/fcmkit/fcm/schema"
)

// AlreadyRunning is returned by Start when the worker's previous run
// hasn't finished (or been cancelled) yet.
var AlreadyRunning = errors.New("async: worker already running")

// Worker runs run in its own goroutine and, unless cancelled first,
// reports completion by sending the message prepareFinished builds.
// Cancel blocks until the goroutine has actually stopped, then scrubs
// a finished message that was pushed to the queue in the race window
// between the goroutine observing no cancellation and Cancel taking
// effect — the same race a timer.Service cancellation must handle,
// resolved the same way: flag-and-wait, then scrub.
//
// Grounded on original_source/src/FcmWorkerHandler.cpp's start/cancel/
// threadRun, with one correction: this Worker always knows which
// (interface, message) pair to scrub, since it is declared at
// construction rather than recovered from whatever the last run
// happened to produce.
type Worker struct {
	*Handler

	finishedInterface string
	finishedName      string
	run               func(cancelled func() bool)
	prepareFinished   func() *message.Message

	mu      sync.Mutex
	running bool
	cancel  chan struct{}
	done    chan struct{}
}

// NewWorker constructs a Worker. run performs the long-running task;
// it should poll cancelled periodically and return early if it reports
// true. prepareFinished builds the message sent on successful
// (non-cancelled) completion; its Interface and Name must always be
// finishedInterface and finishedName.
func NewWorker(name string, settings map[string]interface{}, q *queue.Queue, hooks component.Hooks, schemaSpec schema.Spec,
	finishedInterface, finishedName string,
	run func(cancelled func() bool),
	prepareFinished func() *message.Message,
) (*Worker, error) {
	h, err := NewHandler(name, settings, q, hooks, schemaSpec)
	if err != nil {
		return nil, err
	}
	return &Worker{
		Handler:           h,
		finishedInterface: finishedInterface,
		finishedName:      finishedName,
		run:               run,
		prepareFinished:   prepareFinished,
	}, nil
}

// Start launches run in a new goroutine. It returns AlreadyRunning if
// the previous run's goroutine is still active (it has neither
// returned on its own nor been stopped with Cancel).
func (w *Worker) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		if h := w.Hooks().Error; h != nil {
			h(w.ComponentName() + ": worker already started")
		}
		return AlreadyRunning
	}
	w.running = true
	cancel := make(chan struct{})
	done := make(chan struct{})
	w.cancel = cancel
	w.done = done
	w.mu.Unlock()

	go w.loop(cancel, done)
	return nil
}

func (w *Worker) loop(cancel, done chan struct{}) {
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(done)
	}()

	isCancelled := func() bool {
		select {
		case <-cancel:
			return true
		default:
			return false
		}
	}

	w.run(isCancelled)

	if isCancelled() {
		return
	}

	finished := w.prepareFinished()
	finished.Sender = w
	w.Send(finished, 0)
}

// Cancel requests that the worker stop, blocks until its goroutine has
// actually exited, and scrubs a finished message if one slipped onto
// the queue in the race window before the cancellation took effect.
// Cancelling a worker that isn't running is a no-op.
func (w *Worker) Cancel() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	close(cancel)
	<-done

	w.Queue().Remove(w.finishedInterface, w.finishedName, func(m *message.Message) bool {
		return m.Sender == w
	})
}

// Running reports whether the worker's goroutine is currently active.
func (w *Worker) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
