// Package timer implements the FCM timer service: a process-wide
// scheduler of future Timer.Timeout messages, with cancellation that
// races correctly against delivery.
//
// Unlike cmd/mservice/timers in the sheens tree this package is
// based on, which amortizes one OS timer across many backlog entries
// for timer-dense services, this Service uses one time.AfterFunc per
// outstanding timer: FCM timers are per-component retry/poll
// timeouts, numbering in the dozens per device, not the thousands
// that motivate the shared-heap design. See DESIGN.md.
package timer

import (
	"sync"
	"time"

	"github.com/fcmkit/fcm/message"
	"github.com/fcmkit/fcm/queue"
)

type entry struct {
	target    message.Receiver
	cancelled bool
	afterFunc *time.Timer
}

// Service schedules Timer.Timeout messages for delivery through a
// queue.Queue. The zero value is not usable; construct with New.
type Service struct {
	Debug bool
	Logf  func(format string, args ...interface{})

	mu      sync.Mutex
	timers  map[int]*entry
	nextID  int
	queue   *queue.Queue
}

// New returns a Service that delivers expired timers onto q.
func New(q *queue.Queue) *Service {
	return &Service{
		timers: make(map[int]*entry),
		queue:  q,
	}
}

// SetTimeout allocates a fresh, strictly increasing timer id, and
// schedules a Timer.Timeout{id} message to be pushed onto the queue,
// addressed to target, after d elapses.
func (s *Service) SetTimeout(d time.Duration, target message.Receiver) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	e := &entry{target: target}
	e.afterFunc = time.AfterFunc(d, func() { s.fire(id) })
	s.timers[id] = e
	s.debugf("set %d in %s for %s", id, d, targetName(target))

	return id
}

// fire runs in the timer's own goroutine when d elapses. If the timer
// was cancelled in the interim, it does nothing; otherwise it enqueues
// the Timeout message and retires the entry.
func (s *Service) fire(id int) {
	s.mu.Lock()
	e, ok := s.timers[id]
	if !ok || e.cancelled {
		s.mu.Unlock()
		return
	}
	delete(s.timers, id)
	s.mu.Unlock()

	s.debugf("fire %d for %s", id, targetName(e.target))
	m := message.NewTimeout(nil, id)
	m.Receiver = e.target
	s.queue.Push(m)
}

// CancelTimeout cancels timer id. There are three possible outcomes,
// per the engine's cancellation race semantics:
//
//  1. The timer has not fired yet: its entry is flagged cancelled and
//     its underlying time.AfterFunc is stopped. No Timeout message is
//     ever enqueued for id.
//  2. The timer already fired and its Timeout message is still
//     sitting in the queue: the message is scrubbed. Receivers never
//     see it.
//  3. The timer already fired and the consumer already dequeued the
//     message before CancelTimeout acquired the lock: cancellation is
//     a no-op. The receiver must tolerate the stale delivery.
//
// Cancelling an unknown id is never an error.
func (s *Service) CancelTimeout(id int) {
	s.mu.Lock()
	if e, ok := s.timers[id]; ok {
		e.cancelled = true
		delete(s.timers, id)
		s.mu.Unlock()
		e.afterFunc.Stop()
		s.debugf("cancel %d (pre-fire)", id)
		return
	}
	s.mu.Unlock()

	removed := s.queue.Remove(message.InterfaceTimer, message.MessageTimeout, func(m *message.Message) bool {
		tid, ok := message.IsTimeout(m)
		return ok && tid == id
	})
	s.debugf("cancel %d (post-fire, scrubbed=%v)", id, removed)
}

func (s *Service) debugf(format string, args ...interface{}) {
	if !s.Debug {
		return
	}
	if s.Logf != nil {
		s.Logf(format, args...)
	}
}

func targetName(r message.Receiver) string {
	if r == nil {
		return "<nil>"
	}
	return r.ComponentName()
}
