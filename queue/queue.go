// Package queue provides the process-wide FIFO message queue that
// every component, the timer service, and every async handler push
// into, and that the device run loop drains with a single blocking
// consumer.
package queue

import (
	"container/list"
	"sync"
	"time"

	"github.com/fcmkit/fcm/message"
)

// CheckFunc filters candidates during Remove: given a message that
// already matches on interface/name, it reports whether that message
// should actually be removed.
type CheckFunc func(*message.Message) bool

// Queue is a mutex-guarded FIFO of messages with a blocking Await,
// targeted removal, and front-insertion for resend.
//
// The zero value is not usable; construct with New.
type Queue struct {
	mu   sync.Mutex
	cond *sync.Cond
	q    *list.List // of *message.Message
}

// New returns an empty, ready-to-use Queue.
func New() *Queue {
	q := &Queue{q: list.New()}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push stamps message.Timestamp with the current monotonic
// millisecond clock, appends m to the tail, and wakes one waiter.
func (q *Queue) Push(m *message.Message) {
	q.mu.Lock()
	m.Timestamp = nowMillis()
	q.q.PushBack(m)
	q.mu.Unlock()
	q.cond.Signal()
}

// Resend pushes m onto the front of the queue, so it is the next
// message Await returns. Used by a functional component to redeliver
// the message it is currently processing after a state change.
func (q *Queue) Resend(m *message.Message) {
	q.mu.Lock()
	q.q.PushFront(m)
	q.mu.Unlock()
	q.cond.Signal()
}

// Await blocks until the queue is non-empty, then removes and returns
// the head message.
func (q *Queue) Await() *message.Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.q.Len() == 0 {
		q.cond.Wait()
	}
	front := q.q.Front()
	q.q.Remove(front)
	return front.Value.(*message.Message)
}

// Remove does a linear scan for the first message whose Interface and
// Name match, for which check (if non-nil) also returns true, and
// removes it. It reports whether a removal occurred.
func (q *Queue) Remove(interfaceName, name string, check CheckFunc) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for e := q.q.Front(); e != nil; e = e.Next() {
		m := e.Value.(*message.Message)
		if m.Interface != interfaceName || m.Name != name {
			continue
		}
		if check != nil && !check(m) {
			continue
		}
		q.q.Remove(e)
		return true
	}
	return false
}

// Len reports the current number of queued messages. Intended for
// tests and diagnostics, not for control flow.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.q.Len()
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
