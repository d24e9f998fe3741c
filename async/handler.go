// Package async provides the two component kinds that bridge the
// engine's message queue to the outside world: Handler, a thin base
// for components that translate some external transport (MQTT,
// WebSocket, a UDP socket — see original_source/example/UdpHandler.cpp)
// into messages, and Worker, a one-shot background task that reports
// its result as a message when done.
//
// Grounded on original_source/FCM/src/FcmAsyncInterfaceHandler.cpp.
package async

import (
	"github.com/fcmkit/fcm/component"
	"github.com/fcmkit/fcm/queue"
	"github.com/fcmkit/fcm/schema"
)

// Handler is the base for a component driven by something other than
// the engine's own message dispatch: a network listener, a subscribed
// topic, a timer outside the engine's timer.Service. It adds nothing
// over component.Base beyond identity as a distinct type — concrete
// handlers embed it and run their own goroutine, calling Send (inherited
// from Base) whenever the external world produces something.
type Handler struct {
	*component.Base
}

// NewHandler constructs a Handler.
func NewHandler(name string, settings map[string]interface{}, q *queue.Queue, hooks component.Hooks, schemaSpec schema.Spec) (*Handler, error) {
	base, err := component.NewBase(name, settings, q, hooks, schemaSpec)
	if err != nil {
		return nil, err
	}
	return &Handler{Base: base}, nil
}
