// Package fcm provides functional-component-machine runtime
// machinery: a single message queue, a timer service, functional
// components (state machines) and async handlers built on top of
// them, and a device that wires components together and runs the
// dispatch loop.
//
// The core packages are message, queue, timer, component, machine,
// async, and device. schema and scripted are supplemental. tools
// renders a component's transition table for documentation.
package fcm
