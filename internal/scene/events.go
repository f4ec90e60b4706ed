package scene

import "sync"

// Event identifies a lifecycle or user-defined event kind.
type Event string

const (
	// EventReady fires exactly once per node, before its first Update.
	EventReady Event = "ready"
	// EventUpdate fires once per node per frame, parent before children.
	EventUpdate Event = "update"
)

// EventCustom returns a user-defined event kind. Custom events share the
// dispatch path of the built-in kinds and are emitted through
// GameContext.EmitCustom.
func EventCustom(name string) Event {
	return Event("custom:" + name)
}

type eventCallback struct {
	// Guards the callback so a reentrant trigger of the same event on the
	// same node is skipped instead of deadlocking or running concurrently.
	mu sync.Mutex
	fn func(Node, *GameContext)
}

// EventReceiver maps event kinds to type-erased callbacks for one node.
// Callbacks are registered through On, which binds them to a concrete
// node type; dispatch against a node of a different type is a silent
// no-op.
type EventReceiver struct {
	callbacks  map[Event]*eventCallback
	readyFired bool
}

// NewEventReceiver returns an empty receiver.
func NewEventReceiver() *EventReceiver {
	return &EventReceiver{callbacks: make(map[Event]*eventCallback)}
}

// On registers a callback for the event, bound to the concrete node type
// T. At dispatch time the target is type-asserted to T; a mismatch skips
// the callback without error. Registering a second callback for the same
// event replaces the first.
func On[T Node](r *EventReceiver, event Event, fn func(T, *GameContext)) {
	r.callbacks[event] = &eventCallback{
		fn: func(target Node, ctx *GameContext) {
			if typed, ok := target.(T); ok {
				fn(typed, ctx)
			}
		},
	}
}

// Trigger invokes the callback registered for the event against the
// target, if any. A reentrant trigger of the same event on the same
// receiver (a callback emitting the event it is handling) is skipped.
func (r *EventReceiver) Trigger(event Event, target Node, ctx *GameContext) {
	cb, ok := r.callbacks[event]
	if !ok {
		return
	}
	if !cb.mu.TryLock() {
		return
	}
	defer cb.mu.Unlock()
	cb.fn(target, ctx)
}

// Has reports whether a callback is registered for the event.
func (r *EventReceiver) Has(event Event) bool {
	_, ok := r.callbacks[event]
	return ok
}

// fireReadyOnce triggers EventReady the first time it is called for this
// receiver. The scene calls it ahead of every Update dispatch so nodes
// added after the frame loop started still get their Ready before their
// first Update.
func (r *EventReceiver) fireReadyOnce(target Node, ctx *GameContext) {
	if r.readyFired {
		return
	}
	r.readyFired = true
	r.Trigger(EventReady, target, ctx)
}
