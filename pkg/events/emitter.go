// Package events provides a type-keyed publish/subscribe channel. It is
// fully independent of the dependency registry and works with zero
// adapters configured.
//
// Listeners for one event fire in subscription order, and Emit returns
// only after every listener has run, so synchronous observers always see
// post-mutation state.
//
// # Error policy
//
// The policy is fixed at construction. Without an error handler, a
// panicking listener propagates out of Emit and halts the remaining
// listeners for that emission (fail fast). With WithErrorHandler, each
// listener runs in isolation: panics are recovered and routed to the
// handler, and the remaining listeners still run.
package events

import (
	"sync"
	"sync/atomic"
)

// Handler is an event listener.
type Handler func(payload any)

// ErrorHandler receives the value a listener panicked with, together with
// the event name that was being emitted.
type ErrorHandler func(event string, recovered any)

// subscriptionIDs is the source of unique subscription identifiers.
var subscriptionIDs uint64

func nextSubscriptionID() uint64 {
	return atomic.AddUint64(&subscriptionIDs, 1)
}

// Subscription is the handle returned by On and Once. Removing it is
// idempotent; removing a subscription the emitter no longer knows about
// is a silent no-op.
type Subscription struct {
	id      uint64
	event   string
	emitter *Emitter
	once    bool
	fn      Handler
}

// Event returns the event name this subscription listens for.
func (s *Subscription) Event() string { return s.event }

// Remove unsubscribes the listener. Safe to call more than once.
func (s *Subscription) Remove() {
	s.emitter.Off(s)
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithErrorHandler switches the emitter to fail-soft emission: listener
// panics are recovered, routed to h, and do not halt other listeners.
func WithErrorHandler(h ErrorHandler) Option {
	return func(e *Emitter) {
		e.onError = h
	}
}

// Emitter is an ordered, name-keyed publish/subscribe channel.
type Emitter struct {
	onError ErrorHandler

	mu        sync.Mutex
	listeners map[string][]*Subscription
}

// New creates an Emitter.
func New(opts ...Option) *Emitter {
	e := &Emitter{
		listeners: make(map[string][]*Subscription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// On subscribes fn to the named event. Listeners fire in subscription
// order on every emission until removed.
func (e *Emitter) On(event string, fn Handler) *Subscription {
	return e.subscribe(event, fn, false)
}

// Once subscribes fn for a single emission. The subscription removes
// itself before fn is invoked, so fn may re-subscribe without being
// called twice for the same emission.
func (e *Emitter) Once(event string, fn Handler) *Subscription {
	return e.subscribe(event, fn, true)
}

func (e *Emitter) subscribe(event string, fn Handler, once bool) *Subscription {
	sub := &Subscription{
		id:      nextSubscriptionID(),
		event:   event,
		emitter: e,
		once:    once,
		fn:      fn,
	}
	e.mu.Lock()
	e.listeners[event] = append(e.listeners[event], sub)
	e.mu.Unlock()
	return sub
}

// Off removes a subscription. Unknown or already-removed subscriptions
// are a silent no-op, as are subscriptions belonging to another emitter.
func (e *Emitter) Off(sub *Subscription) {
	if sub == nil || sub.emitter != e {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	subs := e.listeners[sub.event]
	for i, s := range subs {
		if s.id == sub.id {
			e.listeners[sub.event] = append(subs[:i:i], subs[i+1:]...)
			if len(e.listeners[sub.event]) == 0 {
				delete(e.listeners, sub.event)
			}
			return
		}
	}
}

// Emit invokes every listener of the named event, in subscription order,
// with the given payload. Once-listeners are removed before invocation.
func (e *Emitter) Emit(event string, payload any) {
	// Copy before notify: listeners may subscribe or unsubscribe
	// re-entrantly without invalidating this emission's iteration.
	e.mu.Lock()
	subs := make([]*Subscription, len(e.listeners[event]))
	copy(subs, e.listeners[event])
	e.mu.Unlock()

	for _, sub := range subs {
		if sub.once {
			e.Off(sub)
		}
		e.invoke(event, sub.fn, payload)
	}
}

// invoke runs one listener under the configured error policy.
func (e *Emitter) invoke(event string, fn Handler, payload any) {
	if e.onError == nil {
		// Fail fast: a panicking listener propagates and halts the rest.
		fn(payload)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.onError(event, r)
		}
	}()
	fn(payload)
}

// ListenerCount returns the number of live listeners for an event.
func (e *Emitter) ListenerCount(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[event])
}

// EventNames returns the names of all events with at least one listener.
func (e *Emitter) EventNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.listeners))
	for name := range e.listeners {
		names = append(names, name)
	}
	return names
}
