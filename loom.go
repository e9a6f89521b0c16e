package loom

import (
	"errors"
	"log/slog"

	"github.com/loomkit/loom/pkg/adapter"
	"github.com/loomkit/loom/pkg/events"
	"github.com/loomkit/loom/pkg/registry"
	"github.com/loomkit/loom/pkg/wrap"
)

// ErrAdapterConflict is returned by New when both Adapter and Adapters
// are set; the fan-out membership must be stated in one place.
var ErrAdapterConflict = errors.New("loom: set either Adapter or Adapters, not both")

// Tracker is the main entry point: one dependency registry plus one
// event channel. The two subsystems have independent lifecycles —
// Clear resets the dependency graph and leaves event subscriptions
// untouched.
type Tracker struct {
	adapter  adapter.Adapter
	registry *registry.Registry
	events   *events.Emitter
	logger   *slog.Logger
}

// New creates a Tracker from the given configuration. Invalid adapter
// configuration (an empty or conflicting fan-out) fails immediately.
func New(cfg Config) (*Tracker, error) {
	a, err := buildAdapter(cfg)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var emitterOpts []events.Option
	if cfg.EventErrorHandler != nil {
		emitterOpts = append(emitterOpts, events.WithErrorHandler(cfg.EventErrorHandler))
	}

	return &Tracker{
		adapter: a,
		registry: registry.New(registry.Config{
			Adapter: a,
			Logger:  logger,
			Metrics: cfg.Metrics,
		}),
		events: events.New(emitterOpts...),
		logger: logger,
	}, nil
}

// Registry exposes the underlying dependency registry.
func (t *Tracker) Registry() *registry.Registry { return t.registry }

// Events exposes the underlying event channel.
func (t *Tracker) Events() *events.Emitter { return t.events }

// InScope reports whether tracking performed now would register an
// observer.
func (t *Tracker) InScope() bool { return t.registry.InScope() }

// =============================================================================
// Track family
// =============================================================================

// Track registers the current observing context on a whole key.
func (t *Tracker) Track(key string) { t.registry.Track(key) }

// TrackItem registers the current observing context on one item.
func (t *Tracker) TrackItem(collection, id string) { t.registry.TrackItem(collection, id) }

// TrackProp registers the current observing context on one property of a
// key, cascading to the owning key.
func (t *Tracker) TrackProp(key, prop string) { t.registry.TrackProp(key, prop) }

// TrackItemProp registers the current observing context on one property
// of one item, cascading to the item and the collection.
func (t *Tracker) TrackItemProp(collection, id, prop string) {
	t.registry.TrackItemProp(collection, id, prop)
}

// =============================================================================
// Trigger family. Each operation has a second form that additionally
// emits a named event with a payload; notification always precedes
// emission, within the same call.
// =============================================================================

// Trigger notifies observers of a whole key.
func (t *Tracker) Trigger(key string) { t.registry.Trigger(key) }

// TriggerEmit notifies observers of a whole key, then emits an event.
func (t *Tracker) TriggerEmit(key, event string, payload any) {
	t.registry.Trigger(key)
	t.events.Emit(event, payload)
}

// TriggerItem notifies observers of one item and its nested properties.
func (t *Tracker) TriggerItem(collection, id string) { t.registry.TriggerItem(collection, id) }

// TriggerItemEmit notifies observers of one item, then emits an event.
func (t *Tracker) TriggerItemEmit(collection, id, event string, payload any) {
	t.registry.TriggerItem(collection, id)
	t.events.Emit(event, payload)
}

// TriggerProp notifies observers of one property of a key.
func (t *Tracker) TriggerProp(key, prop string) { t.registry.TriggerProp(key, prop) }

// TriggerPropEmit notifies observers of one property, then emits an event.
func (t *Tracker) TriggerPropEmit(key, prop, event string, payload any) {
	t.registry.TriggerProp(key, prop)
	t.events.Emit(event, payload)
}

// TriggerItemProp notifies observers of one property of one item.
func (t *Tracker) TriggerItemProp(collection, id, prop string) {
	t.registry.TriggerItemProp(collection, id, prop)
}

// TriggerItemPropEmit notifies observers of one item property, then
// emits an event.
func (t *Tracker) TriggerItemPropEmit(collection, id, prop, event string, payload any) {
	t.registry.TriggerItemProp(collection, id, prop)
	t.events.Emit(event, payload)
}

// TriggerCollection notifies observers of a collection as a whole.
func (t *Tracker) TriggerCollection(collection string) {
	t.registry.TriggerCollection(collection)
}

// TriggerCollectionEmit notifies collection observers, then emits an event.
func (t *Tracker) TriggerCollectionEmit(collection, event string, payload any) {
	t.registry.TriggerCollection(collection)
	t.events.Emit(event, payload)
}

// TriggerAdd signals that an item was added to a collection.
func (t *Tracker) TriggerAdd(collection string) { t.registry.TriggerAdd(collection) }

// TriggerAddEmit signals an item addition, then emits an event.
func (t *Tracker) TriggerAddEmit(collection, event string, payload any) {
	t.registry.TriggerAdd(collection)
	t.events.Emit(event, payload)
}

// TriggerRemove signals that an item was removed: item and property
// observers react first, the collection is notified next, and the item's
// bookkeeping is discarded last.
func (t *Tracker) TriggerRemove(collection, id string) {
	t.registry.TriggerRemove(collection, id)
}

// TriggerRemoveEmit signals an item removal, then emits an event.
func (t *Tracker) TriggerRemoveEmit(collection, id, event string, payload any) {
	t.registry.TriggerRemove(collection, id)
	t.events.Emit(event, payload)
}

// RemoveItemDependency discards one item's dependencies without
// notifying anyone.
func (t *Tracker) RemoveItemDependency(collection, id string) {
	t.registry.RemoveItemDependency(collection, id)
}

// Clear resets the dependency graph. Event subscriptions are untouched;
// the two subsystems have independent lifecycles.
func (t *Tracker) Clear() {
	t.registry.Clear()
}

// =============================================================================
// Event channel passthrough
// =============================================================================

// On subscribes a listener to a named event.
func (t *Tracker) On(event string, fn events.Handler) *events.Subscription {
	return t.events.On(event, fn)
}

// Once subscribes a listener for a single emission.
func (t *Tracker) Once(event string, fn events.Handler) *events.Subscription {
	return t.events.Once(event, fn)
}

// Off removes a subscription; unknown subscriptions are a silent no-op.
func (t *Tracker) Off(sub *events.Subscription) {
	t.events.Off(sub)
}

// Emit publishes an event without touching the dependency graph.
func (t *Tracker) Emit(event string, payload any) {
	t.events.Emit(event, payload)
}

// =============================================================================
// Wrapper conveniences
// =============================================================================

// Wrap builds a key-scoped deep wrapper over target.
func (t *Tracker) Wrap(key string, target map[string]any, opts ...wrap.Option) *wrap.Object {
	return wrap.Keyed(t.registry, key, target, opts...)
}

// WrapItem builds an item-scoped deep wrapper over target.
func (t *Tracker) WrapItem(collection, id string, target map[string]any, opts ...wrap.Option) *wrap.Object {
	return wrap.Item(t.registry, collection, id, target, opts...)
}

// WrapList builds a key-scoped deep wrapper over a list.
func (t *Tracker) WrapList(key string, target []any, opts ...wrap.Option) *wrap.List {
	return wrap.KeyedList(t.registry, key, target, opts...)
}

// WrapItemList builds an item-scoped deep wrapper over a list.
func (t *Tracker) WrapItemList(collection, id string, target []any, opts ...wrap.Option) *wrap.List {
	return wrap.ItemList(t.registry, collection, id, target, opts...)
}

// OnDispose forwards a cleanup callback to the configured adapter's
// dispose hook for the given dependency. Adapters without the hook drop
// the request.
func (t *Tracker) OnDispose(fn func(), dep adapter.Dependency) {
	adapter.OnDispose(t.adapter, fn, dep)
}
