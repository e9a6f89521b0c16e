package registry

import (
	"log/slog"
	"sync"

	"github.com/loomkit/loom/pkg/adapter"
)

// Dependency levels, used for logging and metric labels.
const (
	levelKey      = "key"
	levelItem     = "item"
	levelProp     = "prop"
	levelItemProp = "item_prop"
)

// Config configures a Registry.
type Config struct {
	// Adapter supplies dependencies from the host reactive runtime.
	// If nil, the registry is inert: every operation is a safe no-op.
	Adapter adapter.Adapter

	// Logger is the structured logger for debug-level bookkeeping events.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Metrics, when non-nil, records track/trigger counts and live
	// dependency counts. See NewMetrics.
	Metrics *Metrics
}

// Registry owns the four selector maps and the dependencies they hold.
//
// All methods are safe for concurrent use, but notification follows the
// copy-before-notify pattern: observers run outside the registry lock, so
// a re-entrant observer may freely track or trigger further selectors.
type Registry struct {
	adapter adapter.Adapter
	logger  *slog.Logger
	metrics *Metrics

	mu        sync.Mutex
	keys      map[string]adapter.Dependency
	items     map[string]map[string]adapter.Dependency
	props     map[string]map[string]adapter.Dependency
	itemProps map[string]map[string]map[string]adapter.Dependency
}

// New creates a Registry with the given configuration.
func New(cfg Config) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		adapter:   cfg.Adapter,
		logger:    logger,
		metrics:   cfg.Metrics,
		keys:      make(map[string]adapter.Dependency),
		items:     make(map[string]map[string]adapter.Dependency),
		props:     make(map[string]map[string]adapter.Dependency),
		itemProps: make(map[string]map[string]map[string]adapter.Dependency),
	}
}

// InScope reports whether tracking performed now would register an
// observer. With no adapter configured there is nothing to register on;
// an adapter without a scope probe counts as always active.
func (r *Registry) InScope() bool {
	if r.adapter == nil {
		return false
	}
	return adapter.InScope(r.adapter)
}

// =============================================================================
// Get-or-create accessors
// =============================================================================

// KeyDependency returns the dependency for a whole key, creating it on
// first access. Returns nil when no adapter is configured. Repeated calls
// for the same key return the same instance until removal or Clear.
func (r *Registry) KeyDependency(key string) adapter.Dependency {
	if r.adapter == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureKey(key)
}

// ItemDependency returns the dependency for one item of a collection,
// creating it on first access. Returns nil when no adapter is configured.
func (r *Registry) ItemDependency(collection, id string) adapter.Dependency {
	if r.adapter == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureItem(collection, id)
}

// PropDependency returns the dependency for one property of a key,
// creating it on first access. Returns nil when no adapter is configured.
func (r *Registry) PropDependency(key, prop string) adapter.Dependency {
	if r.adapter == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureProp(key, prop)
}

// ItemPropDependency returns the dependency for one property of one item,
// creating it on first access. Returns nil when no adapter is configured.
func (r *Registry) ItemPropDependency(collection, id, prop string) adapter.Dependency {
	if r.adapter == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureItemProp(collection, id, prop)
}

// =============================================================================
// Track family (read side)
// =============================================================================

// Track registers the current observing context on a whole key.
// Skipped entirely (no dependency created) when out of scope.
func (r *Registry) Track(key string) {
	if !r.InScope() {
		return
	}
	r.mu.Lock()
	dep := r.ensureKey(key)
	r.mu.Unlock()

	dep.Depend()
	r.metrics.trackInc(levelKey)
}

// TrackItem registers the current observing context on one item.
func (r *Registry) TrackItem(collection, id string) {
	if !r.InScope() {
		return
	}
	r.mu.Lock()
	dep := r.ensureItem(collection, id)
	r.mu.Unlock()

	dep.Depend()
	r.metrics.trackInc(levelItem)
}

// TrackProp registers the current observing context on one property of a
// key, and on the owning key itself, so key-level observers see property
// changes roll up.
func (r *Registry) TrackProp(key, prop string) {
	if !r.InScope() {
		return
	}
	r.mu.Lock()
	propDep := r.ensureProp(key, prop)
	keyDep := r.ensureKey(key)
	r.mu.Unlock()

	propDep.Depend()
	keyDep.Depend()
	r.metrics.trackInc(levelProp)
}

// TrackItemProp registers the current observing context on one property
// of one item, cascading up to the item and the collection.
func (r *Registry) TrackItemProp(collection, id, prop string) {
	if !r.InScope() {
		return
	}
	r.mu.Lock()
	propDep := r.ensureItemProp(collection, id, prop)
	itemDep := r.ensureItem(collection, id)
	collDep := r.ensureKey(collection)
	r.mu.Unlock()

	propDep.Depend()
	itemDep.Depend()
	collDep.Depend()
	r.metrics.trackInc(levelItemProp)
}

// =============================================================================
// Trigger family (write side)
// =============================================================================

// Trigger notifies observers of a whole key. Keys with no dependency yet
// are a no-op; a write to untracked state has no observers.
func (r *Registry) Trigger(key string) {
	if r.adapter == nil {
		return
	}
	r.mu.Lock()
	dep := r.keys[key]
	r.mu.Unlock()

	if dep != nil {
		dep.Notify()
	}
	r.metrics.triggerInc(levelKey)
}

// TriggerProp notifies observers of exactly one property of a key.
// The owning key's observers are not notified: granularities are
// independent on the write side.
func (r *Registry) TriggerProp(key, prop string) {
	if r.adapter == nil {
		return
	}
	r.mu.Lock()
	var dep adapter.Dependency
	if props := r.props[key]; props != nil {
		dep = props[prop]
	}
	r.mu.Unlock()

	if dep != nil {
		dep.Notify()
	}
	r.metrics.triggerInc(levelProp)
}

// TriggerItemProp notifies observers of exactly one property of one item.
func (r *Registry) TriggerItemProp(collection, id, prop string) {
	if r.adapter == nil {
		return
	}
	r.mu.Lock()
	var dep adapter.Dependency
	if ids := r.itemProps[collection]; ids != nil {
		if props := ids[id]; props != nil {
			dep = props[prop]
		}
	}
	r.mu.Unlock()

	if dep != nil {
		dep.Notify()
	}
	r.metrics.triggerInc(levelItemProp)
}

// TriggerItem notifies observers of one item, plus every property-level
// dependency nested under it: a bulk item replacement invalidates all
// derived property reads. The enclosing collection is NOT notified;
// structural changes are signaled separately via TriggerCollection.
func (r *Registry) TriggerItem(collection, id string) {
	if r.adapter == nil {
		return
	}
	r.mu.Lock()
	deps := r.itemDeps(collection, id)
	r.mu.Unlock()

	for _, dep := range deps {
		dep.Notify()
	}
	r.metrics.triggerInc(levelItem)
}

// itemDeps collects the item dependency followed by its nested property
// dependencies. Caller must hold r.mu.
func (r *Registry) itemDeps(collection, id string) []adapter.Dependency {
	var deps []adapter.Dependency
	if ids := r.items[collection]; ids != nil {
		if dep := ids[id]; dep != nil {
			deps = append(deps, dep)
		}
	}
	if ids := r.itemProps[collection]; ids != nil {
		for _, dep := range ids[id] {
			deps = append(deps, dep)
		}
	}
	return deps
}

// TriggerCollection notifies observers of the collection as a whole.
// Used for structural changes: items added or removed.
func (r *Registry) TriggerCollection(collection string) {
	r.Trigger(collection)
}

// TriggerAdd signals that an item was added to a collection. Only the
// collection's observers care; the new item has no dependencies yet.
func (r *Registry) TriggerAdd(collection string) {
	r.TriggerCollection(collection)
}

// TriggerRemove signals that an item was removed from a collection.
// The order is fixed: item and property observers react first, then the
// collection is notified, and only then is the bookkeeping discarded, so
// observers refreshing an item list see the removal only after per-item
// cleanup had its chance to run.
func (r *Registry) TriggerRemove(collection, id string) {
	if r.adapter == nil {
		return
	}
	r.TriggerItem(collection, id)
	r.TriggerCollection(collection)
	r.RemoveItemDependency(collection, id)
}

// =============================================================================
// Removal
// =============================================================================

// RemoveItemDependency discards the item dependency and every property
// dependency nested under it, so a later recreation of an item under the
// same id starts from a clean slate.
func (r *Registry) RemoveItemDependency(collection, id string) {
	if r.adapter == nil {
		return
	}
	r.mu.Lock()
	removed := 0
	if ids := r.items[collection]; ids != nil {
		if _, ok := ids[id]; ok {
			delete(ids, id)
			removed++
			r.metrics.depDec(levelItem, 1)
		}
		if len(ids) == 0 {
			delete(r.items, collection)
		}
	}
	if ids := r.itemProps[collection]; ids != nil {
		if props := ids[id]; props != nil {
			removed += len(props)
			r.metrics.depDec(levelItemProp, len(props))
			delete(ids, id)
		}
		if len(ids) == 0 {
			delete(r.itemProps, collection)
		}
	}
	r.mu.Unlock()

	if removed > 0 {
		r.logger.Debug("loom: removed item dependencies",
			"collection", collection, "id", id, "count", removed)
	}
}

// Clear discards every dependency at every level. The next access to any
// selector starts from scratch.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.keys = make(map[string]adapter.Dependency)
	r.items = make(map[string]map[string]adapter.Dependency)
	r.props = make(map[string]map[string]adapter.Dependency)
	r.itemProps = make(map[string]map[string]map[string]adapter.Dependency)
	r.mu.Unlock()

	r.metrics.depReset()
	r.logger.Debug("loom: registry cleared")
}

// DependencyCounts returns the number of live dependencies per level.
// Keys of the returned map are "key", "item", "prop" and "item_prop".
func (r *Registry) DependencyCounts() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := map[string]int{
		levelKey:      len(r.keys),
		levelItem:     0,
		levelProp:     0,
		levelItemProp: 0,
	}
	for _, ids := range r.items {
		counts[levelItem] += len(ids)
	}
	for _, props := range r.props {
		counts[levelProp] += len(props)
	}
	for _, ids := range r.itemProps {
		for _, props := range ids {
			counts[levelItemProp] += len(props)
		}
	}
	return counts
}

// =============================================================================
// Internal get-or-create. Callers must hold r.mu and have checked that an
// adapter is configured.
// =============================================================================

func (r *Registry) ensureKey(key string) adapter.Dependency {
	dep, ok := r.keys[key]
	if !ok {
		dep = r.adapter.Create()
		r.keys[key] = dep
		r.metrics.depInc(levelKey)
		r.logger.Debug("loom: created dependency", "level", levelKey, "key", key)
	}
	return dep
}

func (r *Registry) ensureItem(collection, id string) adapter.Dependency {
	ids := r.items[collection]
	if ids == nil {
		ids = make(map[string]adapter.Dependency)
		r.items[collection] = ids
	}
	dep, ok := ids[id]
	if !ok {
		dep = r.adapter.Create()
		ids[id] = dep
		r.metrics.depInc(levelItem)
		r.logger.Debug("loom: created dependency",
			"level", levelItem, "collection", collection, "id", id)
	}
	return dep
}

func (r *Registry) ensureProp(key, prop string) adapter.Dependency {
	props := r.props[key]
	if props == nil {
		props = make(map[string]adapter.Dependency)
		r.props[key] = props
	}
	dep, ok := props[prop]
	if !ok {
		dep = r.adapter.Create()
		props[prop] = dep
		r.metrics.depInc(levelProp)
		r.logger.Debug("loom: created dependency",
			"level", levelProp, "key", key, "prop", prop)
	}
	return dep
}

func (r *Registry) ensureItemProp(collection, id, prop string) adapter.Dependency {
	ids := r.itemProps[collection]
	if ids == nil {
		ids = make(map[string]map[string]adapter.Dependency)
		r.itemProps[collection] = ids
	}
	props := ids[id]
	if props == nil {
		props = make(map[string]adapter.Dependency)
		ids[id] = props
	}
	dep, ok := props[prop]
	if !ok {
		dep = r.adapter.Create()
		props[prop] = dep
		r.metrics.depInc(levelItemProp)
		r.logger.Debug("loom: created dependency",
			"level", levelItemProp, "collection", collection, "id", id, "prop", prop)
	}
	return dep
}
