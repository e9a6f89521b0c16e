package wrap

import (
	"reflect"

	"github.com/google/uuid"

	"github.com/loomkit/loom/pkg/adapter"
	"github.com/loomkit/loom/pkg/registry"
)

// options holds the wrapper axes fixed at construction.
type options struct {
	shallow  bool
	readOnly bool
}

// Option configures a wrapper constructor.
type Option func(*options)

// Shallow limits interception to the wrapped value's own properties;
// nested values are returned unwrapped.
func Shallow() Option {
	return func(o *options) {
		o.shallow = true
	}
}

// ReadOnly makes every write or delete through the wrapper fail with a
// *ReadOnlyError, leaving the target unmodified. Read tracking is
// unchanged.
func ReadOnly() Option {
	return func(o *options) {
		o.readOnly = true
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// =============================================================================
// Constructors
// =============================================================================

// Keyed wraps an object under a whole-key selector. Property reads track
// (key, path) and writes trigger the same selector.
func Keyed(reg *registry.Registry, key string, target map[string]any, opts ...Option) *Object {
	return newObject(scope{reg: reg, key: key}, target, buildOptions(opts))
}

// Item wraps an object under a (collection, id) selector, so its
// property accesses address item-property dependencies.
func Item(reg *registry.Registry, collection, id string, target map[string]any, opts ...Option) *Object {
	return newObject(scope{reg: reg, collection: collection, id: id}, target, buildOptions(opts))
}

// Anonymous wraps an object under a generated key, for state that has no
// natural name of its own. The key is retrievable via Object.Key.
func Anonymous(reg *registry.Registry, target map[string]any, opts ...Option) *Object {
	return Keyed(reg, anonymousKey(), target, opts...)
}

// KeyedList wraps a list under a whole-key selector.
func KeyedList(reg *registry.Registry, key string, target []any, opts ...Option) *List {
	return newRootList(scope{reg: reg, key: key}, target, buildOptions(opts))
}

// ItemList wraps a list under a (collection, id) selector.
func ItemList(reg *registry.Registry, collection, id string, target []any, opts ...Option) *List {
	return newRootList(scope{reg: reg, collection: collection, id: id}, target, buildOptions(opts))
}

// AnonymousList wraps a list under a generated key.
func AnonymousList(reg *registry.Registry, target []any, opts ...Option) *List {
	return KeyedList(reg, anonymousKey(), target, opts...)
}

// Reactive wraps target for the given adapter, delegating to the
// adapter's native reactive primitive when it exposes one. Only mutable,
// key-scoped wraps may take the fast path: a generic native primitive
// can express neither item addressing nor read-only enforcement, so
// those variants always use the generic layer.
func Reactive(a adapter.Adapter, reg *registry.Registry, key string, target map[string]any, opts ...Option) any {
	o := buildOptions(opts)
	if !o.readOnly {
		if rw, ok := a.(adapter.ReactiveWrapper); ok {
			return rw.WrapReactive(target)
		}
	}
	return newObject(scope{reg: reg, key: key}, target, o)
}

// anonymousKey generates a collision-free key for anonymously wrapped
// state. A UUID instead of a process-wide counter keeps the package free
// of shared mutable state.
func anonymousKey() string {
	return "loom-" + uuid.NewString()
}

// =============================================================================
// Scope: routes track/trigger calls to the right selector family
// =============================================================================

// scope carries the root addressing of a wrapper tree. An empty
// collection means key scope.
type scope struct {
	reg        *registry.Registry
	key        string
	collection string
	id         string
}

func (s scope) item() bool {
	return s.collection != ""
}

// track registers the current observing context on the given path.
// The empty path addresses the root selector itself.
func (s scope) track(path string) {
	switch {
	case path == "" && s.item():
		s.reg.TrackItem(s.collection, s.id)
	case path == "":
		s.reg.Track(s.key)
	case s.item():
		s.reg.TrackItemProp(s.collection, s.id, path)
	default:
		s.reg.TrackProp(s.key, path)
	}
}

// trigger notifies observers of the given path. The empty path addresses
// the root selector itself.
func (s scope) trigger(path string) {
	switch {
	case path == "" && s.item():
		s.reg.TriggerItem(s.collection, s.id)
	case path == "":
		s.reg.Trigger(s.key)
	case s.item():
		s.reg.TriggerItemProp(s.collection, s.id, path)
	default:
		s.reg.TriggerProp(s.key, path)
	}
}

// describe renders the selector for error messages: "key.path" or
// "collection[id].path".
func (s scope) describe(path string) string {
	root := s.key
	if s.item() {
		root = s.collection + "[" + s.id + "]"
	}
	if path == "" {
		return root
	}
	return root + "." + path
}

// joinPath extends a dot-joined path by one property name.
func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

// =============================================================================
// Identity cache
// =============================================================================

// identity is the cache key for one underlying object. The pointer alone
// would suffice in practice, but keeping the kind separate makes a
// map/list collision impossible by construction.
type identity struct {
	ptr  uintptr
	list bool
}

// identityOf returns the cache identity of an eligible value. ok is
// false for values that cannot be identified by pointer (an empty list
// has no backing array to point at); the cache falls back to path
// keying for those.
func identityOf(v any) (identity, bool) {
	switch t := v.(type) {
	case map[string]any:
		if t == nil {
			return identity{}, false
		}
		return identity{ptr: reflect.ValueOf(t).Pointer()}, true
	case []any:
		if cap(t) == 0 {
			return identity{}, false
		}
		return identity{ptr: reflect.ValueOf(t).Pointer(), list: true}, true
	}
	return identity{}, false
}

// cache maps underlying-object identity to the wrapper already built for
// it. One cache is created per root constructor call and shared by every
// recursive wrap underneath it, giving referential stability and cycle
// safety within that traversal.
//
// List values without an identity yet (no backing array to point at) are
// cached under their path instead, so an empty-list child keeps a single
// wrapper and writebacks serialize through it. Once a mutation gives the
// list a backing array, replace re-keys it into the identity map.
type cache struct {
	wrappers map[identity]any
	byPath   map[string]any
}

func newCache() *cache {
	return &cache{
		wrappers: make(map[identity]any),
		byPath:   make(map[string]any),
	}
}

func (c *cache) lookup(id identity) (any, bool) {
	w, ok := c.wrappers[id]
	return w, ok
}

func (c *cache) insert(id identity, w any) {
	c.wrappers[id] = w
}

func (c *cache) lookupPath(path string) (any, bool) {
	w, ok := c.byPath[path]
	return w, ok
}

func (c *cache) insertPath(path string, w any) {
	c.byPath[path] = w
}

// rekey moves a wrapper to a new identity after a list mutation moved
// its backing array, so later reads of the same path still hit the same
// wrapper.
func (c *cache) rekey(from, to identity, w any) {
	delete(c.wrappers, from)
	if to.ptr != 0 {
		c.wrappers[to] = w
	}
}

// wrapValue returns the wrapper for an eligible child value, reusing the
// cached one when the same underlying object was wrapped before during
// this traversal. store is the writeback used if the child is a list
// whose backing array later moves. Ineligible values are returned as-is.
func wrapValue(sc scope, path string, v any, opts options, c *cache, store func([]any)) any {
	id, ok := identityOf(v)
	if ok {
		if w, hit := c.lookup(id); hit {
			return w
		}
	}
	switch t := v.(type) {
	case map[string]any:
		if t == nil {
			// Nothing to intercept; a nil map cannot hold properties
			// and writing through a wrapper over it would panic.
			return v
		}
		o := &Object{sc: sc, path: path, target: t, opts: opts, cache: c}
		c.insert(id, o)
		return o
	case []any:
		if !ok {
			if w, hit := c.lookupPath(path); hit {
				return w
			}
		}
		l := &List{sc: sc, path: path, elems: t, opts: opts, cache: c, store: store}
		if ok {
			c.insert(id, l)
		} else {
			c.insertPath(path, l)
		}
		return l
	}
	return v
}
